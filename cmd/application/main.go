package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pricewatch_api/config"
	"pricewatch_api/internal/pricewatch/app"
	"pricewatch_api/pkg/dbconnect"
	"pricewatch_api/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(os.Stdout, "[pricewatch]", cfg.Service.Debug)
	if envErr != nil {
		log.Debug("no .env file loaded", "error", envErr)
	}
	log.Info("service_starting", "driver", cfg.Store.Driver, "port", cfg.Service.Port)

	connector := dbconnect.New(cfg.Database(), func(format string, v ...any) {
		log.Info(fmt.Sprintf(format, v...))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewNotifyServer(connector, cfg, log).Run(ctx); err != nil {
		log.Error("service_failed", "error", err)
		os.Exit(1)
	}
}
