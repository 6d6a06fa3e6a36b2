package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"pricewatch_api/config"
	"pricewatch_api/internal/health"
	"pricewatch_api/internal/pricewatch/app/web"
	"pricewatch_api/internal/pricewatch/app/web/handlers"
	"pricewatch_api/internal/pricewatch/business"
	"pricewatch_api/internal/pricewatch/pkg/clients"
	"pricewatch_api/internal/pricewatch/storage/repositories"
	"pricewatch_api/migrations/infrastructure"
	"pricewatch_api/pkg/dbconnect"
	"pricewatch_api/pkg/dbconnect/migration"
	"pricewatch_api/pkg/logger"
)

type NotifyServer struct {
	dbconnect.Database
	cfg     *config.AppConfig
	log     logger.Logger
	started time.Time
}

func NewNotifyServer(connector dbconnect.Database, cfg *config.AppConfig, log logger.Logger) *NotifyServer {
	return &NotifyServer{Database: connector, cfg: cfg, log: log.WithPrefix("[NotifyServer]"), started: time.Now()}
}

// Run serves until ctx is cancelled, then drains HTTP and in-flight deliveries.
// Only a failure to reach the store at startup is returned as fatal.
func (s *NotifyServer) Run(ctx context.Context) error {
	db, err := s.Connect()
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer s.Close()

	if err := migration.Apply(db, infrastructure.Watches(s.DriverName())...); err != nil {
		return err
	}
	s.log.Info("migrations_applied", "driver", s.DriverName())

	repo := repositories.NewWatchRepository(db, s.DriverName())
	registry := business.NewWatchRegistry(repo, s.log)
	verifier := business.NewIdentityVerifier(
		clients.NewIdentityClient(s.cfg.Identity.BaseURL, s.cfg.Identity.Timeout, s.log), s.log)

	engineCfg := business.EngineConfig{DeliveryTimeout: s.cfg.Webhook.Timeout}
	if s.cfg.Webhook.RatePerSecond > 0 {
		burst := s.cfg.Webhook.Burst
		if burst < 1 {
			burst = 1
		}
		engineCfg.RateLimiter = rate.NewLimiter(rate.Limit(s.cfg.Webhook.RatePerSecond), burst)
	}
	engine := business.NewNotifyEngine(repo, clients.NewWebhookClient(s.cfg.Webhook.Timeout, s.log), engineCfg, s.log)

	stats := health.HostStats{}
	synthetic := health.NewSyntheticCheck(s.cfg.Health.SyntheticFail)
	reporter := health.NewReporter(s.log, 2*time.Second,
		health.NewStoreCheck(repo, s.log),
		health.NewDiskCheck(stats, s.cfg.Health.DiskPath, s.cfg.Health.DiskMinFreeBytes, s.log),
		synthetic,
	)
	metricsReporter := health.NewMetricsReporter(stats, s.cfg.Health.DiskPath, s.started, s.log)

	mux := web.SetupRoutes(web.Handlers{
		Watches: handlers.NewWatchHandler(registry, verifier, s.log),
		Notify:  handlers.NewNotifyHandler(engine, s.log),
		Health:  handlers.NewHealthHandler(reporter, synthetic, metricsReporter),
	}, s.cfg.Operator.JWTSecret, s.log)

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Service.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("http_shutdown", "error", err)
	}
	if !engine.Wait(shutdownCtx) {
		s.log.Warn("deliveries_abandoned", "reason", "shutdown timeout")
	}
	m := engine.Metrics()
	s.log.Info("shutdown_complete",
		"matched", m.MatchedCount.Load(),
		"delivered", m.DeliveredCount.Load(),
		"failed", m.FailedCount.Load())
	return nil
}
