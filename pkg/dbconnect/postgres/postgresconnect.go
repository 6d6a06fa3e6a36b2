package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"pricewatch_api/config"
)

const maxRetries = 10
const dbMaxOpenConns = 20
const retryDelay = 5 * time.Second

type PostgresDatabase struct {
	config.DatabaseConfig
	db  *sql.DB
	mu  sync.Mutex
	log func(format string, v ...any)

	retries int
	delay   time.Duration
}

func NewPgConnector(dbConfig config.DatabaseConfig, log func(format string, v ...any)) *PostgresDatabase {
	if log == nil {
		log = func(string, ...any) {}
	}
	return &PostgresDatabase{DatabaseConfig: dbConfig, log: log, retries: maxRetries, delay: retryDelay}
}

func (pg *PostgresDatabase) Connect() (*sql.DB, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db != nil {
		return pg.db, nil
	}

	var err error
	conStr := pg.GetConnectionString()

	for i := 0; i < pg.retries; i++ {
		var db *sql.DB
		db, err = sql.Open("postgres", conStr)
		if err != nil {
			pg.log("Failed to open Postgres (attempt %d/%d): %v", i+1, pg.retries, err)
			time.Sleep(pg.delay)
			continue
		}

		db.SetMaxOpenConns(dbMaxOpenConns)

		if err = db.Ping(); err != nil {
			pg.log("Failed to ping Postgres db (attempt %d/%d): %v", i+1, pg.retries, err)
			db.Close()
			time.Sleep(pg.delay)
			continue
		}

		pg.log("Successfully connected to Postgres")
		pg.db = db
		return pg.db, nil
	}
	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", pg.retries, err)
}

// Ping keeps the pool open on failure; database/sql reconnects on the next use.
func (pg *PostgresDatabase) Ping(ctx context.Context) error {
	pg.mu.Lock()
	db := pg.db
	pg.mu.Unlock()

	if db == nil {
		return fmt.Errorf("database connection is not established")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (pg *PostgresDatabase) DriverName() string {
	return config.DriverPostgres
}

func (pg *PostgresDatabase) Close() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	if pg.db == nil {
		return nil
	}
	err := pg.db.Close()
	pg.db = nil
	return err
}
