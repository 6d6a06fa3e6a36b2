package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"pricewatch_api/config"
)

type SQLiteDatabase struct {
	config.DatabaseConfig
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteConnector(dbConfig config.DatabaseConfig) *SQLiteDatabase {
	return &SQLiteDatabase{DatabaseConfig: dbConfig}
}

func (s *SQLiteDatabase) Connect() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite", s.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.GetConnectionString(), err)
	}
	// SQLite allows a single writer; one connection serialises access instead of returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s.db = db
	return s.db, nil
}

func (s *SQLiteDatabase) Ping(ctx context.Context) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return fmt.Errorf("database connection is not established")
	}
	return db.PingContext(ctx)
}

func (s *SQLiteDatabase) DriverName() string {
	return config.DriverSQLite
}

func (s *SQLiteDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
