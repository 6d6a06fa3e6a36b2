package infrastructure

import (
	"database/sql"
	"fmt"

	"pricewatch_api/config"
	"pricewatch_api/pkg/dbconnect"
	"pricewatch_api/pkg/dbconnect/migration"
)

// Watches returns the schema migrations for the watch store, in application order.
func Watches(driver string) []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&MigrationsTable{Driver: driver},
		&WatchesTable{Driver: driver},
		&WatchesProductPriceIndex{Driver: driver},
	}
}

type MigrationsTable struct {
	Driver string
}

func (m *MigrationsTable) UpMigration(db *sql.DB) error {
	idColumn := "id SERIAL PRIMARY KEY"
	if m.Driver == config.DriverSQLite {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	_, err := db.Exec(fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS schema_migrations (
            %s,
            time TIMESTAMP NOT NULL,
            name VARCHAR(255) UNIQUE NOT NULL
        );
    `, idColumn))
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

type WatchesTable struct {
	Driver string
}

// UpMigration creates the watches table. The (user_id, product_id) constraint is what makes creation idempotent.
func (m *WatchesTable) UpMigration(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS watches (
		    id BIGSERIAL PRIMARY KEY,
		    user_id BIGINT NOT NULL,
		    product_id BIGINT NOT NULL,
		    price NUMERIC(12, 2) NOT NULL,
		    delivery_endpoint TEXT NOT NULL,
		    created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		    CONSTRAINT watches_user_product_key UNIQUE (user_id, product_id)
		);
		`
	if m.Driver == config.DriverSQLite {
		query = `
		CREATE TABLE IF NOT EXISTS watches (
		    id INTEGER PRIMARY KEY AUTOINCREMENT,
		    user_id INTEGER NOT NULL,
		    product_id INTEGER NOT NULL,
		    price REAL NOT NULL,
		    delivery_endpoint TEXT NOT NULL,
		    created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		    CONSTRAINT watches_user_product_key UNIQUE (user_id, product_id)
		);
		`
	}
	return applyOnce(db, m.Driver, "watches", query)
}

type WatchesProductPriceIndex struct {
	Driver string
}

func (m *WatchesProductPriceIndex) UpMigration(db *sql.DB) error {
	return applyOnce(db, m.Driver, "watches_product_price_idx",
		`CREATE INDEX IF NOT EXISTS watches_product_price_idx ON watches (product_id, price);`)
}

func applyOnce(db *sql.DB, driver, name, query string) error {
	var migrationExists bool
	err := db.QueryRow(dbconnect.Rebind(driver, "SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = ?)"), name).
		Scan(&migrationExists)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		return nil
	}

	if _, err = db.Exec(query); err != nil {
		return fmt.Errorf("failed to apply %s: %w", name, err)
	}
	_, err = db.Exec(dbconnect.Rebind(driver, "INSERT INTO schema_migrations (name, time) VALUES (?, current_timestamp)"), name)
	if err != nil {
		return fmt.Errorf("failed to mark %s migration as complete: %w", name, err)
	}
	return nil
}
