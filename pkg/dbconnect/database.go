package dbconnect

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"pricewatch_api/config"
	"pricewatch_api/pkg/dbconnect/postgres"
	"pricewatch_api/pkg/dbconnect/sqlite"
)

type Database interface {
	Connect() (*sql.DB, error)
	Ping(ctx context.Context) error
	DriverName() string
	Close() error
}

// New picks the connector for the configured driver.
func New(dbConfig config.DatabaseConfig, connectLog func(format string, v ...any)) Database {
	if dbConfig.DriverName() == config.DriverSQLite {
		return sqlite.NewSQLiteConnector(dbConfig)
	}
	return postgres.NewPgConnector(dbConfig, connectLog)
}

// Rebind rewrites '?' placeholders into the driver's bind style.
func Rebind(driver, query string) string {
	if driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
