package config

import (
	"fmt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig interface {
	GetConnectionString() string
	DriverName() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

func (pc *PostgresConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName)
}

func (pc *PostgresConfig) DriverName() string {
	return DriverPostgres
}

// SQLiteConfig points the gateway at a local database file. Used for development and tests.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func (sc *SQLiteConfig) GetConnectionString() string {
	return sc.Path
}

func (sc *SQLiteConfig) DriverName() string {
	return DriverSQLite
}
