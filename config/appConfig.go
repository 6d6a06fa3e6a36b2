package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultDiskMinFree = 10 * 1024 * 1024

type ServiceConfig struct {
	Port            string        `yaml:"port"`
	Debug           bool          `yaml:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

type IdentityConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type WebhookConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

type HealthConfig struct {
	DiskPath         string `yaml:"disk_path"`
	DiskMinFreeBytes uint64 `yaml:"disk_min_free_bytes"`
	// SyntheticFail seeds the operator-toggleable "test" check.
	SyntheticFail bool `yaml:"synthetic_fail"`
}

type OperatorConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type AppConfig struct {
	Service  ServiceConfig  `yaml:"service"`
	Store    StoreConfig    `yaml:"store"`
	Identity IdentityConfig `yaml:"identity"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Health   HealthConfig   `yaml:"health"`
	Operator OperatorConfig `yaml:"operator"`
}

func Default() *AppConfig {
	return &AppConfig{
		Service: ServiceConfig{
			Port:            "8080",
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverPostgres,
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     "5432",
				User:     "postgres",
				Password: "postgres",
				DBName:   "postgres",
			},
			SQLite: SQLiteConfig{Path: "./pricewatch.db"},
		},
		Identity: IdentityConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 5 * time.Second,
		},
		Webhook: WebhookConfig{
			Timeout: 5 * time.Second,
			Burst:   1,
		},
		Health: HealthConfig{
			DiskPath:         "/",
			DiskMinFreeBytes: defaultDiskMinFree,
		},
	}
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := Default()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return config, nil
}

// Load builds the configuration from defaults, the optional CONFIG_FILE and the environment, in that order.
func Load() (*AppConfig, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	c.Service.Port = getEnv("NOTIFY_SERVICE_PORT", c.Service.Port)
	c.Service.Debug = getEnvBool("NOTIFY_SERVICE_DEBUG", c.Service.Debug)
	c.Service.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.Service.ShutdownTimeout)

	c.Store.Driver = getEnv("DB_DRIVER", c.Store.Driver)
	c.Store.Postgres.Host = getEnv("DB_HOST", c.Store.Postgres.Host)
	c.Store.Postgres.Port = getEnv("DB_PORT", c.Store.Postgres.Port)
	c.Store.Postgres.User = getEnv("DB_USER", c.Store.Postgres.User)
	c.Store.Postgres.Password = getEnv("DB_PASSWORD", c.Store.Postgres.Password)
	c.Store.Postgres.DBName = getEnv("DB_NAME", c.Store.Postgres.DBName)
	c.Store.SQLite.Path = getEnv("DB_SQLITE_PATH", c.Store.SQLite.Path)

	c.Identity.BaseURL = getEnv("AUTH_SERVICE_URL", c.Identity.BaseURL)
	c.Identity.Timeout = getEnvDuration("AUTH_TIMEOUT", c.Identity.Timeout)

	c.Webhook.Timeout = getEnvDuration("WEBHOOK_TIMEOUT", c.Webhook.Timeout)
	c.Webhook.RatePerSecond = getEnvFloat("WEBHOOK_RATE_PER_SECOND", c.Webhook.RatePerSecond)
	c.Webhook.Burst = getEnvInt("WEBHOOK_BURST", c.Webhook.Burst)

	c.Health.DiskPath = getEnv("HEALTH_DISK_PATH", c.Health.DiskPath)
	c.Health.DiskMinFreeBytes = getEnvUint64("HEALTH_DISK_MIN_FREE_BYTES", c.Health.DiskMinFreeBytes)
	c.Health.SyntheticFail = getEnvBool("HEALTH_SYNTHETIC_FAIL", c.Health.SyntheticFail)

	c.Operator.JWTSecret = getEnv("OPERATOR_JWT_SECRET", c.Operator.JWTSecret)
}

func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Store.Driver)
	}
	if c.Identity.BaseURL == "" {
		return errors.New("AUTH_SERVICE_URL is required")
	}
	if c.Webhook.Timeout <= 0 || c.Identity.Timeout <= 0 {
		return errors.New("outbound timeouts must be positive")
	}
	if c.Webhook.RatePerSecond < 0 {
		return errors.New("WEBHOOK_RATE_PER_SECOND must not be negative")
	}
	return nil
}

// Database returns the connection settings for the selected driver.
func (c *AppConfig) Database() DatabaseConfig {
	if c.Store.Driver == DriverSQLite {
		return &c.Store.SQLite
	}
	return &c.Store.Postgres
}

func (c *AppConfig) Addr() string {
	return ":" + c.Service.Port
}
