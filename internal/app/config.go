package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported QUOTATION_STORE values.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

const defaultSQLitePath = "data/cotacao.db"

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":3000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	RedisAddr      string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	QuotationStore string `envconfig:"QUOTATION_STORE" default:"memory"`
	QueueEnabled   bool   `envconfig:"QUEUE_ENABLED" default:"false"`

	DigisacBaseURL       string        `envconfig:"DIGISAC_BASE_URL"`
	DigisacToken         string        `envconfig:"DIGISAC_TOKEN"`
	DigisacServiceID     string        `envconfig:"DIGISAC_SERVICE_ID"`
	DigisacRecipientMode string        `envconfig:"DIGISAC_RECIPIENT_MODE" default:"phone"`
	DigisacTimeout       time.Duration `envconfig:"DIGISAC_TIMEOUT" default:"0s"`

	DispatchConcurrency int `envconfig:"DISPATCH_CONCURRENCY" default:"1"`
	WorkerConcurrency   int `envconfig:"WORKER_CONCURRENCY" default:"5"`
	RateLimitPerMinute  int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings. Digisac credentials are checked per call instead.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be set when DB_DRIVER=postgres"))
		}
	case DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if c.QuotationStore != StoreRedis && c.QuotationStore != StoreMemory {
		errs = append(errs, fmt.Errorf("QUOTATION_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.QuotationStore))
	}
	if c.DigisacRecipientMode != "phone" && c.DigisacRecipientMode != "contact" {
		errs = append(errs, fmt.Errorf("DIGISAC_RECIPIENT_MODE must be phone or contact, got %q", c.DigisacRecipientMode))
	}
	if c.DispatchConcurrency < 1 {
		errs = append(errs, errors.New("DISPATCH_CONCURRENCY must be at least 1"))
	}
	if c.DigisacTimeout < 0 {
		errs = append(errs, errors.New("DIGISAC_TIMEOUT must not be negative"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the selected driver.
func (c *Config) DSN() string {
	if c.DatabaseURL == "" && c.DBDriver == DriverSQLite {
		return defaultSQLitePath
	}
	return c.DatabaseURL
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
