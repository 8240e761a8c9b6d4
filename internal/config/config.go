package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	DoseCountAll       = "all"
	DoseCountCompleted = "completed"
)

type Config struct {
	// Store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	// Database
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"medmitra"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Redis (optional: rate limit storage + SMS fallback stream)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Server
	Port               string `env:"PORT" envDefault:"3001"`
	CORSOrigins        string `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	// Reminders
	ScanInterval       time.Duration `env:"SCAN_INTERVAL" envDefault:"1m"`
	DoseCountPolicy    string        `env:"DOSE_COUNT_POLICY" envDefault:"all"`
	ReminderWindowDays int           `env:"REMINDER_WINDOW_DAYS" envDefault:"7"`
	UpcomingWindowDays int           `env:"UPCOMING_WINDOW_DAYS" envDefault:"30"`
	Timezone           string        `env:"TIMEZONE" envDefault:"UTC"`

	// Emergency
	SMSFallbackStream string `env:"SMS_FALLBACK_STREAM"`

	// Logging
	LogRetentionDays int `env:"LOG_RETENTION_DAYS" envDefault:"30"`

	// Sentry
	SentryDSN string `env:"SENTRY_DSN"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`

	location *time.Location
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD environment variable is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.DoseCountPolicy {
	case DoseCountAll, DoseCountCompleted:
	default:
		return fmt.Errorf("unsupported DOSE_COUNT_POLICY %q", c.DoseCountPolicy)
	}

	if c.ScanInterval <= 0 {
		return errors.New("SCAN_INTERVAL must be positive")
	}
	if c.ReminderWindowDays < 0 || c.UpcomingWindowDays < 0 {
		return errors.New("reminder windows must not be negative")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location is the zone used for day-granularity comparisons.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}
