// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load a .env file when present (development).
//   - Parse typed settings from the environment with defaults.
//   - Reject values the server cannot run with.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Archive backend names accepted by ARCHIVE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is every setting the server reads from the environment.
type Config struct {
	Port      string `env:"PORT" envDefault:"8000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ArchiveBackend string `env:"ARCHIVE_BACKEND" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/yahtzee.db"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`

	CookieName   string `env:"COOKIE_NAME" envDefault:"yahtzee_id"`
	CookieSecret string `env:"COOKIE_SECRET" envDefault:"dev_secret_change_me"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	DiceSeed       int64         `env:"DICE_SEED" envDefault:"0"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env (if any) and then the environment. Variables already set in
// the environment win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	switch c.ArchiveBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: unknown ARCHIVE_BACKEND %q", c.ArchiveBackend)
	}
	if c.CookieName == "" {
		return errors.New("config: COOKIE_NAME must not be empty")
	}
	if c.CookieSecret == "" {
		return errors.New("config: COOKIE_SECRET must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }
