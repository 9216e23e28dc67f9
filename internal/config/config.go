package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Everything comes from the environment;
// there are no config files.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is a pgx DSN. Empty selects the in-memory store (dev mode).
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisAddr selects the Redis cache backend; empty keeps the cache
	// in-process.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// CacheTTLSeconds controls how long a computed top-sellers result is
	// reused before recomputation.
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS" envDefault:"60"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsToken   string `env:"METRICS_TOKEN"`

	// RateLimit of 0 disables per-IP limiting.
	RateLimit         int `env:"RATE_LIMIT" envDefault:"0"`
	RateWindowSeconds int `env:"RATE_WINDOW_SECONDS" envDefault:"60"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CacheTTLSeconds <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", cfg.CacheTTLSeconds)
	}
	if cfg.RateLimit < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must not be negative, got %d", cfg.RateLimit)
	}
	if cfg.RateLimit > 0 && cfg.RateWindowSeconds <= 0 {
		return Config{}, fmt.Errorf("RATE_WINDOW_SECONDS must be positive, got %d", cfg.RateWindowSeconds)
	}

	return cfg, nil
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
