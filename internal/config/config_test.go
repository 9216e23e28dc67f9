package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("port=%q, want 8080", cfg.Port)
	}
	if cfg.CacheTTL() != 60*time.Second {
		t.Fatalf("ttl=%v, want 60s", cfg.CacheTTL())
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("rate limit=%d, want disabled", cfg.RateLimit)
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL_SECONDS", "300")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("port=%q", cfg.Port)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Fatalf("ttl=%v", cfg.CacheTTL())
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("redis addr=%q", cfg.RedisAddr)
	}
	if cfg.RateLimit != 100 {
		t.Fatalf("rate limit=%d", cfg.RateLimit)
	}
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	for _, v := range []string{"0", "-5"} {
		t.Setenv("CACHE_TTL_SECONDS", v)
		if _, err := Load(); err == nil {
			t.Fatalf("CACHE_TTL_SECONDS=%s accepted", v)
		}
	}
}

func TestLoad_RejectsBadRateWindow(t *testing.T) {
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_WINDOW_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("zero rate window accepted with limiting enabled")
	}
}
