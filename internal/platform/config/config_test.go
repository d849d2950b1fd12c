package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("METRICS_ENABLED", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("expected default rate limit, got %d", cfg.RateLimitPerMinute)
	}
	if !cfg.MetricsEnabled {
		t.Fatal("expected metrics enabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("RATES_FILE", "rates.yaml")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("MAX_BODY_BYTES", "not-a-number")

	cfg := Load()
	if cfg.Addr != ":9090" || cfg.RatesFile != "rates.yaml" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("expected 120, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
	if cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("expected fallback body limit, got %d", cfg.MaxBodyBytes)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Environment: "development", MaxBodyBytes: 4096, RateLimitPerMinute: 10}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	prod := base
	prod.Environment = "production"
	if err := prod.Validate(); err == nil {
		t.Fatal("expected production without JWT_SECRET to fail")
	}
	prod.JWTSecret = "s3cret"
	if err := prod.Validate(); err != nil {
		t.Fatalf("expected valid production config, got %v", err)
	}

	small := base
	small.MaxBodyBytes = 10
	if err := small.Validate(); err == nil {
		t.Fatal("expected small body limit to fail")
	}

	noLimit := base
	noLimit.RateLimitPerMinute = 0
	if err := noLimit.Validate(); err == nil {
		t.Fatal("expected zero rate limit to fail")
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := (Config{LogLevel: raw}).SlogLevel(); got != want {
			t.Fatalf("%q: expected %v, got %v", raw, want, got)
		}
	}
}
