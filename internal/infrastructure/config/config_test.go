package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/bankledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.ReportWorkers != 4 {
		t.Fatalf("expected 4 report workers, got %d", cfg.ReportWorkers)
	}

	if cfg.RuleCacheTTL != 5*time.Minute {
		t.Fatalf("expected rule cache TTL 5m, got %s", cfg.RuleCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_ENABLED", "true")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" || !cfg.KafkaEnabled {
		t.Fatalf("expected kafka settings, got brokers=%v enabled=%v", cfg.KafkaBrokers, cfg.KafkaEnabled)
	}
}

func TestLoadFileReadsDotenv(t *testing.T) {
	// t.Setenv restores the original values; unset so the file is applied.
	t.Setenv("REPORT_WORKERS", "")
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("REPORT_WORKERS")
	os.Unsetenv("LOG_FORMAT")
	t.Cleanup(func() {
		os.Unsetenv("REPORT_WORKERS")
		os.Unsetenv("LOG_FORMAT")
	})

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REPORT_WORKERS=9\nLOG_FORMAT=console\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.ReportWorkers != 9 || cfg.LogFormat != "console" {
		t.Fatalf("expected dotenv values, got workers=%d format=%s", cfg.ReportWorkers, cfg.LogFormat)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
