package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DISPATCH_INTERVAL_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected env override for log_level, got %q", cfg.LogLevel)
	}
	if cfg.DispatchInterval != 5*time.Second {
		t.Fatalf("DispatchInterval = %s", cfg.DispatchInterval)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Fatalf("FetchTimeout = %s", cfg.FetchTimeout)
	}
	if cfg.StorageType != "bbolt" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero dispatch interval")
	}
}

func TestNormalizeRejectsZeroConcurrency(t *testing.T) {
	cfg := Config{
		FetchTimeoutSeconds:     1,
		FetchMaxBodyBytes:       1,
		DispatchIntervalSeconds: 1,
	}
	if err := cfg.normalize(); err == nil {
		t.Fatalf("expected error for zero dispatch concurrency")
	}
}
