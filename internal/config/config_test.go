package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"USE_POLLING", "TICK_INTERVAL_MS", "STALE_THRESHOLD_MS", "DATABASE_PATH",
		"WEBHOOK_SIGNING_KEY_CURRENT", "WEBHOOK_SIGNING_KEY_NEXT", "WEBHOOK_BASE_URL",
		"CALLBACK_API_KEY", "SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL", "SENDGRID_FROM_NAME",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UsePolling {
		t.Fatalf("expected UsePolling to default true")
	}
	if cfg.TickInterval != defaultTickIntervalMS*time.Millisecond {
		t.Fatalf("TickInterval = %v, want default", cfg.TickInterval)
	}
	if cfg.StaleThreshold != defaultStaleThresholdMS*time.Millisecond {
		t.Fatalf("StaleThreshold = %v, want default", cfg.StaleThreshold)
	}
}

func TestLoadEnforcesTickIntervalFloor(t *testing.T) {
	clearEnv(t)
	t.Setenv("TICK_INTERVAL_MS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TickInterval != minTickIntervalMS*time.Millisecond {
		t.Fatalf("TickInterval = %v, want the %dms floor", cfg.TickInterval, minTickIntervalMS)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_POLLING", "false")
	t.Setenv("TICK_INTERVAL_MS", "5000")
	t.Setenv("DATABASE_PATH", "/tmp/remindo-test.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UsePolling {
		t.Fatalf("expected UsePolling to be false")
	}
	if cfg.TickInterval != 5000*time.Millisecond {
		t.Fatalf("TickInterval = %v, want 5s", cfg.TickInterval)
	}
	if cfg.DatabasePath != "/tmp/remindo-test.db" {
		t.Fatalf("DatabasePath = %q", cfg.DatabasePath)
	}
}
