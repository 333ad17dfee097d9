package config_test

import (
	"testing"
	"time"

	"github.com/dorfportal/reminder-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/dorfportal")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")
	t.Setenv("APP_ENV", "development")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReminderInterval != time.Hour {
		t.Fatalf("ReminderInterval = %v, want 1h", cfg.ReminderInterval)
	}
	if cfg.SchedulerEnabled {
		t.Fatal("scheduler must default to disabled outside production")
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
}

func TestLoad_ProductionEnablesScheduler(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.SchedulerEnabled {
		t.Fatal("scheduler must default to enabled in production")
	}
}

func TestLoad_ExplicitOverrideWins(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SchedulerEnabled {
		t.Fatal("SCHEDULER_ENABLED=false must override the environment default")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/dorfportal")
	t.Setenv("VAPID_PUBLIC_KEY", "")
	t.Setenv("VAPID_PRIVATE_KEY", "")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without VAPID keys")
	}
}
