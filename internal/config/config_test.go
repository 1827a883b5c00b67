package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.BudgetUnit != "chars" {
		t.Errorf("BudgetUnit = %q", cfg.BudgetUnit)
	}
	if cfg.SummaryBudget >= cfg.ActionItemsBudget {
		t.Errorf("summary budget %d should be smaller than action items budget %d",
			cfg.SummaryBudget, cfg.ActionItemsBudget)
	}
	if cfg.ASRPollInterval != 3*time.Second {
		t.Errorf("ASRPollInterval = %v", cfg.ASRPollInterval)
	}
	if cfg.S3.Enabled() {
		t.Error("S3 should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(Overrides{
		EnvFile:  "nonexistent.env",
		HTTPAddr: ":9999",
		LogLevel: "debug",
		WatchDir: "/tmp/drops",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.WatchDir != "/tmp/drops" {
		t.Errorf("WatchDir = %q", cfg.WatchDir)
	}
}

func TestLoadRejectsBadBudgetUnit(t *testing.T) {
	t.Setenv("BUDGET_UNIT", "bytes")
	if _, err := Load(Overrides{EnvFile: "nonexistent.env"}); err == nil {
		t.Error("Load() should reject unknown budget unit")
	}
}

func TestLoadEnvVars(t *testing.T) {
	t.Setenv("GROQ_MODEL", "other-model")
	t.Setenv("PROMPT_BUDGET", "500")

	cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GroqModel != "other-model" {
		t.Errorf("GroqModel = %q", cfg.GroqModel)
	}
	if cfg.PromptBudget != 500 {
		t.Errorf("PromptBudget = %d", cfg.PromptBudget)
	}
}
