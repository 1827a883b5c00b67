package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10m"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// Speech-to-text collaborator
	AssemblyAIAPIKey  string        `env:"ASSEMBLYAI_API_KEY"`
	AssemblyAIBaseURL string        `env:"ASSEMBLYAI_BASE_URL"`
	ASRPollInterval   time.Duration `env:"ASR_POLL_INTERVAL" envDefault:"3s"`
	ASRTimeout        time.Duration `env:"ASR_TIMEOUT" envDefault:"10m"`

	// Language-model collaborator
	GroqAPIKey     string        `env:"GROQ_API_KEY"`
	GroqBaseURL    string        `env:"GROQ_BASE_URL"`
	GroqModel      string        `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.1"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"90s"`

	// Context budgets. Unit is chars or tokens per BudgetUnit; token budgets
	// are approximate, never a 1:1 character mapping.
	BudgetUnit        string `env:"BUDGET_UNIT" envDefault:"chars"`
	PromptBudget      int    `env:"PROMPT_BUDGET" envDefault:"24000"`
	SummaryBudget     int    `env:"SUMMARY_BUDGET" envDefault:"12000"`
	ActionItemsBudget int    `env:"ACTION_ITEMS_BUDGET" envDefault:"24000"`

	// Ingestion and export
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	WatchDir  string `env:"WATCH_DIR"` // empty disables the file watcher
	NotesDir  string `env:"NOTES_DIR" envDefault:"./notes"`

	S3 S3Config
}

// S3Config configures optional archival of exported notes to an
// S3-compatible object store. A non-empty bucket enables it.
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"S3_BUCKET"`
	Prefix    string `env:"S3_PREFIX" envDefault:"notes"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
}

// Enabled reports whether S3 archival is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile  string
	HTTPAddr string
	LogLevel string
	WatchDir string
}

// Load reads configuration from .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.WatchDir != "" {
		cfg.WatchDir = overrides.WatchDir
	}

	if cfg.BudgetUnit != "chars" && cfg.BudgetUnit != "tokens" {
		return nil, fmt.Errorf("BUDGET_UNIT must be %q or %q, got %q", "chars", "tokens", cfg.BudgetUnit)
	}

	return cfg, nil
}
