package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/api"
	"github.com/snarg/minutes-engine/internal/asr"
	"github.com/snarg/minutes-engine/internal/chat"
	"github.com/snarg/minutes-engine/internal/config"
	"github.com/snarg/minutes-engine/internal/contextwin"
	"github.com/snarg/minutes-engine/internal/extract"
	"github.com/snarg/minutes-engine/internal/ingest"
	"github.com/snarg/minutes-engine/internal/llm"
	"github.com/snarg/minutes-engine/internal/registry"
	"github.com/snarg/minutes-engine/internal/storage"
	"github.com/snarg/minutes-engine/internal/transcript"
)

var version = "dev"

func main() {
	startTime := time.Now()

	envFile := flag.String("env", "", "path to .env file (default .env)")
	httpAddr := flag.String("addr", "", "http listen address (overrides HTTP_ADDR)")
	logLevel := flag.String("log-level", "", "log level (overrides LOG_LEVEL)")
	watchDir := flag.String("watch", "", "transcript watch directory (overrides WATCH_DIR)")
	flag.Parse()

	// Config
	cfg, err := config.Load(config.Overrides{
		EnvFile:  *envFile,
		HTTPAddr: *httpAddr,
		LogLevel: *logLevel,
		WatchDir: *watchDir,
	})
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("minutes-engine starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Collaborators
	asrClient := asr.NewAssemblyAIClient(cfg.AssemblyAIBaseURL, cfg.AssemblyAIAPIKey, cfg.ASRPollInterval, cfg.ASRTimeout)
	llmClient := llm.NewGroqClient(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, cfg.LLMTemperature, cfg.LLMTimeout)

	measure := contextwin.Chars
	if cfg.BudgetUnit == "tokens" {
		measure = contextwin.ApproxTokens
	}
	builder := contextwin.New(measure)

	reg := registry.New()
	pipeline := extract.New(llmClient, builder, extract.Options{
		SummaryBudget:     cfg.SummaryBudget,
		ActionItemsBudget: cfg.ActionItemsBudget,
	}, log)

	// Notes store (local disk or S3-compatible bucket)
	notes, err := storage.New(cfg.S3, cfg.NotesDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize notes store")
	}

	deps := api.Deps{
		Registry: reg,
		ASR:      asrClient,
		LLM:      llmClient,
		Builder:  builder,
		Pipeline: pipeline,
		Notes:    notes,
	}

	// Optional file watcher: pre-diarized transcript JSON dropped into the
	// watch directory is registered without an ASR round trip.
	if cfg.WatchDir != "" {
		watcherLog := log.With().Str("component", "ingest").Logger()
		watcher := ingest.NewWatcher(cfg.WatchDir, func(t *transcript.Transcript) string {
			session := chat.NewSession(t, llmClient, builder, cfg.PromptBudget, log)
			return reg.Create(t, session).ID
		}, watcherLog)
		if err := watcher.Start(); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.WatchDir).Msg("failed to start file watcher")
		}
		defer watcher.Stop()
		deps.Watcher = watcher.Stats
	}

	// HTTP server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(cfg, deps, version, startTime, httpLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("minutes-engine stopped")
}
