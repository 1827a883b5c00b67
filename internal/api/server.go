// Package api exposes the engine over HTTP: transcript upload and lifecycle,
// keyword search, summarization, action-item extraction, grounded chat, and
// notes export.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/asr"
	"github.com/snarg/minutes-engine/internal/config"
	"github.com/snarg/minutes-engine/internal/contextwin"
	"github.com/snarg/minutes-engine/internal/extract"
	"github.com/snarg/minutes-engine/internal/llm"
	"github.com/snarg/minutes-engine/internal/metrics"
	"github.com/snarg/minutes-engine/internal/registry"
	"github.com/snarg/minutes-engine/internal/storage"
)

// WatcherStats reports file-watcher counters for the health endpoint.
// Nil when no watch directory is configured.
type WatcherStats func() (processed, skipped int64)

// Deps are the collaborators the HTTP layer wires together.
type Deps struct {
	Registry *registry.Registry
	ASR      asr.Provider
	LLM      llm.Provider
	Builder  *contextwin.Builder
	Pipeline *extract.Pipeline
	Notes    storage.NoteStore
	Watcher  WatcherStats
}

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(cfg *config.Config, deps Deps, version string, startTime time.Time, log zerolog.Logger) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(CORS)
	r.Use(Logger(log))
	r.Use(metrics.InstrumentHandler)

	// Unauthenticated endpoints
	health := NewHealthHandler(deps, version, startTime)
	r.Get("/api/v1/health", health.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.AuthToken))
		r.Route("/api/v1/transcripts", func(r chi.Router) {
			transcripts := NewTranscriptsHandler(cfg, deps, log)
			transcripts.Routes(r)

			NewSearchHandler(deps.Registry).Routes(r)
			NewNotesHandler(deps).Routes(r)
			NewChatHandler(deps.Registry).Routes(r)
		})
	})

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
