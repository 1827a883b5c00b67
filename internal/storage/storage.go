// Package storage archives exported meeting notes to a local directory or an
// S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/config"
)

// NoteStore abstracts note archival backends.
type NoteStore interface {
	// Save stores a rendered document. key format: {transcript_id}/{filename}
	Save(ctx context.Context, key string, data []byte, contentType string) error

	// Type returns "local" or "s3".
	Type() string
}

// New creates a NoteStore based on config. S3 is used when a bucket is
// configured; startup fails fast if the bucket is unreachable rather than
// discovering it on the first export.
func New(cfg config.S3Config, notesDir string, log zerolog.Logger) (NoteStore, error) {
	if !cfg.Enabled() {
		return NewLocalStore(notesDir), nil
	}

	s3store, err := NewS3Store(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("S3 init failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3store.HeadBucket(ctx); err != nil {
		return nil, fmt.Errorf("S3 startup check failed (bucket=%q endpoint=%q): %w",
			cfg.Bucket, cfg.Endpoint, err)
	}
	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("S3 connection verified")

	return s3store, nil
}
