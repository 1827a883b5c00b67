package asr

import (
	"context"
	"fmt"

	"github.com/snarg/minutes-engine/internal/transcript"
)

// Provider is the interface for speech-to-text backends that produce
// diarized, timestamped utterances.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	Name() string // "assemblyai"
}

// Result is the common transcription result from any provider. Utterances
// arrive ordered by start time, ready for transcript.Load validation.
type Result struct {
	Utterances []transcript.Utterance
	Language   string
	DurationMS int64
}

// ProviderError is a failed call to an external speech-to-text provider,
// propagated verbatim to the caller.
type ProviderError struct {
	Provider string
	Status   int // HTTP status, 0 for transport errors
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
