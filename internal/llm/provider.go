package llm

import (
	"context"
	"fmt"
)

// Provider is the interface for language-model backends.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string  // "groq"
	Model() string // model identifier for logs
}

// ProviderError is a failed call to an external language-model provider.
// It is propagated verbatim; the engine never retries a provider failure
// (the single extraction retry applies to malformed output only).
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
