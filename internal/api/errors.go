package api

import (
	"errors"
	"net/http"

	"github.com/snarg/minutes-engine/internal/asr"
	"github.com/snarg/minutes-engine/internal/chat"
	"github.com/snarg/minutes-engine/internal/extract"
	"github.com/snarg/minutes-engine/internal/llm"
	"github.com/snarg/minutes-engine/internal/registry"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// "Nothing found" never lands here — empty search results are a 200.
func writeEngineError(w http.ResponseWriter, err error) {
	var llmErr *llm.ProviderError
	var asrErr *asr.ProviderError

	switch {
	case errors.Is(err, registry.ErrNotFound):
		WriteError(w, http.StatusNotFound, "transcript not found")
	case errors.Is(err, transcript.ErrMalformed):
		WriteErrorDetail(w, http.StatusUnprocessableEntity, "malformed transcript", err.Error())
	case errors.Is(err, chat.ErrInvalidQuestion):
		WriteError(w, http.StatusBadRequest, "question must not be empty")
	case errors.Is(err, extract.ErrParse):
		WriteErrorDetail(w, http.StatusBadGateway, "model output could not be parsed", err.Error())
	case errors.As(err, &llmErr), errors.As(err, &asrErr):
		WriteErrorDetail(w, http.StatusBadGateway, "provider call failed", err.Error())
	default:
		WriteErrorDetail(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
