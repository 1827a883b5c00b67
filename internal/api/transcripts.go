package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/chat"
	"github.com/snarg/minutes-engine/internal/config"
	"github.com/snarg/minutes-engine/internal/export"
	"github.com/snarg/minutes-engine/internal/extract"
	"github.com/snarg/minutes-engine/internal/metrics"
	"github.com/snarg/minutes-engine/internal/registry"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// TranscriptsHandler owns transcript upload, lookup, deletion, and export.
type TranscriptsHandler struct {
	cfg  *config.Config
	deps Deps
	log  zerolog.Logger
}

func NewTranscriptsHandler(cfg *config.Config, deps Deps, log zerolog.Logger) *TranscriptsHandler {
	return &TranscriptsHandler{
		cfg:  cfg,
		deps: deps,
		log:  log.With().Str("handler", "transcripts").Logger(),
	}
}

func (h *TranscriptsHandler) Routes(r chi.Router) {
	r.Post("/", h.Upload)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/export", h.Export)
}

// TranscriptResponse is the JSON shape for a registered transcript.
type TranscriptResponse struct {
	ID         string                 `json:"id"`
	Language   string                 `json:"language,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
	Utterances []transcript.Utterance `json:"utterances"`
}

func transcriptResponse(e *registry.Entry) TranscriptResponse {
	return TranscriptResponse{
		ID:         e.ID,
		Language:   e.Transcript.Language(),
		DurationMS: e.Transcript.DurationMS(),
		Utterances: e.Transcript.Utterances(),
	}
}

// Upload handles POST /api/v1/transcripts. Accepts a multipart audio upload,
// runs it through the speech-to-text provider, validates the diarized
// result, and registers the transcript with a fresh chat session.
func (h *TranscriptsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing audio file field \"file\"")
		return
	}
	defer file.Close()

	// Spool the upload to disk; the ASR client streams it from there.
	audioPath, cleanup, err := h.spool(file, header.Filename)
	if err != nil {
		WriteErrorDetail(w, http.StatusInternalServerError, "failed to store upload", err.Error())
		return
	}
	defer cleanup()

	result, err := h.deps.ASR.Transcribe(r.Context(), audioPath)
	if err != nil {
		metrics.TranscriptionsTotal.WithLabelValues(h.deps.ASR.Name(), "error").Inc()
		writeEngineError(w, err)
		return
	}

	t, err := transcript.Load(result.Utterances, result.Language)
	if err != nil {
		metrics.TranscriptionsTotal.WithLabelValues(h.deps.ASR.Name(), "malformed").Inc()
		writeEngineError(w, err)
		return
	}
	metrics.TranscriptionsTotal.WithLabelValues(h.deps.ASR.Name(), "ok").Inc()

	entry := h.register(t)
	h.log.Info().
		Str("transcript_id", entry.ID).
		Str("filename", header.Filename).
		Int("utterances", t.Len()).
		Str("language", t.Language()).
		Msg("transcript created")

	WriteJSON(w, http.StatusCreated, transcriptResponse(entry))
}

// register creates the transcript's chat session and registry entry.
func (h *TranscriptsHandler) register(t *transcript.Transcript) *registry.Entry {
	session := chat.NewSession(t, h.deps.LLM, h.deps.Builder, h.cfg.PromptBudget, h.log)
	return h.deps.Registry.Create(t, session)
}

func (h *TranscriptsHandler) spool(file io.Reader, filename string) (string, func(), error) {
	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("mkdir %s: %w", h.cfg.UploadDir, err)
	}
	tmp, err := os.CreateTemp(h.cfg.UploadDir, "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

// Get returns a registered transcript.
func (h *TranscriptsHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, transcriptResponse(entry))
}

// Delete destroys a transcript and its chat session.
func (h *TranscriptsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.deps.Registry.Delete(id)
	WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

// Export renders the transcript plus freshly extracted notes as markdown,
// archives it through the note store, and returns the document.
func (h *TranscriptsHandler) Export(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &body); err != nil {
			WriteErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	summary, err := h.deps.Pipeline.Extract(r.Context(), extract.KindSummary, entry.Transcript)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	items, err := h.deps.Pipeline.Extract(r.Context(), extract.KindActionItems, entry.Transcript)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	md := export.RenderMarkdown(entry.Transcript, export.Notes{
		Title:     body.Title,
		Summary:   summary.Summary,
		Items:     items.Items,
		Generated: time.Now(),
	})

	key := entry.ID + "/notes.md"
	if err := h.deps.Notes.Save(r.Context(), key, []byte(md), "text/markdown"); err != nil {
		WriteErrorDetail(w, http.StatusInternalServerError, "failed to archive notes", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"id":       entry.ID,
		"store":    h.deps.Notes.Type(),
		"key":      key,
		"markdown": md,
	})
}
