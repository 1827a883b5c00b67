package api

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Transcripts   int               `json:"transcripts"`
	Checks        map[string]string `json:"checks"`
	Watcher       *WatcherHealth    `json:"watcher,omitempty"`
}

// WatcherHealth reports file-ingestion counters when a watch directory is
// configured.
type WatcherHealth struct {
	FilesProcessed int64 `json:"files_processed"`
	FilesSkipped   int64 `json:"files_skipped"`
}

type HealthHandler struct {
	deps      Deps
	version   string
	startTime time.Time
}

func NewHealthHandler(deps Deps, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		deps:      deps,
		version:   version,
		startTime: startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"

	if h.deps.ASR != nil {
		checks["asr"] = "ok"
	} else {
		checks["asr"] = "not_configured"
		status = "degraded"
	}

	if h.deps.LLM != nil {
		checks["llm"] = "ok"
	} else {
		checks["llm"] = "not_configured"
		status = "degraded"
	}

	if h.deps.Notes != nil {
		checks["notes_store"] = h.deps.Notes.Type()
	} else {
		checks["notes_store"] = "not_configured"
	}

	resp := HealthResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Transcripts:   h.deps.Registry.Len(),
		Checks:        checks,
	}

	if h.deps.Watcher != nil {
		processed, skipped := h.deps.Watcher()
		checks["file_watcher"] = "ok"
		resp.Watcher = &WatcherHealth{
			FilesProcessed: processed,
			FilesSkipped:   skipped,
		}
	} else {
		checks["file_watcher"] = "not_configured"
	}

	WriteJSON(w, http.StatusOK, resp)
}
