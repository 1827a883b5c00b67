// Package ingest watches a directory for diarized transcript JSON files and
// registers them with the engine, as an alternative to HTTP upload for users
// who run their own ASR tooling.
package ingest

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/metrics"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// RegisterFunc accepts a validated transcript and returns its assigned id.
type RegisterFunc func(t *transcript.Transcript) string

// Watcher monitors a directory for new transcript JSON files.
type Watcher struct {
	watchDir string
	register RegisterFunc
	log      zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	// Debounce: coalesce rapid Create+Write events on the same file.
	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer

	filesProcessed atomic.Int64
	filesSkipped   atomic.Int64
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(watchDir string, register RegisterFunc, log zerolog.Logger) *Watcher {
	return &Watcher{
		watchDir:       watchDir,
		register:       register,
		log:            log.With().Str("component", "watcher").Logger(),
		done:           make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}
}

// Start begins watching. Existing files in the directory are processed once
// at startup so a restart doesn't lose drops made while the engine was down.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fw

	if err := fw.Add(w.watchDir); err != nil {
		fw.Close()
		return err
	}
	w.log.Info().Str("watch_dir", w.watchDir).Msg("transcript file watcher started")

	w.wg.Add(1)
	go w.watchLoop()

	go w.scanExisting()

	return nil
}

// Stop closes the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
	w.wg.Wait()
	w.log.Info().
		Int64("files_processed", w.filesProcessed.Load()).
		Int64("files_skipped", w.filesSkipped.Load()).
		Msg("transcript file watcher stopped")
}

// Stats returns processed/skipped counts for the health endpoint.
func (w *Watcher) Stats() (processed, skipped int64) {
	return w.filesProcessed.Load(), w.filesSkipped.Load()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".json") {
				continue
			}
			w.scheduleProcess(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// scheduleProcess debounces by 500ms so a file is read only after the writer
// has finished, even when Create and Write events arrive in a burst.
func (w *Watcher) scheduleProcess(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if t, ok := w.debounceTimers[path]; ok {
		t.Reset(500 * time.Millisecond)
		return
	}

	w.debounceTimers[path] = time.AfterFunc(500*time.Millisecond, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		w.processFile(path)
	})
}

func (w *Watcher) processFile(path string) {
	t, err := LoadFile(path)
	if err != nil {
		w.filesSkipped.Add(1)
		metrics.IngestedFilesTotal.WithLabelValues("skipped").Inc()
		w.log.Warn().Err(err).Str("path", path).Msg("skipping transcript file")
		return
	}

	id := w.register(t)
	w.filesProcessed.Add(1)
	metrics.IngestedFilesTotal.WithLabelValues("ok").Inc()
	w.log.Info().
		Str("path", path).
		Str("transcript_id", id).
		Int("utterances", t.Len()).
		Msg("transcript file ingested")
}

// scanExisting processes .json files already present in the watch directory.
func (w *Watcher) scanExisting() {
	paths, err := filepath.Glob(filepath.Join(w.watchDir, "*.json"))
	if err != nil {
		w.log.Warn().Err(err).Msg("startup scan failed")
		return
	}
	for _, p := range paths {
		select {
		case <-w.done:
			return
		default:
		}
		w.processFile(p)
	}
}
