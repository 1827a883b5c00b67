// Package registry tracks live transcripts and their chat sessions for the
// lifetime of the process. It replaces ambient shared state with explicit
// create/get/destroy lifecycle keyed by transcript id; nothing here persists
// beyond the process.
package registry

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/snarg/minutes-engine/internal/chat"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// ErrNotFound is returned for an unknown transcript id.
var ErrNotFound = errors.New("transcript not found")

// Entry pairs a transcript with its conversation session. The transcript is
// immutable; the session serializes its own mutation.
type Entry struct {
	ID         string
	Transcript *transcript.Transcript
	Session    *chat.Session
}

// Registry is an in-memory, mutex-guarded transcript registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Create registers a transcript and its session under a fresh id.
func (r *Registry) Create(t *transcript.Transcript, s *chat.Session) *Entry {
	e := &Entry{ID: newID(), Transcript: t, Session: s}
	r.mu.Lock()
	r.entries[e.ID] = e
	r.mu.Unlock()
	return e
}

// Get looks up a transcript entry by id.
func (r *Registry) Get(id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Delete destroys a transcript and its session. Deleting an unknown id is
// not an error.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len returns the number of live transcripts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func newID() string {
	b := make([]byte, 8)
	// crypto/rand.Read never returns an error
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
