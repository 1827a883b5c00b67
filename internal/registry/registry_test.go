package registry

import (
	"errors"
	"testing"

	"github.com/snarg/minutes-engine/internal/transcript"
)

func TestRegistryLifecycle(t *testing.T) {
	tr, err := transcript.Load([]transcript.Utterance{
		{Speaker: "Speaker A", Text: "hello", StartMS: 0, EndMS: 100},
	}, "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r := New()
	e := r.Create(tr, nil)
	if e.ID == "" {
		t.Fatal("Create assigned empty id")
	}

	got, err := r.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Transcript != tr {
		t.Error("Get returned a different transcript")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	r.Delete(e.ID)
	if _, err := r.Get(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}

	// Deleting twice is harmless.
	r.Delete(e.ID)
}

func TestRegistryDistinctIDs(t *testing.T) {
	tr, _ := transcript.Load([]transcript.Utterance{
		{Speaker: "Speaker A", Text: "x", StartMS: 0, EndMS: 1},
	}, "")

	r := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		e := r.Create(tr, nil)
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
