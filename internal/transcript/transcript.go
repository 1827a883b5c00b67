// Package transcript holds the normalized in-memory representation of a
// diarized meeting transcript. A Transcript is immutable after Load and is
// safe to share across goroutines without locking.
package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by Load when the utterance sequence violates the
// structural contract. Wrapped errors carry detail about the first violation.
var ErrMalformed = errors.New("malformed transcript")

// Separator joins utterance lines in FullText. Fixed so the concatenation is
// deterministic and reversible line-by-line.
const Separator = "\n"

// Utterance is one diarized, timestamped span of speech. Speaker labels are
// opaque (e.g. "Speaker A") and not stable across transcripts. Language is
// empty when the ASR provider didn't detect one for the span.
type Utterance struct {
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
	StartMS  int64  `json:"start_ms"`
	EndMS    int64  `json:"end_ms"`
	Language string `json:"language,omitempty"`
}

// Transcript is an ordered sequence of utterances plus the detected primary
// language and total duration. It owns its utterances exclusively.
type Transcript struct {
	utterances []Utterance
	language   string
	durationMS int64
}

// Load validates and normalizes an utterance sequence into a Transcript.
// It rejects empty input, spans with start > end, and sequences not sorted
// by start time. It never re-sorts: out-of-order input is an upstream bug
// that silent correction would hide.
func Load(utterances []Utterance, language string) (*Transcript, error) {
	if len(utterances) == 0 {
		return nil, fmt.Errorf("%w: no utterances", ErrMalformed)
	}

	var durationMS int64
	for i, u := range utterances {
		if u.StartMS > u.EndMS {
			return nil, fmt.Errorf("%w: utterance %d has start_ms %d > end_ms %d",
				ErrMalformed, i, u.StartMS, u.EndMS)
		}
		if i > 0 && u.StartMS < utterances[i-1].StartMS {
			return nil, fmt.Errorf("%w: utterance %d starts at %d before utterance %d at %d",
				ErrMalformed, i, u.StartMS, i-1, utterances[i-1].StartMS)
		}
		if u.EndMS > durationMS {
			durationMS = u.EndMS
		}
	}

	// Copy so callers can't mutate the transcript after creation.
	owned := make([]Utterance, len(utterances))
	copy(owned, utterances)

	return &Transcript{
		utterances: owned,
		language:   language,
		durationMS: durationMS,
	}, nil
}

// Len returns the number of utterances.
func (t *Transcript) Len() int { return len(t.utterances) }

// Language returns the detected primary language, or "" if unknown.
func (t *Transcript) Language() string { return t.language }

// DurationMS returns the total duration in milliseconds (the latest end_ms).
func (t *Transcript) DurationMS() int64 { return t.durationMS }

// UtteranceAt returns the utterance at index i.
func (t *Transcript) UtteranceAt(i int) (Utterance, error) {
	if i < 0 || i >= len(t.utterances) {
		return Utterance{}, fmt.Errorf("utterance index %d out of range [0,%d)", i, len(t.utterances))
	}
	return t.utterances[i], nil
}

// Utterances returns a copy of the utterance sequence.
func (t *Transcript) Utterances() []Utterance {
	out := make([]Utterance, len(t.utterances))
	copy(out, t.utterances)
	return out
}

// Line formats one utterance as it appears in FullText: the speaker label,
// a colon, and the text.
func (t *Transcript) Line(i int) string {
	u := t.utterances[i]
	return u.Speaker + ": " + u.Text
}

// FullText is the canonical textual representation: every utterance line,
// speaker label prefixed, joined with Separator. Deterministic, so it doubles
// as the export text and the fits-in-budget check for context building.
func (t *Transcript) FullText() string {
	var b strings.Builder
	for i := range t.utterances {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(t.Line(i))
	}
	return b.String()
}
