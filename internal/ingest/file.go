package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/snarg/minutes-engine/internal/transcript"
)

// TranscriptFile is the JSON shape accepted from the watch directory: a
// diarized utterance list as an upstream ASR tool would emit it.
type TranscriptFile struct {
	Language   string                 `json:"language"`
	Utterances []transcript.Utterance `json:"utterances"`
}

// LoadFile reads and validates one transcript JSON file. Structural
// violations surface as transcript.ErrMalformed via Load.
func LoadFile(path string) (*transcript.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var tf TranscriptFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return transcript.Load(tf.Utterances, tf.Language)
}
