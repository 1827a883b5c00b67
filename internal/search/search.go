// Package search provides literal keyword search with positional highlighting
// over a transcript. Matching is case-insensitive substring matching — no
// stemming, no regex — so every hit is a faithful highlight range inside
// exactly one utterance's original text.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/snarg/minutes-engine/internal/transcript"
)

// Hit is a half-open byte span within one utterance's text that matches the
// query case-insensitively.
type Hit struct {
	UtteranceIndex int `json:"utterance_index"`
	CharStart      int `json:"char_start"`
	CharEnd        int `json:"char_end"`
}

// Find scans every utterance independently for case-insensitive literal
// occurrences of query. Matches never span two utterances. An empty or
// whitespace-only query yields no hits, not an error. Hits are ordered by
// (utterance_index, char_start). Overlapping matches are all returned;
// de-duplication beyond exact span equality is deliberately not performed,
// since dropping overlaps would change highlight fidelity.
func Find(query string, t *transcript.Transcript) []Hit {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	qr := foldRunes(query)
	var hits []Hit
	for i := 0; i < t.Len(); i++ {
		u, _ := t.UtteranceAt(i)
		for _, span := range findInText(u.Text, qr) {
			hits = append(hits, Hit{UtteranceIndex: i, CharStart: span[0], CharEnd: span[1]})
		}
	}
	return hits
}

// findInText returns all byte spans of text matching the folded query runes,
// including overlapping occurrences. Offsets are into the original text;
// case folding never assumes byte-length preservation.
func findInText(text string, query []rune) [][2]int {
	if len(query) == 0 {
		return nil
	}
	var spans [][2]int
	for start := 0; start < len(text); {
		_, size := utf8.DecodeRuneInString(text[start:])
		if end, ok := matchAt(text, start, query); ok {
			spans = append(spans, [2]int{start, end})
		}
		start += size
	}
	return spans
}

// matchAt reports whether the folded runes of text starting at byte offset
// start equal query, returning the byte offset one past the match.
func matchAt(text string, start int, query []rune) (int, bool) {
	pos := start
	for _, q := range query {
		if pos >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[pos:])
		if unicode.ToLower(r) != q {
			return 0, false
		}
		pos += size
	}
	return pos, true
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// Highlight splices pre/post markers around each hit's span in a single
// utterance's text. Hits are processed in descending CharStart order so
// earlier insertions do not invalidate later offsets. Spans outside the text
// are ignored.
func Highlight(text string, hits []Hit, pre, post string) string {
	if len(hits) == 0 {
		return text
	}
	ordered := make([]Hit, len(hits))
	copy(ordered, hits)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CharStart != ordered[j].CharStart {
			return ordered[i].CharStart > ordered[j].CharStart
		}
		return ordered[i].CharEnd > ordered[j].CharEnd
	})

	for _, h := range ordered {
		if h.CharStart < 0 || h.CharEnd > len(text) || h.CharStart > h.CharEnd {
			continue
		}
		text = text[:h.CharStart] + pre + text[h.CharStart:h.CharEnd] + post + text[h.CharEnd:]
	}
	return text
}
