package search

import (
	"reflect"
	"strings"
	"testing"

	"github.com/snarg/minutes-engine/internal/transcript"
)

func testTranscript(t *testing.T, texts ...string) *transcript.Transcript {
	t.Helper()
	var utts []transcript.Utterance
	for i, text := range texts {
		utts = append(utts, transcript.Utterance{
			Speaker: "Speaker A",
			Text:    text,
			StartMS: int64(i * 1000),
			EndMS:   int64(i*1000 + 900),
		})
	}
	tr, err := transcript.Load(utts, "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tr
}

// ── Find ─────────────────────────────────────────────────────────────

func TestFindCaseInsensitive(t *testing.T) {
	tr := testTranscript(t, "The Budget was approved. budget review next week.")

	hits := Find("BUDGET", tr)
	want := []Hit{
		{UtteranceIndex: 0, CharStart: 4, CharEnd: 10},
		{UtteranceIndex: 0, CharStart: 25, CharEnd: 31},
	}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("Find() = %v, want %v", hits, want)
	}

	// Every hit's span must equal the query case-insensitively.
	u, _ := tr.UtteranceAt(0)
	for _, h := range hits {
		if !strings.EqualFold(u.Text[h.CharStart:h.CharEnd], "BUDGET") {
			t.Errorf("span %q does not match query", u.Text[h.CharStart:h.CharEnd])
		}
	}
}

func TestFindEmptyAndWhitespaceQuery(t *testing.T) {
	tr := testTranscript(t, "anything at all")
	for _, q := range []string{"", "   ", "\t\n"} {
		if hits := Find(q, tr); len(hits) != 0 {
			t.Errorf("Find(%q) = %v, want empty", q, hits)
		}
	}
}

func TestFindOrdering(t *testing.T) {
	tr := testTranscript(t,
		"deadline first, then another deadline",
		"no mention here",
		"final deadline",
	)
	hits := Find("deadline", tr)
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		a, b := hits[i-1], hits[i]
		if a.UtteranceIndex > b.UtteranceIndex ||
			(a.UtteranceIndex == b.UtteranceIndex && a.CharStart > b.CharStart) {
			t.Errorf("hits not sorted by (utterance_index, char_start): %v", hits)
		}
	}
}

func TestFindNeverSpansUtterances(t *testing.T) {
	// "foo" ends one utterance and "bar" begins the next; "foobar" must not match
	// even though FullText could abut them.
	tr := testTranscript(t, "ends with foo", "bar starts this one")
	if hits := Find("foobar", tr); len(hits) != 0 {
		t.Errorf("Find(foobar) = %v, want empty", hits)
	}
}

func TestFindOverlappingMatchesPreserved(t *testing.T) {
	tr := testTranscript(t, "aaa")
	hits := Find("aa", tr)
	want := []Hit{
		{UtteranceIndex: 0, CharStart: 0, CharEnd: 2},
		{UtteranceIndex: 0, CharStart: 1, CharEnd: 3},
	}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("Find(aa) = %v, want %v (overlaps preserved)", hits, want)
	}
}

func TestFindMultibyte(t *testing.T) {
	tr := testTranscript(t, "café MÜNCHEN café")
	hits := Find("münchen", tr)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	u, _ := tr.UtteranceAt(0)
	if got := u.Text[hits[0].CharStart:hits[0].CharEnd]; got != "MÜNCHEN" {
		t.Errorf("span = %q, want MÜNCHEN", got)
	}
}

// ── Highlight ────────────────────────────────────────────────────────

func TestHighlight(t *testing.T) {
	text := "budget talk, more budget talk"
	hits := []Hit{
		{UtteranceIndex: 0, CharStart: 0, CharEnd: 6},
		{UtteranceIndex: 0, CharStart: 18, CharEnd: 24},
	}
	got := Highlight(text, hits, "<mark>", "</mark>")
	want := "<mark>budget</mark> talk, more <mark>budget</mark> talk"
	if got != want {
		t.Errorf("Highlight() = %q, want %q", got, want)
	}
}

func TestHighlightNoHits(t *testing.T) {
	if got := Highlight("plain", nil, "[", "]"); got != "plain" {
		t.Errorf("Highlight() = %q, want unchanged", got)
	}
}

func TestHighlightUnorderedInput(t *testing.T) {
	// Hits arrive sorted ascending from Find; Highlight must still splice
	// descending internally.
	text := "aaa bbb"
	hits := []Hit{
		{CharStart: 0, CharEnd: 3},
		{CharStart: 4, CharEnd: 7},
	}
	got := Highlight(text, hits, "[", "]")
	if got != "[aaa] [bbb]" {
		t.Errorf("Highlight() = %q, want [aaa] [bbb]", got)
	}
}
