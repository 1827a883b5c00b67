package contextwin

import (
	"strings"
	"testing"

	"github.com/snarg/minutes-engine/internal/transcript"
)

func buildTranscript(t *testing.T, texts ...string) *transcript.Transcript {
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

// startMSOf maps an emitted line back to its utterance start time.
func startMSOf(t *testing.T, tr *transcript.Transcript, line string) int64 {
	t.Helper()
	for i := 0; i < tr.Len(); i++ {
		if tr.Line(i) == line {
			u, _ := tr.UtteranceAt(i)
			return u.StartMS
		}
	}
	t.Fatalf("line %q not found in transcript", line)
	return 0
}

func TestBuildFullTranscriptFits(t *testing.T) {
	tr := buildTranscript(t, "short", "meeting")
	b := New(Chars)

	got := b.Build(tr, 10000, "")
	if got != tr.FullText() {
		t.Errorf("Build() = %q, want FullText verbatim", got)
	}
}

func TestBuildNeverExceedsBudget(t *testing.T) {
	tr := buildTranscript(t,
		"the quarterly budget was discussed at length by the finance team",
		"marketing presented the new campaign results",
		"engineering reported on the migration status",
		"the budget for next quarter was approved",
	)
	b := New(Chars)

	for _, budget := range []int{0, 10, 40, 80, 120, 500} {
		got := b.Build(tr, budget, "budget")
		if n := Chars(got); n > budget {
			t.Errorf("budget %d: output measures %d", budget, n)
		}
		got = b.Build(tr, budget, "")
		if n := Chars(got); n > budget {
			t.Errorf("budget %d (no focus): output measures %d", budget, n)
		}
	}
}

func TestBuildFocusSelectsRelevant(t *testing.T) {
	tr := buildTranscript(t,
		"welcome everyone to the meeting",
		"the budget needs final approval from finance",
		"unrelated chatter about the weather",
		"budget approval was granted",
	)
	b := New(Chars)

	// Budget fits roughly two utterances.
	got := b.Build(tr, 100, "budget approval")
	if !strings.Contains(got, "budget needs final approval") {
		t.Errorf("focused build missing most relevant utterance: %q", got)
	}
	if !strings.Contains(got, "budget approval was granted") {
		t.Errorf("focused build missing second relevant utterance: %q", got)
	}
	if strings.Contains(got, "weather") {
		t.Errorf("focused build included irrelevant utterance: %q", got)
	}
}

func TestBuildChronologicalOrderAfterRanking(t *testing.T) {
	tr := buildTranscript(t,
		"alpha topic one",
		"unrelated filler text here that pads things out considerably",
		"beta topic two alpha",
		"gamma closing alpha remarks",
	)
	b := New(Chars)

	got := b.Build(tr, 80, "alpha")
	if got == "" {
		t.Fatal("empty excerpt")
	}
	lines := strings.Split(got, transcript.Separator)
	var prev int64 = -1
	for _, line := range lines {
		ms := startMSOf(t, tr, line)
		if ms < prev {
			t.Fatalf("start_ms not non-decreasing in output: %q", got)
		}
		prev = ms
	}
}

func TestBuildPrefixSuffixKeepsFraming(t *testing.T) {
	tr := buildTranscript(t,
		"opening remarks and agenda",
		"middle detail one with plenty of extra words to inflate the length",
		"middle detail two with plenty of extra words to inflate the length",
		"closing decisions and next steps",
	)
	b := New(Chars)

	got := b.Build(tr, 100, "")
	if !strings.Contains(got, "opening remarks") {
		t.Errorf("prefix missing from unfocused build: %q", got)
	}
	if !strings.Contains(got, "closing decisions") {
		t.Errorf("suffix missing from unfocused build: %q", got)
	}
}

func TestBuildRetainsSpeakerLabels(t *testing.T) {
	tr := buildTranscript(t,
		"first utterance text",
		"second utterance text with more words attached to it",
	)
	b := New(Chars)

	got := b.Build(tr, 35, "first")
	for _, line := range strings.Split(got, transcript.Separator) {
		if !strings.HasPrefix(line, "Speaker A: ") {
			t.Errorf("line missing speaker label: %q", line)
		}
	}
}

func TestApproxTokensMeasure(t *testing.T) {
	b := New(ApproxTokens)
	tr := buildTranscript(t, strings.Repeat("word ", 40))

	// 200 chars ≈ 50 tokens plus the label; a 70-token budget fits it all.
	got := b.Build(tr, 70, "")
	if got != tr.FullText() {
		t.Errorf("token-budget build should fit full text, got %q", got)
	}
	if ApproxTokens(got) > 70 {
		t.Errorf("output measures %d tokens", ApproxTokens(got))
	}
}
