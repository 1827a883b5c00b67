// Package contextwin selects and formats a bounded subset of a transcript to
// ground a language-model call. The budget unit is caller-defined (characters
// or approximate tokens) via the Measure function — the engine never assumes
// a 1:1 character-to-token mapping.
package contextwin

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/snarg/minutes-engine/internal/transcript"
)

// Measure reports the size of a string in the budget's unit.
type Measure func(string) int

// Chars measures in Unicode characters.
func Chars(s string) int { return utf8.RuneCountInString(s) }

// ApproxTokens measures in estimated model tokens (~4 characters per token).
// A rough ceiling keeps the estimate conservative.
func ApproxTokens(s string) int { return (utf8.RuneCountInString(s) + 3) / 4 }

// Builder produces context windows under a budget.
type Builder struct {
	measure Measure
}

// New creates a Builder. A nil measure defaults to Chars.
func New(measure Measure) *Builder {
	if measure == nil {
		measure = Chars
	}
	return &Builder{measure: measure}
}

// Measure exposes the builder's unit so callers (extraction, chat) budget
// prompts in the same unit as the context itself.
func (b *Builder) Measure(s string) int { return b.measure(s) }

// Build returns a textual excerpt of t no larger than budget. If the full
// transcript fits it is returned verbatim. Otherwise whole utterances are
// selected — by literal term overlap with focus when focus is non-empty, by
// prefix-and-suffix expansion when it is — and re-emitted in chronological
// order. Ranking affects selection only, never the final ordering, and every
// included utterance keeps its speaker label.
func (b *Builder) Build(t *transcript.Transcript, budget int, focus string) string {
	full := t.FullText()
	if b.measure(full) <= budget {
		return full
	}

	var order []int
	if strings.TrimSpace(focus) != "" {
		order = rankByOverlap(t, focus)
	} else {
		order = prefixSuffixOrder(t.Len())
	}

	selected := b.selectWithinBudget(t, budget, order)
	if len(selected) == 0 {
		return ""
	}
	sort.Ints(selected)

	lines := make([]string, len(selected))
	for i, idx := range selected {
		lines[i] = t.Line(idx)
	}
	return strings.Join(lines, transcript.Separator)
}

// selectWithinBudget greedily takes whole utterances in the given order,
// stopping at the first candidate that would push the assembled excerpt over
// budget. Partial utterances are never included.
func (b *Builder) selectWithinBudget(t *transcript.Transcript, budget int, order []int) []int {
	var selected []int
	total := 0
	sepCost := b.measure(transcript.Separator)
	for _, idx := range order {
		cost := b.measure(t.Line(idx))
		if len(selected) > 0 {
			cost += sepCost
		}
		if total+cost > budget {
			break
		}
		total += cost
		selected = append(selected, idx)
	}
	return selected
}

// rankByOverlap orders utterance indices by the count of distinct
// case-insensitive tokens shared with focus, descending, ties broken by
// original position.
func rankByOverlap(t *transcript.Transcript, focus string) []int {
	focusTokens := tokenSet(focus)

	type ranked struct {
		idx   int
		score int
	}
	rs := make([]ranked, t.Len())
	for i := 0; i < t.Len(); i++ {
		u, _ := t.UtteranceAt(i)
		score := 0
		for tok := range tokenSet(u.Text) {
			if _, ok := focusTokens[tok]; ok {
				score++
			}
		}
		rs[i] = ranked{idx: i, score: score}
	}

	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].score != rs[j].score {
			return rs[i].score > rs[j].score
		}
		return rs[i].idx < rs[j].idx
	})

	order := make([]int, len(rs))
	for i, r := range rs {
		order[i] = r.idx
	}
	return order
}

// prefixSuffixOrder alternates earliest/latest indices so expansion grows
// from both ends toward the middle, preserving the meeting's opening context
// and closing decisions over mid-meeting detail.
func prefixSuffixOrder(n int) []int {
	order := make([]int, 0, n)
	lo, hi := 0, n-1
	for lo <= hi {
		order = append(order, lo)
		if hi != lo {
			order = append(order, hi)
		}
		lo++
		hi--
	}
	return order
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'")
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}
