// Package extract drives a language-model call to produce a meeting summary
// or structured action items, parsing and validating the result. The model is
// treated as an untrusted producer: output must match a strict line grammar,
// a malformed response earns exactly one reformulated retry, and a second
// failure is a typed error rather than guessed partial data.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/contextwin"
	"github.com/snarg/minutes-engine/internal/llm"
	"github.com/snarg/minutes-engine/internal/metrics"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// ErrParse is returned when model output did not match the required
// structured format after the single retry.
var ErrParse = errors.New("model output could not be parsed")

// Kind selects what the pipeline extracts.
type Kind int

const (
	KindSummary Kind = iota
	KindActionItems
)

func (k Kind) String() string {
	if k == KindActionItems {
		return "action_items"
	}
	return "summary"
}

// ActionItem is one task assigned during the meeting. Owner and Due are
// best-effort and empty when the transcript never names them.
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	Due         string `json:"due,omitempty"`
}

// Result is the outcome of a successful extraction: Summary is set for
// KindSummary, Items for KindActionItems (possibly empty — a meeting with no
// task language is a success, not a failure).
type Result struct {
	Kind    Kind         `json:"kind"`
	Summary string       `json:"summary,omitempty"`
	Items   []ActionItem `json:"items,omitempty"`
}

// Options tunes the pipeline's per-kind context budgets.
type Options struct {
	SummaryBudget     int // smaller: a summary survives truncation
	ActionItemsBudget int // larger: action items need full coverage
}

// Pipeline builds a context window and extracts structured results from the
// language model.
type Pipeline struct {
	provider llm.Provider
	builder  *contextwin.Builder
	opts     Options
	log      zerolog.Logger
}

// New creates an extraction pipeline.
func New(provider llm.Provider, builder *contextwin.Builder, opts Options, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		provider: provider,
		builder:  builder,
		opts:     opts,
		log:      log.With().Str("component", "extract").Logger(),
	}
}

// Extract runs one model call (plus at most one retry on malformed output)
// and returns the parsed result. Provider failures propagate immediately and
// are never retried here.
func (p *Pipeline) Extract(ctx context.Context, kind Kind, t *transcript.Transcript) (*Result, error) {
	budget := p.opts.SummaryBudget
	if kind == KindActionItems {
		budget = p.opts.ActionItemsBudget
	}
	window := p.builder.Build(t, budget, "")

	raw, err := p.complete(ctx, kind, prompt(kind, window))
	if err != nil {
		return nil, err
	}

	result, parseErr := p.parse(kind, raw)
	if parseErr == nil {
		return result, nil
	}

	// One retry with a reformulated prompt that repeats the required format.
	p.log.Warn().Err(parseErr).Str("kind", kind.String()).Msg("malformed model output, retrying once")
	metrics.ExtractionRetriesTotal.Inc()

	raw, err = p.complete(ctx, kind, retryPrompt(kind, window))
	if err != nil {
		return nil, err
	}
	result, parseErr = p.parse(kind, raw)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, parseErr)
	}
	return result, nil
}

func (p *Pipeline) complete(ctx context.Context, kind Kind, promptText string) (string, error) {
	raw, err := p.provider.Complete(ctx, promptText)
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues(kind.String(), "error").Inc()
		return "", err
	}
	metrics.LLMCallsTotal.WithLabelValues(kind.String(), "ok").Inc()
	return raw, nil
}

func (p *Pipeline) parse(kind Kind, raw string) (*Result, error) {
	if kind == KindSummary {
		text := normalizeWhitespace(raw)
		if text == "" {
			return nil, errors.New("empty summary")
		}
		return &Result{Kind: kind, Summary: text}, nil
	}

	items, err := parseActionItems(raw)
	if err != nil {
		return nil, err
	}
	return &Result{Kind: kind, Items: items}, nil
}

// normalizeWhitespace trims the text and collapses runs of blank lines,
// leaving the content itself untouched.
func normalizeWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	var out []string
	blank := true // swallow leading blanks
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
