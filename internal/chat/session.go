// Package chat holds multi-turn conversation state grounded in one
// transcript. A session serializes its turns behind a mutex: concurrent Ask
// calls queue rather than race, and a turn pair is only ever visible whole.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/snarg/minutes-engine/internal/contextwin"
	"github.com/snarg/minutes-engine/internal/llm"
	"github.com/snarg/minutes-engine/internal/metrics"
	"github.com/snarg/minutes-engine/internal/transcript"
)

// ErrInvalidQuestion is returned for an empty or whitespace-only question.
// The model is never called in that case.
var ErrInvalidQuestion = errors.New("question is empty")

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversation entry. Turns are append-only and never rolled back.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session owns an ordered sequence of turns plus a reference (not ownership)
// to one transcript.
type Session struct {
	mu         sync.Mutex
	transcript *transcript.Transcript
	turns      []Turn

	provider llm.Provider
	builder  *contextwin.Builder
	budget   int // prompt budget covering context + history + question
	log      zerolog.Logger
}

// NewSession creates a chat session for a transcript. budget bounds the
// combined context, history, and question in the builder's unit.
func NewSession(t *transcript.Transcript, provider llm.Provider, builder *contextwin.Builder, budget int, log zerolog.Logger) *Session {
	return &Session{
		transcript: t,
		provider:   provider,
		builder:    builder,
		budget:     budget,
		log:        log.With().Str("component", "chat").Logger(),
	}
}

// History returns a copy of the turns so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Ask answers a question grounded in the session's transcript and prior
// turns. Budget pressure is resolved in a fixed order: history is truncated
// from the oldest end (down to zero turns), then the context window shrinks,
// and the question itself is never truncated or dropped. The (user,
// assistant) pair is committed only after the provider call succeeds, so a
// cancelled or failed call leaves the history untouched.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrInvalidQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prompt := s.assemblePrompt(question)

	answer, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("chat", "error").Inc()
		return "", err
	}
	metrics.LLMCallsTotal.WithLabelValues("chat", "ok").Inc()
	metrics.ChatTurnsTotal.Inc()

	answer = strings.TrimSpace(answer)
	s.turns = append(s.turns,
		Turn{Role: RoleUser, Content: question},
		Turn{Role: RoleAssistant, Content: answer},
	)
	return answer, nil
}

// assemblePrompt fits context + history + question under the session budget.
// Callers must hold s.mu.
func (s *Session) assemblePrompt(question string) string {
	measure := s.builder.Measure

	remaining := s.budget - measure(question)
	if remaining < 0 {
		remaining = 0
	}

	// The context window is carved out first; history only gets what the
	// window leaves over. A long conversation sheds its oldest turns before
	// the grounding context loses a single utterance.
	window := s.builder.Build(s.transcript, remaining, question)

	historyBudget := remaining - measure(window)
	history := s.turns
	for len(history) > 0 && measure(renderHistory(history)) > historyBudget {
		history = history[1:]
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant answering questions based only on the provided meeting transcript context. ")
	b.WriteString("Be concise and directly address the question using information from the transcript. ")
	b.WriteString("If the answer cannot be found in the transcript, say so explicitly. Do not use external knowledge.\n\n")
	b.WriteString("---\nMeeting transcript context:\n")
	b.WriteString(window)
	b.WriteString("\n---\n\n")
	if h := renderHistory(history); h != "" {
		b.WriteString(h)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", question)
	return b.String()
}

func renderHistory(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		role := "User"
		if t.Role == RoleAssistant {
			role = "Assistant"
		}
		b.WriteString(role + ": " + t.Content)
	}
	return b.String()
}
