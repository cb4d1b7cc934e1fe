// Package coach turns a finished session into short advice for the
// learner, from a language model when one is configured and from the
// rule-based recommendation otherwise.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/llm"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/tracker"
)

// Advice sources.
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

// ErrNoProvider is returned by Advise when the service has no provider.
var ErrNoProvider = errors.New("coach: no LLM provider configured")

// Input is what the coach knows about a session.
type Input struct {
	Summary  *session.Summary
	Attempts []tracker.Attempt
	Lang     string
}

// Advice is the coach's output.
type Advice struct {
	Headline string `json:"headline"`
	Advice   string `json:"advice"`
	Focus    string `json:"focus"`
	Source   string `json:"source"`
}

// Service generates advice. One async request is in flight at a time;
// a new request replaces the pending result.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger

	mu      sync.Mutex
	pending *Advice
	ready   bool
	seq     int
}

// NewService creates an advice service. provider may be nil, in which
// case every request falls back to the rules.
func NewService(provider llm.Provider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type adviceOutput struct {
	Headline string `json:"headline"`
	Advice   string `json:"advice"`
	Focus    string `json:"focus"`
}

// Advise makes one structured LLM call.
func (s *Service) Advise(ctx context.Context, input Input) (*Advice, error) {
	if !s.Enabled() {
		return nil, ErrNoProvider
	}
	if input.Summary == nil {
		return nil, fmt.Errorf("coach: summary is required")
	}

	ctx = llm.WithCall(ctx, llm.Call{Purpose: "session-advice", SessionID: input.Summary.SessionID})
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.UserPrompt(adviceSystemPrompt, buildAdviceUserMessage(input))
	req.Schema = AdviceSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("advice generation: %w", err)
	}

	var out adviceOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse advice response: %w", err)
	}
	return &Advice{
		Headline: out.Headline,
		Advice:   out.Advice,
		Focus:    out.Focus,
		Source:   SourceLLM,
	}, nil
}

// AdviseOrFallback calls Advise and falls back to the rules on any error.
func (s *Service) AdviseOrFallback(ctx context.Context, input Input) *Advice {
	advice, err := s.Advise(ctx, input)
	if err == nil {
		return advice
	}
	if !errors.Is(err, ErrNoProvider) {
		s.logger.Warn("coach advice failed, using rules", "error", err)
	}
	return Fallback(input, feedback.New(input.Lang))
}

// RequestAdvice starts advice generation in the background. The result,
// fallback included, is collected with ConsumeAdvice.
func (s *Service) RequestAdvice(ctx context.Context, input Input) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.ready = false
	s.mu.Unlock()

	go func() {
		advice := s.AdviseOrFallback(ctx, input)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.pending = advice
		s.ready = true
	}()
}

// ConsumeAdvice returns the pending advice if it is ready, clearing the
// slot. Returns (nil, false) while generation is still running.
func (s *Service) ConsumeAdvice() (*Advice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	advice := s.pending
	s.pending = nil
	s.ready = false
	return advice, advice != nil
}
