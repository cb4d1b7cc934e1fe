// Package session drives one learning session: it serves puzzles at the
// current level, records answers, and applies the engine's decisions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/tracker"
)

var (
	// ErrSessionComplete is returned once every puzzle has been answered
	// or the session was ended.
	ErrSessionComplete = errors.New("session complete")

	// ErrNoPendingPuzzle is returned by Submit when no puzzle is waiting
	// for an answer.
	ErrNoPendingPuzzle = errors.New("no pending puzzle")
)

// Outcome is the result of one submitted answer.
type Outcome struct {
	Attempt       tracker.Attempt `json:"attempt"`
	Correct       bool            `json:"correct"`
	CorrectAnswer int             `json:"correct_answer"`

	Streak    int  `json:"streak"`
	Milestone bool `json:"milestone"`

	// Decision is set when the engine ran after this attempt.
	Decision *adaptive.Decision `json:"decision,omitempty"`

	// Level is the level after any decision was applied.
	Level difficulty.Level `json:"level"`
	Done  bool             `json:"done"`
}

// Session is not safe for concurrent use. Callers serving several
// goroutines must serialize access.
type Session struct {
	id   string
	opts Options
	log  *slog.Logger

	level  difficulty.Level
	window *tracker.Window

	pending  *puzzle.Puzzle
	issuedAt time.Time
	prior    []string
	served   int

	transitions []adaptive.Decision

	startedAt time.Time
	endedAt   time.Time
}

// New starts a session and journals its start.
func New(ctx context.Context, opts Options) (*Session, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	s := &Session{
		id:        uuid.NewString(),
		opts:      opts,
		level:     opts.Level,
		window:    tracker.NewWindowWithClock(opts.Clock),
		startedAt: opts.Clock(),
	}
	s.log = opts.Logger.With("session", s.id)

	s.journalStart(ctx)
	s.log.Info("session started", "learner", opts.Learner, "level", s.level.Key(), "puzzles", opts.Puzzles)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Learner returns the learner's name.
func (s *Session) Learner() string { return s.opts.Learner }

// Level returns the current difficulty level.
func (s *Session) Level() difficulty.Level { return s.level }

// Total returns the configured session length.
func (s *Session) Total() int { return s.opts.Puzzles }

// Answered returns the number of recorded attempts.
func (s *Session) Answered() int { return s.window.Len() }

// Served returns the number of puzzles issued so far.
func (s *Session) Served() int { return s.served }

// Remaining returns the number of puzzles still to answer.
func (s *Session) Remaining() int {
	if s.Ended() {
		return 0
	}
	return s.opts.Puzzles - s.window.Len()
}

// Done reports whether the session has no more puzzles to serve.
func (s *Session) Done() bool {
	return s.Ended() || s.window.Len() >= s.opts.Puzzles
}

// Ended reports whether End was called.
func (s *Session) Ended() bool { return !s.endedAt.IsZero() }

// Streak returns the current run of correct answers.
func (s *Session) Streak() int { return s.window.Streak() }

// Window exposes the attempt history read-only.
func (s *Session) Window() adaptive.History { return s.window }

// Attempts returns a copy of the recorded attempts, oldest first.
func (s *Session) Attempts() []tracker.Attempt { return s.window.Attempts() }

// Pending returns the puzzle awaiting an answer, if any.
func (s *Session) Pending() (*puzzle.Puzzle, bool) {
	return s.pending, s.pending != nil
}

// Transitions returns the non-maintain decisions applied so far,
// including clamped ones.
func (s *Session) Transitions() []adaptive.Decision {
	out := make([]adaptive.Decision, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// NextPuzzle returns the pending puzzle, generating one at the current
// level if none is pending.
func (s *Session) NextPuzzle(ctx context.Context) (*puzzle.Puzzle, error) {
	if s.Done() {
		return nil, ErrSessionComplete
	}
	if s.pending != nil {
		return s.pending, nil
	}

	p, err := s.opts.Generator.Generate(ctx, puzzle.GenerateInput{
		Level: s.level,
		Prior: s.prior,
	})
	if err != nil {
		return nil, fmt.Errorf("next puzzle: %w", err)
	}

	s.pending = p
	s.issuedAt = s.opts.Clock()
	s.served++
	s.prior = append(s.prior, p.Expression())
	return p, nil
}

// Submit answers the pending puzzle. A zero elapsed is measured from when
// the puzzle was issued.
//
// puzzle.ErrNotANumber and *tracker.InvalidAttemptError leave the session
// unchanged so the caller can reprompt.
func (s *Session) Submit(ctx context.Context, answer string, elapsed time.Duration) (*Outcome, error) {
	if s.pending == nil {
		if s.Done() {
			return nil, ErrSessionComplete
		}
		return nil, ErrNoPendingPuzzle
	}
	p := s.pending

	correct, err := puzzle.CheckAnswer(answer, p)
	if err != nil {
		return nil, err
	}
	if elapsed == 0 {
		elapsed = s.opts.Clock().Sub(s.issuedAt)
	}

	attempt, err := s.window.Record(tracker.Attempt{
		A:         p.A,
		B:         p.B,
		Op:        p.Op,
		Answer:    p.Answer,
		Submitted: strings.TrimSpace(answer),
		Correct:   correct,
		TimeTaken: elapsed,
		Level:     s.level,
	})
	if err != nil {
		return nil, err
	}
	s.pending = nil

	out := &Outcome{
		Attempt:       attempt,
		Correct:       correct,
		CorrectAnswer: p.Answer,
		Streak:        s.window.Streak(),
	}
	out.Milestone = correct && tracker.IsStreakMilestone(out.Streak)
	s.journalAttempt(ctx, attempt)

	if s.shouldEvaluate() {
		d := s.opts.Engine.Evaluate(s.level, s.window)
		out.Decision = &d
		s.apply(ctx, d)
	}

	out.Level = s.level
	out.Done = s.Done()
	return out, nil
}

func (s *Session) shouldEvaluate() bool {
	n := s.window.Len()
	return n < s.opts.Puzzles && n%s.opts.EvaluateEvery == 0
}

func (s *Session) apply(ctx context.Context, d adaptive.Decision) {
	if d.Kind == adaptive.Maintain {
		s.log.Debug("level maintained", "level", d.From.Key(), "reason", d.Reason)
		return
	}

	s.transitions = append(s.transitions, d)
	s.level = d.To
	s.journalTransition(ctx, d)

	s.log.Info("difficulty decision",
		"kind", d.Kind,
		"from", d.From.Key(),
		"to", d.To.Key(),
		"clamped", d.Clamped,
		"reason", d.Reason,
		"score", d.Score,
	)
}

// End closes the session early or after the last puzzle and journals the
// end. Calling End twice is a no-op.
func (s *Session) End(ctx context.Context) *Summary {
	if !s.Ended() {
		s.endedAt = s.opts.Clock()
		s.pending = nil
		s.journalEnd(ctx)
		s.log.Info("session ended", "answered", s.window.Len(), "level", s.level.Key())
	}
	return s.Summary()
}
