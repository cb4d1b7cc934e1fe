package session

import (
	"context"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/store"
	"github.com/abhisek/mathpace/internal/tracker"
)

// Journal writes are best effort: a failing journal is logged and the
// session carries on.

func (s *Session) journalStart(ctx context.Context) {
	if s.opts.Events == nil {
		return
	}
	err := s.opts.Events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:    s.id,
		Learner:      s.opts.Learner,
		Action:       store.ActionStart,
		Level:        s.level.Key(),
		PuzzlesTotal: s.opts.Puzzles,
	})
	s.journalErr("session start", err)
}

func (s *Session) journalEnd(ctx context.Context) {
	if s.opts.Events == nil {
		return
	}
	totals := s.window.Totals()
	err := s.opts.Events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:     s.id,
		Learner:       s.opts.Learner,
		Action:        store.ActionEnd,
		Level:         s.level.Key(),
		PuzzlesTotal:  s.opts.Puzzles,
		PuzzlesServed: s.served,
		Correct:       totals.Correct,
		Duration:      s.duration(),
	})
	s.journalErr("session end", err)
}

func (s *Session) journalAttempt(ctx context.Context, a tracker.Attempt) {
	if s.opts.Events == nil {
		return
	}
	err := s.opts.Events.AppendAttempt(ctx, store.AttemptEventData{
		SessionID:     s.id,
		AttemptSeq:    a.Seq,
		Level:         a.Level.Key(),
		Puzzle:        a.Text(),
		CorrectAnswer: a.Answer,
		Submitted:     a.Submitted,
		Correct:       a.Correct,
		TimeTaken:     a.TimeTaken,
	})
	s.journalErr("attempt", err)
}

func (s *Session) journalTransition(ctx context.Context, d adaptive.Decision) {
	if s.opts.Events == nil {
		return
	}
	err := s.opts.Events.AppendTransition(ctx, store.TransitionEventData{
		SessionID:   s.id,
		From:        d.From.Key(),
		To:          d.To.Key(),
		Kind:        string(d.Kind),
		Reason:      d.Reason,
		Score:       d.Score,
		Accuracy:    d.Accuracy,
		AverageTime: d.AverageTime,
		Clamped:     d.Clamped,
	})
	s.journalErr("transition", err)
}

func (s *Session) journalErr(what string, err error) {
	if err != nil {
		s.log.Warn("failed to journal "+what, "error", err)
	}
}
