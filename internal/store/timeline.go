package store

import (
	"context"
	"fmt"
	"slices"
	"time"
)

func (r *eventRepo) Timeline(ctx context.Context, sessionID string) ([]TimelineEvent, error) {
	var events []TimelineEvent

	sessions, err := r.sessionTimeline(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	events = append(events, sessions...)

	attempts, err := r.attemptTimeline(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	events = append(events, attempts...)

	transitions, err := r.transitionTimeline(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	events = append(events, transitions...)

	slices.SortFunc(events, func(a, b TimelineEvent) int {
		return int(a.Sequence - b.Sequence)
	})
	return events, nil
}

func (r *eventRepo) sessionTimeline(ctx context.Context, sessionID string) ([]TimelineEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, learner, action, level, puzzles_total, puzzles_served, correct_answers, ts
		 FROM session_events WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []TimelineEvent
	for rows.Next() {
		var (
			ev                     TimelineEvent
			learner, action, level string
			total, served, correct int
			ts                     int64
		)
		if err := rows.Scan(&ev.Sequence, &learner, &action, &level, &total, &served, &correct, &ts); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		ev.Kind = KindSession
		ev.Timestamp = time.UnixMilli(ts)
		switch action {
		case ActionStart:
			ev.Summary = fmt.Sprintf("%s started at %s with %d puzzles", learner, level, total)
		default:
			ev.Summary = fmt.Sprintf("%s ended at %s: %d/%d correct", learner, level, correct, served)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) attemptTimeline(ctx context.Context, sessionID string) ([]TimelineEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, attempt_seq, level, puzzle, correct_answer, submitted, correct, time_ms, ts
		 FROM attempt_events WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []TimelineEvent
	for rows.Next() {
		var (
			ev                       TimelineEvent
			attemptSeq, answer       int
			level, puzzle, submitted string
			correct                  int
			timeMs, ts               int64
		)
		if err := rows.Scan(&ev.Sequence, &attemptSeq, &level, &puzzle, &answer, &submitted, &correct, &timeMs, &ts); err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		ev.Kind = KindAttempt
		ev.Timestamp = time.UnixMilli(ts)
		mark := "wrong"
		if correct != 0 {
			mark = "correct"
		}
		ev.Summary = fmt.Sprintf("#%d [%s] %s = %s (%s, answer %d) in %.1fs",
			attemptSeq, level, puzzle, submitted, mark, answer, float64(timeMs)/1000)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) transitionTimeline(ctx context.Context, sessionID string) ([]TimelineEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, from_level, to_level, kind, reason, ts
		 FROM transition_events WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query transition events: %w", err)
	}
	defer rows.Close()

	var out []TimelineEvent
	for rows.Next() {
		var (
			ev                     TimelineEvent
			from, to, kind, reason string
			ts                     int64
		)
		if err := rows.Scan(&ev.Sequence, &from, &to, &kind, &reason, &ts); err != nil {
			return nil, fmt.Errorf("scan transition event: %w", err)
		}
		ev.Kind = KindTransition
		ev.Timestamp = time.UnixMilli(ts)
		ev.Summary = fmt.Sprintf("%s %s -> %s: %s", kind, from, to, reason)
		out = append(out, ev)
	}
	return out, rows.Err()
}
