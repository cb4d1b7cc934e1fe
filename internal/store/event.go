package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with raw SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_events
		 (sequence, session_id, learner, action, level, puzzles_total, puzzles_served, correct_answers, duration_ms, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Learner, data.Action, data.Level,
		data.PuzzlesTotal, data.PuzzlesServed, data.Correct, data.Duration.Milliseconds(),
		r.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO attempt_events
		 (sequence, session_id, attempt_seq, level, puzzle, correct_answer, submitted, correct, time_ms, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.AttemptSeq, data.Level, data.Puzzle,
		data.CorrectAnswer, data.Submitted, boolToInt(data.Correct), data.TimeTaken.Milliseconds(),
		r.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendTransition(ctx context.Context, data TransitionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO transition_events
		 (sequence, session_id, from_level, to_level, kind, reason, score, accuracy, avg_time_ms, clamped, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.From, data.To, data.Kind, data.Reason,
		data.Score, data.Accuracy, data.AverageTime.Milliseconds(), boolToInt(data.Clamped),
		r.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save transition event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
		 (sequence, session_id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, boolToInt(data.Success), data.ErrorMessage,
		r.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error) {
	where, args := opts.filter()
	query := `SELECT sequence, session_id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, ts
		FROM llm_request_events` + where + ` ORDER BY sequence ASC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestRecord
	for rows.Next() {
		var (
			rec     LLMRequestRecord
			success int
			ts      int64
		)
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.Provider, &rec.Model, &rec.Purpose,
			&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &success, &rec.ErrorMessage, &ts); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		rec.Success = success != 0
		rec.Timestamp = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// filter builds the WHERE clause for opts.
func (o QueryOpts) filter() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, o.From.UnixMilli())
	}
	if !o.To.IsZero() {
		conds = append(conds, "ts <= ?")
		args = append(args, o.To.UnixMilli())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *eventRepo) RecentSessions(ctx context.Context, learner string, limit int) ([]SessionRecord, error) {
	query := `SELECT session_id, learner, level, puzzles_total, puzzles_served, correct_answers, duration_ms, ts
		FROM session_events WHERE action = ?`
	args := []any{ActionEnd}
	if learner != "" {
		query += ` AND learner = ?`
		args = append(args, learner)
	}
	query += ` ORDER BY sequence DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec        SessionRecord
			durationMs int64
			ts         int64
		)
		if err := rows.Scan(&rec.SessionID, &rec.Learner, &rec.FinalLevel, &rec.PuzzlesTotal,
			&rec.PuzzlesServed, &rec.Correct, &durationMs, &ts); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.EndedAt = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
