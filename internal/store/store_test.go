package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.DB())

	var n int
	err := s.DB().QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table'`).Scan(&n)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 5)
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var fk string
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, "1", fk)
}

func TestSequenceIsGlobal(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Learner: "Ada", Action: ActionStart, Level: "easy", PuzzlesTotal: 10}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{SessionID: "s1", Provider: "mock", Model: "m", Purpose: "advice", Success: true}))
	require.NoError(t, repo.AppendAttempt(ctx, AttemptEventData{SessionID: "s1", AttemptSeq: 1, Level: "easy", Puzzle: "2 + 3", CorrectAnswer: 5, Submitted: "5", Correct: true, TimeTaken: 2 * time.Second}))

	llm, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, llm, 1)
	assert.Equal(t, int64(2), llm[0].Sequence)
	assert.True(t, llm[0].Success)
	assert.Equal(t, "advice", llm[0].Purpose)
	assert.Equal(t, "s1", llm[0].SessionID)
}

func TestTimeline_MergesInOrder(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Learner: "Ada", Action: ActionStart, Level: "medium", PuzzlesTotal: 5}))
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.AppendAttempt(ctx, AttemptEventData{
			SessionID: "s1", AttemptSeq: i, Level: "medium", Puzzle: "12 × 3",
			CorrectAnswer: 36, Submitted: "36", Correct: true, TimeTaken: 4 * time.Second,
		}))
	}
	// Another session must not leak in.
	require.NoError(t, repo.AppendAttempt(ctx, AttemptEventData{SessionID: "s2", AttemptSeq: 1, Level: "easy", Puzzle: "1 + 1", Submitted: "2", Correct: true, TimeTaken: time.Second}))
	require.NoError(t, repo.AppendTransition(ctx, TransitionEventData{
		SessionID: "s1", From: "medium", To: "hard", Kind: "increase",
		Reason: "accuracy 100% ≥ 90% threshold", Score: 1, Accuracy: 1, AverageTime: 4 * time.Second,
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Learner: "Ada", Action: ActionEnd, Level: "hard", PuzzlesServed: 3, Correct: 3}))

	events, err := repo.Timeline(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 6)

	kinds := make([]string, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
		if i > 0 {
			assert.Greater(t, ev.Sequence, events[i-1].Sequence)
		}
	}
	assert.Equal(t, []string{KindSession, KindAttempt, KindAttempt, KindAttempt, KindTransition, KindSession}, kinds)
	assert.Equal(t, "increase medium -> hard: accuracy 100% ≥ 90% threshold", events[4].Summary)
	assert.Equal(t, "Ada ended at hard: 3/3 correct", events[5].Summary)
	assert.True(t, events[0].Timestamp.Equal(fixed))
}

func TestQueryLLMEvents_Filters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "advice", Success: i%2 == 0}))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, int64(3), after[0].Sequence)
	assert.Equal(t, int64(4), after[1].Sequence)
}

func TestSeparateMemoryStoresAreIsolated(t *testing.T) {
	a := openTestStore(t)
	b := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, a.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "advice"}))

	got, err := b.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentSessions(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	end := func(id, learner, level string, correct int) {
		require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: id, Learner: learner, Action: ActionStart, Level: "easy", PuzzlesTotal: 10}))
		require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID: id, Learner: learner, Action: ActionEnd, Level: level,
			PuzzlesTotal: 10, PuzzlesServed: 10, Correct: correct, Duration: 90 * time.Second,
		}))
	}
	end("s1", "Ada", "medium", 8)
	end("s2", "Bo", "easy", 4)
	end("s3", "Ada", "hard", 10)

	all, err := repo.RecentSessions(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "s3", all[0].SessionID)
	assert.Equal(t, "hard", all[0].FinalLevel)
	assert.Equal(t, 90*time.Second, all[0].Duration)

	ada, err := repo.RecentSessions(ctx, "Ada", 1)
	require.NoError(t, err)
	require.Len(t, ada, 1)
	assert.Equal(t, "s3", ada[0].SessionID)
	assert.Equal(t, 10, ada[0].Correct)
}
