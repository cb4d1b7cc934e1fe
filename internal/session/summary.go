package session

import (
	"time"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/tracker"
)

// Summary is the end-of-session report.
type Summary struct {
	SessionID string `json:"session_id"`
	Learner   string `json:"learner"`

	StartLevel difficulty.Level `json:"start_level"`
	FinalLevel difficulty.Level `json:"final_level"`

	Planned     int           `json:"planned"`
	Answered    int           `json:"answered"`
	Correct     int           `json:"correct"`
	Accuracy    float64       `json:"accuracy"`
	AverageTime time.Duration `json:"average_time"`
	BestStreak  int           `json:"best_streak"`
	Duration    time.Duration `json:"duration"`

	Breakdown   []tracker.LevelStats `json:"breakdown"`
	Transitions []adaptive.Decision  `json:"transitions"`

	Recommendation adaptive.Recommendation `json:"recommendation"`
	SuggestedLevel difficulty.Level        `json:"suggested_level"`
}

// Summary reports on the session so far. It can be called at any time.
func (s *Session) Summary() *Summary {
	return BuildSummary(s.window, SummaryInput{
		SessionID:   s.id,
		Learner:     s.opts.Learner,
		StartLevel:  s.opts.Level,
		FinalLevel:  s.level,
		Planned:     s.opts.Puzzles,
		Transitions: s.Transitions(),
		Duration:    s.duration(),
	})
}

// SummaryInput carries what BuildSummary cannot derive from the window.
type SummaryInput struct {
	SessionID   string
	Learner     string
	StartLevel  difficulty.Level
	FinalLevel  difficulty.Level
	Planned     int
	Transitions []adaptive.Decision
	Duration    time.Duration
}

// BuildSummary aggregates a window into a Summary. Replays use it
// directly.
func BuildSummary(w *tracker.Window, in SummaryInput) *Summary {
	totals := w.Totals()
	rec := adaptive.Recommend(totals.Count, totals.Accuracy)

	transitions := in.Transitions
	if transitions == nil {
		transitions = []adaptive.Decision{}
	}
	breakdown := w.Breakdown()
	if breakdown == nil {
		breakdown = []tracker.LevelStats{}
	}

	return &Summary{
		SessionID:      in.SessionID,
		Learner:        in.Learner,
		StartLevel:     in.StartLevel,
		FinalLevel:     in.FinalLevel,
		Planned:        in.Planned,
		Answered:       totals.Count,
		Correct:        totals.Correct,
		Accuracy:       totals.Accuracy,
		AverageTime:    totals.AverageTime,
		BestStreak:     w.BestStreak(),
		Duration:       in.Duration,
		Breakdown:      breakdown,
		Transitions:    transitions,
		Recommendation: rec,
		SuggestedLevel: adaptive.SuggestedStartLevel(in.FinalLevel, rec),
	}
}

func (s *Session) duration() time.Duration {
	end := s.endedAt
	if end.IsZero() {
		end = s.opts.Clock()
	}
	return end.Sub(s.startedAt)
}
