package tracker

import (
	"time"

	"github.com/abhisek/mathpace/internal/difficulty"
)

// LevelStats aggregates attempts at one level.
type LevelStats struct {
	Level       difficulty.Level `json:"level"`
	Count       int              `json:"count"`
	Correct     int              `json:"correct"`
	Accuracy    float64          `json:"accuracy"`
	AverageTime time.Duration    `json:"average_time"`
}

// Breakdown returns per-level statistics ordered by level. Levels without
// attempts are omitted.
func (w *Window) Breakdown() []LevelStats {
	byLevel := make(map[difficulty.Level][]Attempt)
	for _, a := range w.attempts {
		byLevel[a.Level] = append(byLevel[a.Level], a)
	}

	var out []LevelStats
	for _, l := range difficulty.Levels() {
		attempts, ok := byLevel[l]
		if !ok {
			continue
		}
		s := stats(attempts)
		s.Level = l
		out = append(out, s)
	}
	return out
}

// Totals aggregates every attempt regardless of level. Level is zero.
func (w *Window) Totals() LevelStats {
	return stats(w.attempts)
}

func stats(attempts []Attempt) LevelStats {
	s := LevelStats{Count: len(attempts)}
	for _, a := range attempts {
		if a.Correct {
			s.Correct++
		}
	}
	if s.Count > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Count)
	}
	s.AverageTime = averageTime(attempts)
	return s
}
