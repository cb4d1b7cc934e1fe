package tracker

import (
	"time"

	"github.com/abhisek/mathpace/internal/difficulty"
)

// DefaultWindow is the number of recent attempts at a level that feed a
// difficulty decision.
const DefaultWindow = 3

// Window is the ordered attempt history of one session. It has a single
// writer; callers serving several goroutines must serialize access.
type Window struct {
	attempts []Attempt
	streak   int
	best     int
	now      func() time.Time
}

// NewWindow creates an empty window.
func NewWindow() *Window {
	return &Window{now: time.Now}
}

// NewWindowWithClock creates an empty window that stamps attempts using now.
func NewWindowWithClock(now func() time.Time) *Window {
	return &Window{now: now}
}

// Record validates and appends an attempt. Seq always becomes the
// attempt's 1-based position in the window, replacing any value the
// caller set. At is stamped from the clock only when zero. Returns the
// stored attempt.
func (w *Window) Record(a Attempt) (Attempt, error) {
	if err := a.Validate(); err != nil {
		return Attempt{}, err
	}
	a.Seq = len(w.attempts) + 1
	if a.At.IsZero() {
		a.At = w.clock()
	}
	w.attempts = append(w.attempts, a)

	if a.Correct {
		w.streak++
		if w.streak > w.best {
			w.best = w.streak
		}
	} else {
		w.streak = 0
	}
	return a, nil
}

// Recent returns up to n most recent attempts at level, most recent first.
func (w *Window) Recent(level difficulty.Level, n int) []Attempt {
	if n <= 0 {
		return nil
	}
	var out []Attempt
	for i := len(w.attempts) - 1; i >= 0 && len(out) < n; i-- {
		if w.attempts[i].Level == level {
			out = append(out, w.attempts[i])
		}
	}
	return out
}

// RecentAccuracy is the fraction correct among Recent(level, n).
// Returns 0 for an empty window.
func (w *Window) RecentAccuracy(level difficulty.Level, n int) float64 {
	recent := w.Recent(level, n)
	if len(recent) == 0 {
		return 0
	}
	correct := 0
	for _, a := range recent {
		if a.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(recent))
}

// RecentAverageTime is the mean time taken among Recent(level, n).
// Returns 0 for an empty window.
func (w *Window) RecentAverageTime(level difficulty.Level, n int) time.Duration {
	return averageTime(w.Recent(level, n))
}

// Count returns how many attempts were recorded at level.
func (w *Window) Count(level difficulty.Level) int {
	n := 0
	for _, a := range w.attempts {
		if a.Level == level {
			n++
		}
	}
	return n
}

// Len returns the total number of recorded attempts.
func (w *Window) Len() int {
	return len(w.attempts)
}

// Attempts returns a copy of all attempts in chronological order.
func (w *Window) Attempts() []Attempt {
	out := make([]Attempt, len(w.attempts))
	copy(out, w.attempts)
	return out
}

// Last returns the most recent attempt.
func (w *Window) Last() (Attempt, bool) {
	if len(w.attempts) == 0 {
		return Attempt{}, false
	}
	return w.attempts[len(w.attempts)-1], true
}

// Streak returns the current run of consecutive correct answers.
func (w *Window) Streak() int {
	return w.streak
}

// BestStreak returns the longest run seen this session.
func (w *Window) BestStreak() int {
	return w.best
}

func (w *Window) clock() time.Time {
	if w.now == nil {
		return time.Now()
	}
	return w.now()
}

func averageTime(attempts []Attempt) time.Duration {
	if len(attempts) == 0 {
		return 0
	}
	var total time.Duration
	for _, a := range attempts {
		total += a.TimeTaken
	}
	return total / time.Duration(len(attempts))
}
