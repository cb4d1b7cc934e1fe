// Package adaptive decides when a learner should move between difficulty
// levels. The Engine is stateless: every decision is a pure function of
// the attempt history it is handed and the level table.
package adaptive

import (
	"fmt"
	"time"

	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/scoring"
	"github.com/abhisek/mathpace/internal/tracker"
)

// History is the read side of an attempt window. *tracker.Window
// implements it.
type History interface {
	Recent(level difficulty.Level, n int) []tracker.Attempt
	RecentAccuracy(level difficulty.Level, n int) float64
	RecentAverageTime(level difficulty.Level, n int) time.Duration
}

// Kind is the transition a decision applies.
type Kind string

const (
	Increase Kind = "increase"
	Decrease Kind = "decrease"
	Maintain Kind = "maintain"
)

// ReasonInsufficientData is the reason given when too few attempts exist
// at the current level for any rule to fire.
const ReasonInsufficientData = "insufficient data"

// Decision is the outcome of one evaluation.
type Decision struct {
	From   difficulty.Level `json:"from"`
	To     difficulty.Level `json:"to"`
	Kind   Kind             `json:"kind"`
	Reason string           `json:"reason"`

	// Score is diagnostic only; the rules gate on raw accuracy and time.
	Score       float64       `json:"score"`
	Accuracy    float64       `json:"accuracy"`
	AverageTime time.Duration `json:"average_time"`
	Attempts    int           `json:"attempts"`

	// Clamped is set when Kind asked for a move past Easy or Expert.
	Clamped bool `json:"clamped"`
}

// Changed reports whether the decision moves the learner to a new level.
func (d Decision) Changed() bool {
	return d.From != d.To
}

// Engine applies the threshold rules.
type Engine struct {
	table *difficulty.Table
	cfg   Config
}

// New creates an Engine over table.
func New(table *difficulty.Table, cfg Config) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("adaptive: level table is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{table: table, cfg: cfg}, nil
}

// Config returns the engine's thresholds.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate decides whether the learner at level should move up, down, or
// stay. Only attempts at level are considered. Decrease is checked first
// and wins over a simultaneously qualifying increase.
func (e *Engine) Evaluate(level difficulty.Level, h History) Decision {
	expected := e.table.ExpectedTime(level)

	n := len(h.Recent(level, e.cfg.Window))
	acc := h.RecentAccuracy(level, e.cfg.Window)
	avg := h.RecentAverageTime(level, e.cfg.Window)

	d := Decision{
		From:        level,
		To:          level,
		Kind:        Maintain,
		Accuracy:    acc,
		AverageTime: avg,
		Attempts:    n,
		Score:       scoring.Neutral,
	}
	if n > 0 {
		d.Score = scoring.Score(acc, avg, expected)
	}

	if reason, ok := e.decreaseReason(level, h, acc, avg, expected); ok {
		return e.apply(d, Decrease, reason)
	}

	if n < e.cfg.MinIncreaseAttempts {
		d.Reason = ReasonInsufficientData
		return d
	}

	if reason, ok := e.increaseReason(acc, avg, expected); ok {
		return e.apply(d, Increase, reason)
	}

	d.Reason = e.maintainReason(acc, avg, expected)
	return d
}

func (e *Engine) decreaseReason(level difficulty.Level, h History, acc3 float64, avg3, expected time.Duration) (string, bool) {
	short := len(h.Recent(level, e.cfg.DecreaseWindow))
	if short < e.cfg.MinDecreaseAttempts {
		return "", false
	}

	acc2 := h.RecentAccuracy(level, e.cfg.DecreaseWindow)
	if acc2 < e.cfg.DecreaseAccuracy {
		return fmt.Sprintf("accuracy %s < %s threshold over last %d attempts",
			pct(acc2), pct(e.cfg.DecreaseAccuracy), short), true
	}

	slow := time.Duration(float64(expected) * e.cfg.SlowFactor)
	if acc3 < e.cfg.StruggleAccuracy && avg3 > slow {
		return fmt.Sprintf("accuracy %s < %s threshold and average time %s > %s (%gx expected)",
			pct(acc3), pct(e.cfg.StruggleAccuracy), secs(avg3), secs(slow), e.cfg.SlowFactor), true
	}
	return "", false
}

func (e *Engine) increaseReason(acc float64, avg, expected time.Duration) (string, bool) {
	if acc >= e.cfg.IncreaseAccuracy && avg < expected {
		return fmt.Sprintf("accuracy %s ≥ %s threshold and average time %s < %s expected",
			pct(acc), pct(e.cfg.IncreaseAccuracy), secs(avg), secs(expected)), true
	}
	if acc >= e.cfg.FastIncreaseAccuracy {
		return fmt.Sprintf("accuracy %s ≥ %s threshold", pct(acc), pct(e.cfg.FastIncreaseAccuracy)), true
	}
	return "", false
}

func (e *Engine) maintainReason(acc float64, avg, expected time.Duration) string {
	if acc < e.cfg.IncreaseAccuracy {
		return fmt.Sprintf("accuracy %s < %s threshold", pct(acc), pct(e.cfg.IncreaseAccuracy))
	}
	return fmt.Sprintf("accuracy %s ≥ %s threshold but average time %s ≥ %s expected",
		pct(acc), pct(e.cfg.IncreaseAccuracy), secs(avg), secs(expected))
}

func (e *Engine) apply(d Decision, kind Kind, reason string) Decision {
	d.Kind = kind
	d.Reason = reason

	var moved bool
	switch kind {
	case Increase:
		d.To, moved = d.From.Up()
		if !moved {
			d.Reason = "already at max: " + reason
		}
	case Decrease:
		d.To, moved = d.From.Down()
		if !moved {
			d.Reason = "already at min: " + reason
		}
	}
	d.Clamped = !moved
	return d
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func secs(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
