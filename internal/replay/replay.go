package replay

import (
	"fmt"
	"time"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/tracker"
)

// epoch anchors replayed timestamps so runs are reproducible.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Step is one replayed attempt and the decision that followed it, if the
// engine ran.
type Step struct {
	Attempt  tracker.Attempt    `json:"attempt"`
	Decision *adaptive.Decision `json:"decision,omitempty"`
	Level    difficulty.Level   `json:"level"`
}

// Result is the full replay.
type Result struct {
	Name    string           `json:"name,omitempty"`
	Steps   []Step           `json:"steps"`
	Summary *session.Summary `json:"summary"`
}

// Run replays f through a fresh window and engine. The same fixture
// always yields the same result.
func Run(f *Fixture, engine *adaptive.Engine) (*Result, error) {
	every := f.EvaluateEvery
	if every <= 0 {
		every = session.DefaultEvaluateEvery
	}
	if !f.StartLevel.Valid() {
		return nil, fmt.Errorf("replay: invalid start level %d", int(f.StartLevel))
	}

	now := epoch
	w := tracker.NewWindowWithClock(func() time.Time { return now })
	level := f.StartLevel
	var (
		steps       []Step
		transitions []adaptive.Decision
		elapsed     time.Duration
	)

	for i, fa := range f.Attempts {
		a, err := fa.attempt(level)
		if err != nil {
			return nil, fmt.Errorf("replay: attempt %d: %w", i+1, err)
		}

		taken := a.TimeTaken
		now = now.Add(taken)
		elapsed += taken

		rec, err := w.Record(a)
		if err != nil {
			return nil, fmt.Errorf("replay: attempt %d: %w", i+1, err)
		}
		step := Step{Attempt: rec}

		n := i + 1
		if n < len(f.Attempts) && n%every == 0 {
			d := engine.Evaluate(level, w)
			step.Decision = &d
			if d.Kind != adaptive.Maintain {
				transitions = append(transitions, d)
				level = d.To
			}
		}
		step.Level = level
		steps = append(steps, step)
	}

	learner := f.Learner
	if learner == "" {
		learner = session.DefaultLearner
	}
	sum := session.BuildSummary(w, session.SummaryInput{
		Learner:     learner,
		StartLevel:  f.StartLevel,
		FinalLevel:  level,
		Planned:     len(f.Attempts),
		Transitions: transitions,
		Duration:    elapsed,
	})
	return &Result{Name: f.Name, Steps: steps, Summary: sum}, nil
}

func (fa FixtureAttempt) attempt(current difficulty.Level) (tracker.Attempt, error) {
	level := fa.Level
	if level == 0 {
		level = current
	}

	var answer int
	if fa.Answer != nil {
		answer = *fa.Answer
	} else {
		v, err := fa.Op.Apply(fa.A, fa.B)
		if err != nil {
			return tracker.Attempt{}, err
		}
		answer = v
	}

	p := &puzzle.Puzzle{A: fa.A, B: fa.B, Op: fa.Op, Answer: answer, Level: level}
	correct, err := puzzle.CheckAnswer(fa.Submitted, p)
	if err != nil {
		return tracker.Attempt{}, fmt.Errorf("submitted %q: %w", fa.Submitted, err)
	}

	return tracker.Attempt{
		A:         fa.A,
		B:         fa.B,
		Op:        fa.Op,
		Answer:    answer,
		Submitted: fa.Submitted,
		Correct:   correct,
		TimeTaken: time.Duration(fa.TimeMs) * time.Millisecond,
		Level:     level,
	}, nil
}
