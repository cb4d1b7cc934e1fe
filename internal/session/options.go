package session

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/store"
)

// Session length bounds.
const (
	MinPuzzles     = 5
	MaxPuzzles     = 50
	DefaultPuzzles = 10

	DefaultEvaluateEvery = 1
)

// DefaultLearner is used when no name is given.
const DefaultLearner = "Player"

// Options configures a new Session. Zero values select defaults.
type Options struct {
	Learner string
	Level   difficulty.Level

	// Puzzles is the session length, between MinPuzzles and MaxPuzzles.
	Puzzles int

	// EvaluateEvery runs the engine after every N recorded attempts.
	EvaluateEvery int

	Table     *difficulty.Table
	Engine    *adaptive.Engine
	Generator puzzle.Generator

	// Events is the optional journal.
	Events store.EventRepo
	Logger *slog.Logger
	Clock  func() time.Time
}

func (o *Options) normalize() error {
	o.Learner = strings.TrimSpace(o.Learner)
	if o.Learner == "" {
		o.Learner = DefaultLearner
	}
	if o.Level == 0 {
		o.Level = difficulty.Easy
	}
	if !o.Level.Valid() {
		return fmt.Errorf("session: invalid starting level %d", int(o.Level))
	}

	if o.Puzzles == 0 {
		o.Puzzles = DefaultPuzzles
	}
	if o.Puzzles < MinPuzzles || o.Puzzles > MaxPuzzles {
		return fmt.Errorf("session: puzzles must be between %d and %d, got %d", MinPuzzles, MaxPuzzles, o.Puzzles)
	}

	if o.EvaluateEvery == 0 {
		o.EvaluateEvery = DefaultEvaluateEvery
	}
	if o.EvaluateEvery < 0 {
		return fmt.Errorf("session: evaluate-every must be positive, got %d", o.EvaluateEvery)
	}

	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Table == nil {
		o.Table = difficulty.DefaultTable()
	}
	if o.Engine == nil {
		engine, err := adaptive.New(o.Table, adaptive.DefaultConfig())
		if err != nil {
			return err
		}
		o.Engine = engine
	}
	if o.Generator == nil {
		seed := uint64(o.Clock().UnixNano())
		o.Generator = puzzle.NewRandomGenerator(o.Table, puzzle.DefaultConfig(), seed)
	}
	return nil
}
