// Package puzzle generates arithmetic puzzles for a difficulty level and
// checks learner answers against them.
package puzzle

import (
	"context"
	"fmt"

	"github.com/abhisek/mathpace/internal/difficulty"
)

// Puzzle is one arithmetic problem ready for display.
type Puzzle struct {
	A      int                  `json:"a"`
	B      int                  `json:"b"`
	Op     difficulty.Operation `json:"op"`
	Answer int                  `json:"-"`
	Level  difficulty.Level     `json:"level"`
}

// Text renders the prompt shown to the learner, e.g. "7 + 5 = ?".
func (p *Puzzle) Text() string {
	return fmt.Sprintf("%s = ?", p.Expression())
}

// Expression renders the left-hand side only, e.g. "7 + 5".
func (p *Puzzle) Expression() string {
	return fmt.Sprintf("%d %s %d", p.A, p.Op.Symbol(), p.B)
}

// GenerateInput holds what a generator needs to produce the next puzzle.
type GenerateInput struct {
	Level difficulty.Level

	// Prior contains the Expression of puzzles already served this
	// session, oldest first. Used for deduplication.
	Prior []string
}

// Generator produces puzzles.
type Generator interface {
	// Generate returns a validated puzzle for the input level.
	Generate(ctx context.Context, input GenerateInput) (*Puzzle, error)
}
