package puzzle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/mathpace/internal/difficulty"
)

// DefaultMaxDedupAttempts bounds how many times the generator redraws a
// puzzle that was already served.
const DefaultMaxDedupAttempts = 5

// Config controls the behavior of the RandomGenerator.
type Config struct {
	// Validators run on every generated puzzle, in order. The first
	// failure stops the pipeline.
	Validators []Validator

	// MaxDedupAttempts is the number of draws tried before accepting a
	// repeat of a prior puzzle.
	MaxDedupAttempts int

	// MaxPrior is the number of most recent prior puzzles considered for
	// deduplication. Zero means all.
	MaxPrior int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&RangeValidator{},
			&ArithmeticValidator{},
		},
		MaxDedupAttempts: DefaultMaxDedupAttempts,
		MaxPrior:         8,
	}
}

// RandomGenerator draws operands uniformly within the level's ranges.
// It is safe for concurrent use.
type RandomGenerator struct {
	table  *difficulty.Table
	config Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator creates a generator seeded with seed. The same seed
// and call sequence always produce the same puzzles.
func NewRandomGenerator(table *difficulty.Table, config Config, seed uint64) *RandomGenerator {
	if config.MaxDedupAttempts <= 0 {
		config.MaxDedupAttempts = DefaultMaxDedupAttempts
	}
	return &RandomGenerator{
		table:  table,
		config: config,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Generate returns a puzzle for input.Level that avoids the recent prior
// puzzles when possible.
func (g *RandomGenerator) Generate(ctx context.Context, input GenerateInput) (*Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !input.Level.Valid() {
		return nil, fmt.Errorf("generate: invalid level %d", int(input.Level))
	}
	ops := g.table.AllowedOperations(input.Level)
	if len(ops) == 0 {
		return nil, fmt.Errorf("generate: no operations allowed at level %s", input.Level)
	}

	prior := input.Prior
	if g.config.MaxPrior > 0 && len(prior) > g.config.MaxPrior {
		prior = prior[len(prior)-g.config.MaxPrior:]
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var p *Puzzle
	for range g.config.MaxDedupAttempts {
		op := ops[g.rng.IntN(len(ops))]
		r, _ := g.table.NumberRange(input.Level, op)
		p = g.draw(input.Level, op, r)
		if !slices.Contains(prior, p.Expression()) {
			break
		}
	}

	for _, v := range g.config.Validators {
		if err := v.Validate(p, g.table); err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
	}
	return p, nil
}

func (g *RandomGenerator) draw(level difficulty.Level, op difficulty.Operation, r difficulty.Range) *Puzzle {
	p := &Puzzle{Op: op, Level: level}

	switch op {
	case difficulty.Div:
		// Build an exact division from divisor and quotient.
		bMin := max(1, r.BMin)
		b := g.between(bMin, max(bMin, r.BMax))
		answer := g.between(1, max(1, r.AMax/b))
		p.A, p.B, p.Answer = b*answer, b, answer
		return p

	case difficulty.Sub:
		a := g.between(r.AMin, r.AMax)
		b := g.between(r.BMin, r.BMax)
		if b > a {
			a, b = b, a
		}
		p.A, p.B = a, b

	default:
		p.A = g.between(r.AMin, r.AMax)
		p.B = g.between(r.BMin, r.BMax)
	}

	p.Answer, _ = op.Apply(p.A, p.B)
	return p
}

// between returns a uniform integer in [lo, hi].
func (g *RandomGenerator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}
