package puzzle

import (
	"fmt"

	"github.com/abhisek/mathpace/internal/difficulty"
)

// Validator checks a generated puzzle. Implementations are stateless and
// safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil if the puzzle passes.
	Validate(p *Puzzle, table *difficulty.Table) *ValidationError
}

// ValidationError describes why a puzzle failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// RangeValidator checks that operands sit inside the level's ranges.
type RangeValidator struct{}

func (v *RangeValidator) Name() string { return "range" }

func (v *RangeValidator) Validate(p *Puzzle, table *difficulty.Table) *ValidationError {
	r, ok := table.NumberRange(p.Level, p.Op)
	if !ok {
		return v.fail("operation %s not allowed at level %s", p.Op, p.Level)
	}

	switch p.Op {
	case difficulty.Div:
		bMin := max(1, r.BMin)
		if p.B < bMin || p.B > max(bMin, r.BMax) {
			return v.fail("divisor %d outside [%d, %d]", p.B, bMin, r.BMax)
		}
		if p.A > max(r.AMax, p.B) {
			return v.fail("dividend %d above %d", p.A, r.AMax)
		}
	case difficulty.Sub:
		// Operands may have been swapped to keep the result non-negative.
		if !(in(p.A, r.AMin, r.AMax) && in(p.B, r.BMin, r.BMax)) &&
			!(in(p.A, r.BMin, r.BMax) && in(p.B, r.AMin, r.AMax)) {
			return v.fail("operands %d, %d outside ranges", p.A, p.B)
		}
	default:
		if !in(p.A, r.AMin, r.AMax) || !in(p.B, r.BMin, r.BMax) {
			return v.fail("operands %d, %d outside ranges", p.A, p.B)
		}
	}
	return nil
}

func (v *RangeValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
}

// ArithmeticValidator recomputes the answer and checks that subtraction
// stays non-negative and division is exact.
type ArithmeticValidator struct{}

func (v *ArithmeticValidator) Name() string { return "arithmetic" }

func (v *ArithmeticValidator) Validate(p *Puzzle, _ *difficulty.Table) *ValidationError {
	if p.Op == difficulty.Div && (p.B == 0 || p.A%p.B != 0) {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("%s is not an exact division", p.Expression())}
	}
	computed, err := p.Op.Apply(p.A, p.B)
	if err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if computed != p.Answer {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("computed %d but puzzle claims %d", computed, p.Answer)}
	}
	if computed < 0 {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("negative result %d", computed)}
	}
	return nil
}

func in(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
