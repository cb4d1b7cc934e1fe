package difficulty

import (
	"fmt"
	"strings"
)

// Operation is an arithmetic operation a puzzle can use.
type Operation string

const (
	Add Operation = "add"
	Sub Operation = "sub"
	Mul Operation = "mul"
	Div Operation = "div"
)

// AllOperations returns every operation in canonical order.
func AllOperations() []Operation {
	return []Operation{Add, Sub, Mul, Div}
}

// Symbol returns the operator as displayed to the learner.
func (o Operation) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "×"
	case Div:
		return "÷"
	default:
		return "?"
	}
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	switch o {
	case Add, Sub, Mul, Div:
		return true
	}
	return false
}

// Apply computes a op b. Division is integer division; callers only
// build exact divisions.
func (o Operation) Apply(a, b int) (int, error) {
	switch o {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", string(o))
	}
}

// ParseOperation accepts the operation name or a common symbol.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+", "plus":
		return Add, nil
	case "sub", "-", "minus":
		return Sub, nil
	case "mul", "×", "x", "*", "times":
		return Mul, nil
	case "div", "÷", "/":
		return Div, nil
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler, so decoded JSON
// may name the operation or use its symbol.
func (o *Operation) UnmarshalText(text []byte) error {
	parsed, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// opIndex gives the canonical position of an operation.
func opIndex(o Operation) int {
	for i, op := range AllOperations() {
		if op == o {
			return i
		}
	}
	return len(AllOperations())
}
