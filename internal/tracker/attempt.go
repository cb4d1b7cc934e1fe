// Package tracker keeps the chronological record of a learner's attempts
// and computes windowed aggregates over it.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/mathpace/internal/difficulty"
)

// Attempt is one answered puzzle. Immutable once recorded.
type Attempt struct {
	// Seq is assigned by Window.Record in insertion order, starting at 1.
	Seq int `json:"seq"`

	A      int                  `json:"a"`
	B      int                  `json:"b"`
	Op     difficulty.Operation `json:"op"`
	Answer int                  `json:"answer"`

	// Submitted is the learner's raw answer, trimmed.
	Submitted string `json:"submitted"`
	Correct   bool   `json:"correct"`

	TimeTaken time.Duration    `json:"time_taken"`
	Level     difficulty.Level `json:"level"`
	At        time.Time        `json:"at"`
}

// InvalidAttemptError reports a malformed attempt. The window is left
// unchanged when Record returns it.
type InvalidAttemptError struct {
	Field  string
	Reason string
}

func (e *InvalidAttemptError) Error() string {
	return fmt.Sprintf("invalid attempt: %s %s", e.Field, e.Reason)
}

// Validate checks that the attempt is well formed.
func (a Attempt) Validate() error {
	if a.TimeTaken <= 0 {
		return &InvalidAttemptError{Field: "time_taken", Reason: fmt.Sprintf("must be > 0, got %s", a.TimeTaken)}
	}
	if strings.TrimSpace(a.Submitted) == "" {
		return &InvalidAttemptError{Field: "submitted", Reason: "is required"}
	}
	if !a.Op.Valid() {
		return &InvalidAttemptError{Field: "op", Reason: fmt.Sprintf("unknown operation %q", string(a.Op))}
	}
	if !a.Level.Valid() {
		return &InvalidAttemptError{Field: "level", Reason: fmt.Sprintf("unknown level %d", int(a.Level))}
	}
	return nil
}

// Text renders the puzzle the attempt answered, e.g. "7 + 5".
func (a Attempt) Text() string {
	return fmt.Sprintf("%d %s %d", a.A, a.Op.Symbol(), a.B)
}
