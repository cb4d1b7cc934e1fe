package difficulty

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid level table. It is fatal at
// startup: every decision depends on the table being complete.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("difficulty table validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// validateSpecs performs all structural checks on a set of level specs.
func validateSpecs(specs []LevelSpec) error {
	var errs []string

	seen := make(map[Level]bool, len(specs))
	for _, s := range specs {
		if !s.Level.Valid() {
			errs = append(errs, fmt.Sprintf("unknown level %d", int(s.Level)))
			continue
		}
		if seen[s.Level] {
			errs = append(errs, fmt.Sprintf("duplicate level: %s", s.Level))
		}
		seen[s.Level] = true
	}

	for _, l := range Levels() {
		if !seen[l] {
			errs = append(errs, fmt.Sprintf("level %s is missing", l))
		}
	}

	for _, s := range specs {
		if !s.Level.Valid() {
			continue
		}
		prefix := fmt.Sprintf("level %s", s.Level)
		if s.ExpectedTime <= 0 {
			errs = append(errs, fmt.Sprintf("%s: expected time must be > 0, got %s", prefix, s.ExpectedTime))
		}
		if len(s.Ranges) == 0 {
			errs = append(errs, fmt.Sprintf("%s: no operations allowed", prefix))
		}
		for _, op := range AllOperations() {
			r, ok := s.Ranges[op]
			if !ok {
				continue
			}
			errs = append(errs, validateRange(fmt.Sprintf("%s %s", prefix, op), op, r)...)
		}
		for op := range s.Ranges {
			if !op.Valid() {
				errs = append(errs, fmt.Sprintf("%s: unknown operation %q", prefix, string(op)))
			}
		}
	}

	if len(errs) > 0 {
		return &ConfigurationError{Problems: errs}
	}
	return nil
}

func validateRange(prefix string, op Operation, r Range) []string {
	var errs []string
	if r.AMin > r.AMax {
		errs = append(errs, fmt.Sprintf("%s: a range is inverted (%d > %d)", prefix, r.AMin, r.AMax))
	}
	if r.BMin > r.BMax {
		errs = append(errs, fmt.Sprintf("%s: b range is inverted (%d > %d)", prefix, r.BMin, r.BMax))
	}
	if r.AMin < 0 || r.BMin < 0 {
		errs = append(errs, fmt.Sprintf("%s: ranges must be non-negative", prefix))
	}
	if op == Div && r.BMax < 1 {
		errs = append(errs, fmt.Sprintf("%s: divisor range must include a value >= 1", prefix))
	}
	return errs
}
