package adaptive

import (
	"fmt"
	"strings"
)

// Config holds the thresholds of the decision rules.
type Config struct {
	// Window is the number of recent attempts at the current level used
	// for the increase rule and the slow-struggle decrease rule.
	Window int

	// DecreaseWindow is the short window used by the low-accuracy
	// decrease rule.
	DecreaseWindow int

	// MinIncreaseAttempts is the number of attempts at the level required
	// before an increase may fire.
	MinIncreaseAttempts int

	// MinDecreaseAttempts is the number of attempts at the level required
	// before a decrease may fire.
	MinDecreaseAttempts int

	// IncreaseAccuracy combined with a below-expected average time
	// triggers an increase.
	IncreaseAccuracy float64

	// FastIncreaseAccuracy triggers an increase regardless of time.
	FastIncreaseAccuracy float64

	// DecreaseAccuracy over the short window triggers a decrease.
	DecreaseAccuracy float64

	// StruggleAccuracy combined with an average time above SlowFactor
	// times the expected time triggers a decrease.
	StruggleAccuracy float64
	SlowFactor       float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		Window:               3,
		DecreaseWindow:       2,
		MinIncreaseAttempts:  3,
		MinDecreaseAttempts:  2,
		IncreaseAccuracy:     0.80,
		FastIncreaseAccuracy: 0.90,
		DecreaseAccuracy:     0.40,
		StruggleAccuracy:     0.60,
		SlowFactor:           2.0,
	}
}

// Validate checks that the thresholds are consistent.
func (c Config) Validate() error {
	var errs []string

	if c.Window < 1 {
		errs = append(errs, fmt.Sprintf("window must be >= 1, got %d", c.Window))
	}
	if c.DecreaseWindow < 1 || c.DecreaseWindow > c.Window {
		errs = append(errs, fmt.Sprintf("decrease window must be in [1, %d], got %d", c.Window, c.DecreaseWindow))
	}
	if c.MinIncreaseAttempts < 1 || c.MinIncreaseAttempts > c.Window {
		errs = append(errs, fmt.Sprintf("min increase attempts must be in [1, %d], got %d", c.Window, c.MinIncreaseAttempts))
	}
	if c.MinDecreaseAttempts < 1 || c.MinDecreaseAttempts > c.DecreaseWindow {
		errs = append(errs, fmt.Sprintf("min decrease attempts must be in [1, %d], got %d", c.DecreaseWindow, c.MinDecreaseAttempts))
	}
	for _, th := range []struct {
		name string
		v    float64
	}{
		{"increase accuracy", c.IncreaseAccuracy},
		{"fast increase accuracy", c.FastIncreaseAccuracy},
		{"decrease accuracy", c.DecreaseAccuracy},
		{"struggle accuracy", c.StruggleAccuracy},
	} {
		if th.v < 0 || th.v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in [0, 1], got %.2f", th.name, th.v))
		}
	}
	if c.FastIncreaseAccuracy < c.IncreaseAccuracy {
		errs = append(errs, "fast increase accuracy must be >= increase accuracy")
	}
	if c.DecreaseAccuracy >= c.IncreaseAccuracy {
		errs = append(errs, "decrease accuracy must be < increase accuracy")
	}
	if c.SlowFactor <= 1 {
		errs = append(errs, fmt.Sprintf("slow factor must be > 1, got %.2f", c.SlowFactor))
	}

	if len(errs) > 0 {
		return fmt.Errorf("adaptive config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
