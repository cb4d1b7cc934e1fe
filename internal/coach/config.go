package coach

import "time"

// Config holds advice generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Advise call. Zero means no extra bound.
	Timeout time.Duration
}

// DefaultConfig returns the defaults for advice generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   384,
		Temperature: 0.4,
		Timeout:     20 * time.Second,
	}
}
