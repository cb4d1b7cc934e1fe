// Package scoring blends accuracy and response time into a single
// performance score.
package scoring

import "time"

const (
	// AccuracyWeight is the share of the score contributed by accuracy.
	AccuracyWeight = 0.7

	// TimeWeight is the share of the score contributed by speed.
	TimeWeight = 0.3

	// Neutral is reported when there is nothing to score.
	Neutral = 0.5
)

// Score computes the performance score for an accuracy in [0,1] and an
// average time taken against the expected time of the level.
// expected must be > 0.
func Score(accuracy float64, taken, expected time.Duration) float64 {
	score := AccuracyWeight*clamp(accuracy, 0, 1) + TimeWeight*TimeScore(taken, expected)
	return clamp(score, 0, 1)
}

// TimeScore is a step function of taken/expected.
func TimeScore(taken, expected time.Duration) float64 {
	if expected <= 0 {
		return Neutral
	}
	ratio := float64(taken) / float64(expected)

	switch {
	case ratio < 0.5:
		return 1.0
	case ratio < 1.0:
		return 0.8
	case ratio < 1.5:
		return 0.6
	default:
		return 0.3
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
