package coach

import (
	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/feedback"
)

// Fallback builds advice from the rule-based recommendation. It never
// fails.
func Fallback(input Input, tr *feedback.Translator) *Advice {
	rec := adaptive.NeedMoreData
	next := difficulty.Easy
	if input.Summary != nil {
		rec = input.Summary.Recommendation
		next = input.Summary.SuggestedLevel
	}

	return &Advice{
		Headline: tr.Headline(rec),
		Advice:   tr.Recommendation(rec, next),
		Focus:    fallbackFocus(input, rec),
		Source:   SourceRules,
	}
}

// fallbackFocus points at the weakest operation when accuracy is the
// problem, and at speed when the learner is accurate but not yet moving
// up.
func fallbackFocus(input Input, rec adaptive.Recommendation) string {
	switch rec {
	case adaptive.ReviewBasics, adaptive.Learning:
		if op, ok := weakestOperation(input); ok {
			return op
		}
		return FocusAccuracy
	case adaptive.GreatProgress:
		return FocusSpeed
	default:
		return FocusNone
	}
}

func weakestOperation(input Input) (string, bool) {
	var (
		worst    opStat
		worstAcc = 2.0
	)
	for _, s := range operationStats(input.Attempts) {
		acc := float64(s.correct) / float64(s.count)
		if acc < worstAcc {
			worst, worstAcc = s, acc
		}
	}
	if worst.count == 0 || worstAcc >= 1 {
		return "", false
	}
	return string(worst.op), true
}
