package adaptive

import "github.com/abhisek/mathpace/internal/difficulty"

// Recommendation is the end-of-session advice band.
type Recommendation string

const (
	NeedMoreData  Recommendation = "need_more_data"
	Excellent     Recommendation = "excellent"
	GreatProgress Recommendation = "great_progress"
	Learning      Recommendation = "learning"
	ReviewBasics  Recommendation = "review_basics"
)

// MinPuzzlesForRecommendation is the number of answered puzzles below
// which no band is assigned.
const MinPuzzlesForRecommendation = 5

// Recommend maps session totals to an advice band.
func Recommend(total int, accuracy float64) Recommendation {
	switch {
	case total < MinPuzzlesForRecommendation:
		return NeedMoreData
	case accuracy >= 0.85:
		return Excellent
	case accuracy >= 0.70:
		return GreatProgress
	case accuracy >= 0.50:
		return Learning
	default:
		return ReviewBasics
	}
}

// SuggestedStartLevel is where the next session should begin.
func SuggestedStartLevel(final difficulty.Level, rec Recommendation) difficulty.Level {
	switch rec {
	case Excellent:
		l, _ := final.Up()
		return l
	case ReviewBasics:
		l, _ := final.Down()
		return l
	default:
		return final
	}
}
