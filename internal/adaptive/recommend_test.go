package adaptive

import (
	"testing"

	"github.com/abhisek/mathpace/internal/difficulty"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		total    int
		accuracy float64
		want     Recommendation
	}{
		{0, 0, NeedMoreData},
		{4, 1.0, NeedMoreData},
		{5, 0.85, Excellent},
		{10, 0.84, GreatProgress},
		{10, 0.70, GreatProgress},
		{10, 0.69, Learning},
		{10, 0.50, Learning},
		{10, 0.49, ReviewBasics},
		{50, 0, ReviewBasics},
	}
	for _, tt := range tests {
		got := Recommend(tt.total, tt.accuracy)
		if got != tt.want {
			t.Errorf("Recommend(%d, %.2f) = %s, want %s", tt.total, tt.accuracy, got, tt.want)
		}
	}
}

func TestSuggestedStartLevel(t *testing.T) {
	tests := []struct {
		final difficulty.Level
		rec   Recommendation
		want  difficulty.Level
	}{
		{difficulty.Medium, Excellent, difficulty.Hard},
		{difficulty.Expert, Excellent, difficulty.Expert},
		{difficulty.Medium, ReviewBasics, difficulty.Easy},
		{difficulty.Easy, ReviewBasics, difficulty.Easy},
		{difficulty.Hard, Learning, difficulty.Hard},
		{difficulty.Hard, NeedMoreData, difficulty.Hard},
	}
	for _, tt := range tests {
		if got := SuggestedStartLevel(tt.final, tt.rec); got != tt.want {
			t.Errorf("SuggestedStartLevel(%s, %s) = %s, want %s", tt.final, tt.rec, got, tt.want)
		}
	}
}
