package tracker

import "testing"

func TestNextStreakMilestone(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{-3, 5},
		{0, 5},
		{4, 5},
		{5, 10},
		{9, 10},
		{14, 15},
		{19, 20},
		{20, 25},
		{24, 25},
		{25, 30},
	}

	for _, tt := range tests {
		got := NextStreakMilestone(tt.current)
		if got != tt.want {
			t.Errorf("NextStreakMilestone(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestIsStreakMilestone(t *testing.T) {
	for _, n := range []int{5, 10, 15, 20, 25, 30} {
		if !IsStreakMilestone(n) {
			t.Errorf("IsStreakMilestone(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, 1, 4, 6, 11, 21, 26} {
		if IsStreakMilestone(n) {
			t.Errorf("IsStreakMilestone(%d) = true, want false", n)
		}
	}
}
