package tracker

// StreakStep is the run of correct answers between celebrations. A streak
// is celebrated each time its length is a whole multiple of StreakStep.
const StreakStep = 5

// NextStreakMilestone returns the smallest celebrated streak length
// strictly greater than current.
func NextStreakMilestone(current int) int {
	if current < 0 {
		current = 0
	}
	return (current/StreakStep + 1) * StreakStep
}

// IsStreakMilestone reports whether a streak of length n is celebrated.
func IsStreakMilestone(n int) bool {
	return n > 0 && n%StreakStep == 0
}
