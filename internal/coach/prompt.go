package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/tracker"
)

const adviceSystemPrompt = `You are a warm, encouraging math coach for children aged 7-12. A learner just finished a short session of arithmetic puzzles whose difficulty adapted to their performance. Give brief, specific advice for next time. Never mention scores as failures.`

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
}

func buildAdviceUserMessage(input Input) string {
	var b strings.Builder
	sum := input.Summary

	fmt.Fprintf(&b, "Learner: %s\n", sum.Learner)
	fmt.Fprintf(&b, "Puzzles answered: %d of %d\n", sum.Answered, sum.Planned)
	fmt.Fprintf(&b, "Correct: %d (%.0f%%)\n", sum.Correct, sum.Accuracy*100)
	fmt.Fprintf(&b, "Average time: %.1fs\n", sum.AverageTime.Seconds())
	fmt.Fprintf(&b, "Best streak: %d\n", sum.BestStreak)
	fmt.Fprintf(&b, "Levels: started %s, finished %s\n", sum.StartLevel, sum.FinalLevel)

	if len(sum.Breakdown) > 0 {
		b.WriteString("\nBy level:\n")
		for _, s := range sum.Breakdown {
			fmt.Fprintf(&b, "- %s: %d/%d correct, %.1fs average\n",
				s.Level, s.Correct, s.Count, s.AverageTime.Seconds())
		}
	}

	if ops := operationStats(input.Attempts); len(ops) > 0 {
		b.WriteString("\nBy operation:\n")
		for _, o := range ops {
			fmt.Fprintf(&b, "- %s: %d/%d correct\n", o.op, o.correct, o.count)
		}
	}

	if len(sum.Transitions) > 0 {
		b.WriteString("\nDifficulty changes:\n")
		for _, d := range sum.Transitions {
			fmt.Fprintf(&b, "- %s %s -> %s: %s\n", d.Kind, d.From, d.To, d.Reason)
		}
	}

	if mistakes := recentMistakes(input.Attempts, 3); len(mistakes) > 0 {
		b.WriteString("\nRecent mistakes:\n")
		for _, m := range mistakes {
			fmt.Fprintf(&b, "- %s = %d, answered %s\n", m.Text(), m.Answer, m.Submitted)
		}
	}

	lang := languageNames[input.Lang]
	if lang == "" {
		lang = "English"
	}
	fmt.Fprintf(&b, "\nWrite the headline and advice in %s.", lang)
	return b.String()
}

type opStat struct {
	op      difficulty.Operation
	count   int
	correct int
}

func operationStats(attempts []tracker.Attempt) []opStat {
	var out []opStat
	for _, op := range difficulty.AllOperations() {
		s := opStat{op: op}
		for _, a := range attempts {
			if a.Op != op {
				continue
			}
			s.count++
			if a.Correct {
				s.correct++
			}
		}
		if s.count > 0 {
			out = append(out, s)
		}
	}
	return out
}

// recentMistakes returns up to n wrong attempts, most recent first.
func recentMistakes(attempts []tracker.Attempt, n int) []tracker.Attempt {
	var out []tracker.Attempt
	for i := len(attempts) - 1; i >= 0 && len(out) < n; i-- {
		if !attempts[i].Correct {
			out = append(out, attempts[i])
		}
	}
	return out
}
