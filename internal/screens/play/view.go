package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/ui/components"
	"github.com/abhisek/mathpace/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	if s.phase == phaseConfirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfo(width))
	b.WriteString("\n\n")

	if s.phase == phaseFeedback {
		b.WriteString(s.renderFeedback(width))
	} else {
		b.WriteString(s.renderPuzzle(width))
	}
	return b.String()
}

// renderInfo renders the level, progress bar, streak and timer line.
func (s *PlayScreen) renderInfo(width int) string {
	level := s.sess.Level()
	left := lipgloss.NewStyle().
		Foreground(theme.LevelColor(int(level))).
		Bold(true).
		Render("  " + s.tr.LevelName(level))

	elapsed := s.now().Sub(s.issuedAt)
	if s.phase != phaseAsking || s.issuedAt.IsZero() || elapsed < 0 {
		elapsed = 0
	}
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d/%d  %s %d  %s %ds",
			s.sess.Answered(), s.sess.Total(),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("★"), s.sess.Streak(),
			lipgloss.NewStyle().Foreground(theme.Secondary).Render("T"), int(elapsed.Seconds()),
		))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}

	bar := components.NewProgressBar(s.sess.Answered(), s.sess.Total(), min(width-4, 60), theme.LevelColor(int(level)))

	return line + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *PlayScreen) renderPuzzle(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.current == nil {
		if s.errMsg != "" {
			return center.Foreground(theme.Error).Render("Error: " + s.errMsg)
		}
		return center.Foreground(theme.TextDim).Render("Preparing your puzzle...")
	}

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render(s.current.Text()))
	b.WriteString("\n\n")
	b.WriteString(center.Render("Answer: " + s.input.View()))
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	}
	return b.String()
}

func (s *PlayScreen) renderFeedback(width int) string {
	out := s.outcome
	if out == nil {
		return ""
	}
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var lines []string
	if out.Correct {
		lines = append(lines, center.Inherit(theme.Correct).Render(s.tr.Praise(out.Attempt.Seq)))
		if pace := s.tr.Pace(out.Attempt.TimeTaken); pace != "" {
			lines = append(lines, center.Foreground(theme.Secondary).Render(pace))
		}
	} else {
		lines = append(lines, center.Inherit(theme.Incorrect).Render(s.tr.Encouragement(out.CorrectAnswer)))
	}
	lines = append(lines, center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("%s = %d  (%.1fs)", out.Attempt.Text(), out.CorrectAnswer, out.Attempt.TimeTaken.Seconds())))

	if out.Milestone {
		lines = append(lines, "", center.Inherit(theme.Banner).Render(s.tr.StreakMilestone(out.Streak)))
	}
	if out.Decision != nil {
		if t := s.tr.Transition(*out.Decision); t != "" {
			lines = append(lines, "", center.Inherit(theme.Banner).Render(t))
		}
	}

	hint := "Press any key to continue..."
	if out.Done {
		hint = "Press any key to see your summary..."
	}
	lines = append(lines, "", center.Foreground(theme.TextDim).Render(hint))
	return strings.Join(lines, "\n")
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("You'll still get a summary of what you answered."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}
