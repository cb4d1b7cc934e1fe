package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/coach"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/router"
	"github.com/abhisek/mathpace/internal/screen"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/tracker"
	"github.com/abhisek/mathpace/internal/ui/layout"
	"github.com/abhisek/mathpace/internal/ui/theme"
)

// advicePollInterval is how often the screen checks for coach advice.
const advicePollInterval = 200 * time.Millisecond

type advicePollMsg struct{}

// SummaryScreen displays the session summary and, once ready, the
// coach's advice.
type SummaryScreen struct {
	summary *session.Summary
	tr      *feedback.Translator
	coach   *coach.Service
	input   coach.Input
	advice  *coach.Advice
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. svc may be nil, in which case the
// rule-based advice is shown straight away.
func New(sum *session.Summary, attempts []tracker.Attempt, tr *feedback.Translator, svc *coach.Service) *SummaryScreen {
	s := &SummaryScreen{
		summary: sum,
		tr:      tr,
		coach:   svc,
		input:   coach.Input{Summary: sum, Attempts: attempts, Lang: tr.Lang()},
	}
	if svc == nil {
		s.advice = coach.Fallback(s.input, tr)
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	if s.coach == nil {
		return nil
	}
	s.coach.RequestAdvice(context.Background(), s.input)
	return pollAdvice()
}

func pollAdvice() tea.Cmd {
	return tea.Tick(advicePollInterval, func(time.Time) tea.Msg { return advicePollMsg{} })
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "New session"},
		{Key: "Q", Description: "Quit"},
	}
}

// Advice returns the advice shown, or nil while it is loading.
func (s *SummaryScreen) Advice() *coach.Advice {
	return s.advice
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advicePollMsg:
		if s.advice != nil || s.coach == nil {
			return s, nil
		}
		if advice, ok := s.coach.ConsumeAdvice(); ok {
			s.advice = advice
			return s, nil
		}
		return s, pollAdvice()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "q", "Q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}
	divider := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60))))
	section := func(b *strings.Builder, title string) {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), title))
		b.WriteString("\n")
		b.WriteString(divider)
		b.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), s.tr.Headline(sum.Recommendation)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s   Duration: %d:%02d", sum.Learner, mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), fmt.Sprintf(
		"Answered: %d/%d      Correct: %d      Accuracy: %.0f%%      Avg: %.1fs      Best streak: %d",
		sum.Answered, sum.Planned, sum.Correct, sum.Accuracy*100, sum.AverageTime.Seconds(), sum.BestStreak)))
	b.WriteString("\n")

	if len(sum.Breakdown) > 0 {
		section(&b, "By level")
		for _, ls := range sum.Breakdown {
			line := fmt.Sprintf("%-8s %d/%d correct   %.0f%%   %.1fs avg",
				s.tr.LevelName(ls.Level), ls.Correct, ls.Count, ls.Accuracy*100, ls.AverageTime.Seconds())
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.LevelColor(int(ls.Level))), line))
			b.WriteString("\n")
		}
	}

	if len(sum.Transitions) > 0 {
		section(&b, "Level changes")
		for _, d := range sum.Transitions {
			style := lipgloss.NewStyle().Foreground(theme.Success)
			arrow := "▲"
			if d.Kind == adaptive.Decrease {
				style = style.Foreground(theme.Accent)
				arrow = "▼"
			}
			line := fmt.Sprintf("%s %s → %s   %s",
				arrow, s.tr.LevelName(d.From), s.tr.LevelName(d.To), d.Reason)
			if d.Clamped {
				style = style.Foreground(theme.TextDim)
			}
			b.WriteString(center(style, line))
			b.WriteString("\n")
		}
	}

	section(&b, "Next time")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		s.tr.Recommendation(sum.Recommendation, sum.SuggestedLevel)))
	b.WriteString("\n")

	section(&b, "Coach")
	if s.advice == nil {
		b.WriteString(center(theme.Hint, "Thinking about your session..."))
	} else {
		if s.advice.Headline != "" {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), s.advice.Headline))
			b.WriteString("\n")
		}
		body := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(s.advice.Advice)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	}

	return b.String()
}
