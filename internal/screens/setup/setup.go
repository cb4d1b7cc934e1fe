// Package setup is the screen where the learner picks a name, a starting
// level and a session length.
package setup

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/router"
	"github.com/abhisek/mathpace/internal/screen"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/ui/components"
	"github.com/abhisek/mathpace/internal/ui/layout"
	"github.com/abhisek/mathpace/internal/ui/theme"
)

// Choice is what the learner picked.
type Choice struct {
	Learner string
	Level   difficulty.Level
	Puzzles int
}

// StartFunc builds the play screen for a choice.
type StartFunc func(Choice) (screen.Screen, error)

type field int

const (
	fieldName field = iota
	fieldLevel
	fieldPuzzles
	fieldCount
)

// SetupScreen collects a Choice and pushes the play screen.
type SetupScreen struct {
	tr    *feedback.Translator
	start StartFunc

	name    components.TextInput
	levels  components.Menu
	puzzles components.TextInput
	focus   field
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen prefilled with defaults.
func New(defaults Choice, tr *feedback.Translator, start StartFunc) *SetupScreen {
	name := components.NewTextInput("Your name", components.AnyText, 24)
	name.Model.SetValue(defaults.Learner)

	var items []components.MenuItem
	table := difficulty.DefaultTable()
	for _, l := range difficulty.Levels() {
		spec, _ := table.Spec(l)
		items = append(items, components.MenuItem{
			Label:  tr.LevelName(l),
			Detail: spec.Description,
			Color:  theme.LevelColor(int(l)),
		})
	}
	levels := components.NewMenu(items)
	if defaults.Level.Valid() {
		levels.Selected = int(defaults.Level) - 1
	}

	puzzles := components.NewTextInput("10", components.Digits, 2)
	if defaults.Puzzles > 0 {
		puzzles.Model.SetValue(strconv.Itoa(defaults.Puzzles))
	}
	puzzles.Model.Blur()

	return &SetupScreen{
		tr:      tr,
		start:   start,
		name:    name,
		levels:  levels,
		puzzles: puzzles,
	}
}

// Init focuses the current field. It runs again when the learner comes
// back from the summary.
func (s *SetupScreen) Init() tea.Cmd {
	return tea.Batch(s.name.Init(), s.setFocus(s.focus))
}

func (s *SetupScreen) Title() string {
	return "New Session"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Continue"},
	}
	if s.focus == fieldLevel {
		hints = append([]layout.KeyHint{{Key: "↑↓", Description: "Level"}}, hints...)
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Level returns the highlighted level.
func (s *SetupScreen) Level() difficulty.Level {
	return difficulty.Level(s.levels.Selected + 1)
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, s.forward(msg)
	}

	switch kmsg.String() {
	case "tab", "down":
		if kmsg.String() == "down" && s.focus == fieldLevel {
			break
		}
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		if kmsg.String() == "up" && s.focus == fieldLevel {
			break
		}
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if s.focus < fieldPuzzles {
			return s, s.setFocus(s.focus + 1)
		}
		return s, s.submit()
	}
	return s, s.forward(msg)
}

func (s *SetupScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldLevel:
		s.levels, cmd = s.levels.Update(msg)
	case fieldPuzzles:
		s.puzzles, cmd = s.puzzles.Update(msg)
	}
	return cmd
}

func (s *SetupScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.name.Model.Blur()
	s.puzzles.Model.Blur()
	switch f {
	case fieldName:
		return s.name.Model.Focus()
	case fieldPuzzles:
		return s.puzzles.Model.Focus()
	}
	return nil
}

// Choice validates the form.
func (s *SetupScreen) Choice() (Choice, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s.puzzles.Value()))
	if err != nil || n < session.MinPuzzles || n > session.MaxPuzzles {
		return Choice{}, fmt.Errorf("choose between %d and %d puzzles", session.MinPuzzles, session.MaxPuzzles)
	}
	return Choice{
		Learner: strings.TrimSpace(s.name.Value()),
		Level:   s.Level(),
		Puzzles: n,
	}, nil
}

func (s *SetupScreen) submit() tea.Cmd {
	c, err := s.Choice()
	if err != nil {
		s.errMsg = err.Error()
		s.puzzles.Mark(false)
		return nil
	}
	play, err := s.start(c)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	return func() tea.Msg { return router.PushScreenMsg{Screen: play} }
}

func (s *SetupScreen) View(width, height int) string {
	label := func(f field, text string) string {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if s.focus == f {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		return style.Render(text)
	}

	var b strings.Builder
	b.WriteString(label(fieldName, "Name"))
	b.WriteString("\n")
	b.WriteString(s.name.View())
	b.WriteString("\n\n")

	b.WriteString(label(fieldLevel, "Starting level"))
	b.WriteString("\n")
	b.WriteString(s.levels.View())
	b.WriteString("\n")

	b.WriteString(label(fieldPuzzles, fmt.Sprintf("Puzzles (%d-%d)", session.MinPuzzles, session.MaxPuzzles)))
	b.WriteString("\n")
	b.WriteString(s.puzzles.View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	card := theme.Card.Width(min(width-4, 50)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
