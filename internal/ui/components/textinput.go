package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/ui/theme"
)

// InputMode restricts which printable keys a TextInput accepts.
type InputMode int

const (
	AnyText InputMode = iota
	Digits
	// SignedDigits also accepts a leading minus sign.
	SignedDigits
)

// TextInput wraps bubbles/textinput with the app styling and an
// optional ✓/✗ mark.
type TextInput struct {
	Model textinput.Model
	Mode  InputMode

	marked bool
	valid  bool
}

// NewTextInput creates a focused input. limit caps the number of
// characters when positive.
func NewTextInput(placeholder string, mode InputMode, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Mode: mode}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// accepts reports whether a single printable key may be typed.
func (t TextInput) accepts(key string) bool {
	if t.Mode == AnyText {
		return true
	}
	if key == "space" {
		return false
	}
	if len(key) != 1 {
		return true
	}
	c := key[0]
	if c >= '0' && c <= '9' {
		return true
	}
	return t.Mode == SignedDigits && c == '-' && t.Model.Value() == ""
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && !t.accepts(kmsg.String()) {
		return t, nil
	}
	t.marked = false

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	if !t.marked {
		return view
	}
	if t.valid {
		return view + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return view + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// Mark shows a ✓ or ✗ after the input until the next edit.
func (t *TextInput) Mark(valid bool) {
	t.marked = true
	t.valid = valid
}

// Clear empties the input and removes any mark.
func (t *TextInput) Clear() {
	t.Model.SetValue("")
	t.marked = false
}
