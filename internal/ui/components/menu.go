package components

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/ui/theme"
)

// MenuItem is one choice of a Menu. Color tints the label when set.
type MenuItem struct {
	Label  string
	Detail string
	Color  color.Color
}

// Menu is a vertical single-choice list. Selection wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first item selected.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update moves the selection on up/down and k/j.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j":
		m.Selected = (m.Selected + 1) % len(m.Items)
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := lipgloss.NewStyle().Foreground(theme.Text)
		if item.Color != nil {
			label = label.Foreground(item.Color)
		}

		prefix := "    "
		if i == m.Selected {
			prefix = "  ▸ "
			label = label.Bold(true)
		}
		b.WriteString(label.Render(prefix + item.Label))
		if item.Detail != "" && i == m.Selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
