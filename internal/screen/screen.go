// Package screen defines what the router needs from a screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpace/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	// Init runs each time the screen becomes active.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between the header and the footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show the current level
// and streak in the header.
type StatusProvider interface {
	Status() layout.Status
}

// Closer is called when the router removes a screen from the stack.
type Closer interface {
	Close()
}
