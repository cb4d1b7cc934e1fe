package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/ui/theme"
)

// ProgressBar shows how far a session has come, e.g. "████░░░░  4/10".
type ProgressBar struct {
	Done  int
	Total int
	Width int

	// Fill colors the completed part; nil uses the secondary color.
	Fill color.Color
}

// NewProgressBar creates a bar for done out of total puzzles.
func NewProgressBar(done, total, width int, fill color.Color) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width, Fill: fill}
}

// Filled returns how many cells of barWidth are complete.
func (p ProgressBar) Filled(barWidth int) int {
	if p.Total <= 0 || barWidth <= 0 {
		return 0
	}
	return min(max(barWidth*p.Done/p.Total, 0), barWidth)
}

func (p ProgressBar) View() string {
	counter := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-lipgloss.Width(counter), 4)
	filled := p.Filled(barWidth)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	return lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
}
