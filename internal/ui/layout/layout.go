// Package layout renders the frame around the active screen.
package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the right-hand side of the header. A zero Status renders
// nothing.
type Status struct {
	Level  string
	Streak int

	// LevelColor tints the level name; nil uses the secondary color.
	LevelColor color.Color
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Render(fmt.Sprintf(
			"The terminal is too small.\n\nmathpace needs %d x %d, this one is %d x %d.",
			MinWidth, MinHeight, width, height,
		))
}

// bar draws a full-width rounded box, used for the header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// spread places center in the middle of width and pushes right to the
// edge. Every gap is at least one space.
func spread(left, center, right string, width int) string {
	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderStatus renders the level and streak, e.g. "▲ Medium   ★ 3".
func RenderStatus(s Status) string {
	if s.Level == "" {
		return ""
	}
	lc := s.LevelColor
	if lc == nil {
		lc = theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(lc).Bold(true).Render("▲ "+s.Level) +
		"   " +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d", s.Streak))
}

// RenderHeader renders the app name, the screen title and the status.
func RenderHeader(title string, status Status, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  mathpace")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	return bar(spread(name, center, RenderStatus(status), width), width)
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the height between them.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return header + "\n" + body + "\n" + footer
}
