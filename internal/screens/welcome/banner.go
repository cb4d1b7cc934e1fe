package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/ui/theme"
)

var bannerLines = []string{
	"█▀▄▀█ ▄▀█ ▀█▀ █ █ █▀█ ▄▀█ █▀▀ █▀▀",
	"█ ▀ █ █▀█  █  █▀█ █▀▀ █▀█ █▄▄ ██▄",
}

const bannerCompact = "MATHPACE"

// RenderBanner draws the logo as bands in the level colors, easy on the
// left and expert on the right. Terminals narrower than 40 columns get
// the compact word instead.
func RenderBanner(width int) string {
	if width < 40 {
		return paintBands(bannerCompact)
	}
	out := make([]string, len(bannerLines))
	for i, line := range bannerLines {
		out[i] = paintBands(line)
	}
	return strings.Join(out, "\n")
}

// paintBands splits s into one equal band per level.
func paintBands(s string) string {
	runes := []rune(s)
	levels := difficulty.Levels()
	band := (len(runes) + len(levels) - 1) / len(levels)

	var b strings.Builder
	for i, l := range levels {
		lo := i * band
		if lo >= len(runes) {
			break
		}
		hi := min(lo+band, len(runes))
		style := lipgloss.NewStyle().Foreground(theme.LevelColor(int(l))).Bold(true)
		b.WriteString(style.Render(string(runes[lo:hi])))
	}
	return b.String()
}
