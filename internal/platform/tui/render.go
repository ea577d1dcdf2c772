package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorGround:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorEdge:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorObstacle:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorPlayer:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorFlash:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorBoosted:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorShield:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorCoin:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorTitle:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorAccent:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorText:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorSelected:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorTier:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorAffordable: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorLocked:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorMuted:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
