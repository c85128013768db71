package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/ui/theme"
)

// ProgressBar is a thin horizontal gauge drawn with line glyphs.
type ProgressBar struct {
	Percent     float64
	Width       int
	ShowPercent bool
	Fill        color.Color
}

// NewProgressBar creates a bar in the secondary color with a percentage.
func NewProgressBar(percent float64, width int) ProgressBar {
	return ProgressBar{Percent: percent, Width: width, ShowPercent: true, Fill: theme.Secondary}
}

// Filled returns how many of the bar's cells are filled.
func (p ProgressBar) Filled() int {
	cells := p.cells()
	n := int(float64(cells) * p.Percent)
	return max(0, min(n, cells))
}

func (p ProgressBar) cells() int {
	w := p.Width
	if p.ShowPercent {
		w -= 6
	}
	return max(w, 4)
}

func (p ProgressBar) View() string {
	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	filled := p.Filled()
	out := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", p.cells()-filled))
	if p.ShowPercent {
		pct := max(0, min(int(p.Percent*100), 100))
		out += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %4d%%", pct))
	}
	return out
}

// StepTrack renders one marker per session step: finished steps are filled,
// the current one is highlighted and the rest are hollow. current is 1-based.
func StepTrack(current, total int) string {
	var b strings.Builder
	for i := 1; i <= total; i++ {
		switch {
		case i < current:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("●"))
		case i == current:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("◉"))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("○"))
		}
		if i < total {
			b.WriteString(" ")
		}
	}
	return b.String()
}
