// Package results shows the summary of a finished session.
package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/screen"
	"github.com/abhisek/braingym/internal/session"
	"github.com/abhisek/braingym/internal/timer"
	"github.com/abhisek/braingym/internal/ui/layout"
	"github.com/abhisek/braingym/internal/ui/theme"
)

// Screen displays the session summary.
type Screen struct {
	summary session.Summary
	notices []string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a results screen. Notices are shown below the table, e.g.
// results the provider did not accept.
func New(summary session.Summary, notices []string) *Screen {
	return &Screen{summary: summary, notices: notices}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Results"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	title := "Session complete!"
	if sum.Completed < sum.Planned {
		title = fmt.Sprintf("Session ended (%d of %d exercises)", sum.Completed, sum.Planned)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Total score: %d        Time: %s",
		sum.TotalScore, timer.Format(int(sum.Duration.Seconds())))
	if sum.TotalItems > 0 {
		statsLine += fmt.Sprintf("        Accuracy: %.0f%%", sum.Accuracy*100)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Exercises")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, l := range sum.Lines {
		line := fmt.Sprintf("%-16s %-18s score %d", l.Label, l.Headline(), l.Score)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(lineColor(l)).Render(line)))
		b.WriteString("\n")
	}

	if len(s.notices) > 0 {
		b.WriteString("\n")
		for _, n := range s.notices {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Accent).Render(n)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// lineColor highlights strong and weak scored exercises.
func lineColor(l session.Line) color.Color {
	if l.Kind.Timed() || l.TotalItems == 0 {
		return theme.Text
	}
	switch {
	case l.Accuracy >= 0.8:
		return theme.Success
	case l.Accuracy < 0.5:
		return theme.Error
	default:
		return theme.Text
	}
}
