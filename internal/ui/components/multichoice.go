package components

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/ui/theme"
)

// Choice is one selectable option. Swatch, when set, is drawn next to the
// label.
type Choice struct {
	Label  string
	Swatch color.Color
}

// MultiChoice is a multiple-choice selector. Options are picked with the
// arrow keys and Enter, or directly with their number key.
type MultiChoice struct {
	Choices      []Choice
	Selected     int
	Submitted    bool
	ChosenIndex  int
	CorrectIndex int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(choices []Choice) MultiChoice {
	return MultiChoice{
		Choices:      choices,
		ChosenIndex:  -1,
		CorrectIndex: -1,
	}
}

// Labels builds plain choices from strings.
func Labels(labels ...string) []Choice {
	out := make([]Choice, len(labels))
	for i, l := range labels {
		out[i] = Choice{Label: l}
	}
	return out
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. After it returns with
// Submitted set, ChosenIndex holds the pick.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k", "left", "h":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j", "right", "l":
		if m.Selected < len(m.Choices)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Choices) > 0 {
			m.Submitted = true
			m.ChosenIndex = m.Selected
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.Choices) {
				m.Selected = i
				m.Submitted = true
				m.ChosenIndex = i
			}
		}
	}

	return m, nil
}

// Reveal marks the correct option for feedback coloring.
func (m *MultiChoice) Reveal(correctIndex int) {
	m.CorrectIndex = correctIndex
}

// Reset clears the submission and loads new choices, keeping the cursor
// in range.
func (m *MultiChoice) Reset(choices []Choice) {
	m.Choices = choices
	m.Submitted = false
	m.ChosenIndex = -1
	m.CorrectIndex = -1
	if m.Selected >= len(choices) {
		m.Selected = 0
	}
}

// View renders the options one per line.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, c := range m.Choices {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		swatch := ""
		if c.Swatch != nil {
			swatch = lipgloss.NewStyle().Background(c.Swatch).Render("  ") + " "
		}
		line := fmt.Sprintf("%s%d)  ", prefix, i+1)

		var style lipgloss.Style
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case m.Submitted && i == m.ChosenIndex:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line) + swatch + style.Render(c.Label) + "\n")
	}
	return b.String()
}

// IsCorrect returns true if the user chose the revealed correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
