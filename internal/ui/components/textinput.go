package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/ui/theme"
)

// TextInput is a single-line entry field. After each Submit it shows a
// tick or a cross for whether the entry was taken.
type TextInput struct {
	Model textinput.Model
	// mark is "", "✓" or "✗".
	mark string
}

// NewTextInput returns a focused field holding at most limit characters;
// limit <= 0 leaves it unbounded.
func NewTextInput(placeholder string, limit int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	if limit > 0 {
		m.CharLimit = limit
	}
	m.Focus()
	return TextInput{Model: m}
}

func (t TextInput) Init() tea.Cmd { return t.Model.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	switch t.mark {
	case "✓":
		return t.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.Success).Render(t.mark)
	case "✗":
		return t.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.Error).Render(t.mark)
	}
	return t.Model.View()
}

func (t TextInput) Value() string { return t.Model.Value() }

// Submit empties the field and records whether the entry was accepted.
func (t *TextInput) Submit(accepted bool) {
	t.mark = "✗"
	if accepted {
		t.mark = "✓"
	}
	t.Model.SetValue("")
}

// Clear empties the field and drops the last mark.
func (t *TextInput) Clear() {
	t.mark = ""
	t.Model.SetValue("")
}
