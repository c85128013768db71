package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Key, when set, activates the item
// directly from anywhere in the menu.
type MenuItem struct {
	Label    string
	Detail   string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list that skips disabled items and wraps at the ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	return m
}

// move selects the next enabled item in direction dir, wrapping around.
// Selection is unchanged when every item is disabled.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
	m.Selected = max(m.Selected, 0)
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}
	key := kmsg.String()
	switch key {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == key && !item.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var (
		normal   = lipgloss.NewStyle().Foreground(theme.Text)
		active   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		disabled = lipgloss.NewStyle().Foreground(theme.Border)
		dim      = lipgloss.NewStyle().Foreground(theme.TextDim)
	)
	var b strings.Builder
	for i, item := range m.Items {
		key := "   "
		if item.Key != "" {
			key = "[" + item.Key + "]"
		}
		switch {
		case item.Disabled:
			b.WriteString(disabled.Render("    " + key + " " + item.Label))
		case i == m.Selected:
			b.WriteString(active.Render("  ▸ ") + dim.Render(key) + " " + active.Render(item.Label))
		default:
			b.WriteString("    " + dim.Render(key) + " " + normal.Render(item.Label))
		}
		if item.Detail != "" && !item.Disabled {
			b.WriteString(dim.Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
