package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type picked string

func item(label, key string, disabled bool) MenuItem {
	return MenuItem{
		Label:    label,
		Key:      key,
		Disabled: disabled,
		Action:   func() tea.Cmd { return func() tea.Msg { return picked(label) } },
	}
}

func TestMenuSkipsDisabledAndWraps(t *testing.T) {
	m := NewMenu([]MenuItem{item("a", "", true), item("b", "", false), item("c", "", true), item("d", "", false)})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	steps := []struct {
		code tea.KeyPressMsg
		want int
	}{
		{tea.KeyPressMsg{Code: tea.KeyDown}, 3},
		{tea.KeyPressMsg{Code: tea.KeyDown}, 1},
		{tea.KeyPressMsg{Code: tea.KeyUp}, 3},
		{tea.KeyPressMsg{Code: 'k', Text: "k"}, 1},
	}
	for i, st := range steps {
		m, _ = m.Update(st.code)
		if m.Selected != st.want {
			t.Errorf("step %d: selected = %d, want %d", i, m.Selected, st.want)
		}
	}
}

func TestMenuEnterAndHotkeys(t *testing.T) {
	m := NewMenu([]MenuItem{item("start", "s", false), item("history", "h", true), item("quit", "q", false)})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || cmd() != picked("start") {
		t.Error("enter should activate the selected item")
	}

	m, cmd = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil || cmd() != picked("quit") {
		t.Error("hotkey q should activate quit")
	}
	if m.Selected != 2 {
		t.Errorf("selected = %d, want 2 after hotkey", m.Selected)
	}

	if _, cmd = m.Update(tea.KeyPressMsg{Code: 'h', Text: "h"}); cmd != nil {
		t.Error("disabled item must not activate by hotkey")
	}
}

func TestMenuAllDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{item("a", "", true)})
	if m.Selected != 0 {
		t.Errorf("selected = %d, want 0", m.Selected)
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("disabled item activated")
	}
}
