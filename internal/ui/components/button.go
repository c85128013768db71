package components

import "github.com/abhisek/braingym/internal/ui/theme"

// Button draws an action label. Key handling stays with the owning screen.
type Button struct {
	Label string
	// Active buttons are filled; inactive ones are outlined.
	Active bool
}

func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

func (b Button) View() string {
	style := theme.ButtonInactive
	if b.Active {
		style = theme.ButtonActive
	}
	return style.Render("▸ " + b.Label)
}
