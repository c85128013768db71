// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/logging"
	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/screen"
	"github.com/abhisek/braingym/internal/screens/home"
	"github.com/abhisek/braingym/internal/screens/training"
	"github.com/abhisek/braingym/internal/ui/layout"
)

// Options holds the dependencies injected by the CLI.
type Options struct {
	Training training.Config
	// Start, when set, opens a session at this exercise instead of the
	// home screen. Leaving it returns to home.
	Start exercise.Kind
	// StartSession opens a full session on launch.
	StartSession bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	launch tea.Cmd
	width  int
	height int
}

// newAppModel creates the root model with the home screen at the bottom of
// the stack.
func newAppModel(opts Options) AppModel {
	m := AppModel{
		router: router.New(home.New(opts.Training)),
	}
	if opts.StartSession || opts.Start != "" {
		cfg := opts.Training
		cfg.Start = opts.Start
		m.launch = func() tea.Msg {
			return router.PushScreenMsg{Screen: training.New(cfg)}
		}
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.launch)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Sequence(m.router.Unwind(), tea.Quit)
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	logger := logging.OrDiscard(opts.Training.Logger)
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
