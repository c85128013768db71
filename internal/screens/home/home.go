package home

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/screen"
	"github.com/abhisek/braingym/internal/screens/history"
	"github.com/abhisek/braingym/internal/screens/training"
	"github.com/abhisek/braingym/internal/store"
	"github.com/abhisek/braingym/internal/ui/components"
	"github.com/abhisek/braingym/internal/ui/layout"
	"github.com/abhisek/braingym/internal/ui/theme"
)

type lastSessionMsg struct {
	Session *store.SessionRecord
}

// HomeScreen is the main menu: start a full session, start at a given
// exercise, or browse history.
type HomeScreen struct {
	cfg  training.Config
	menu components.Menu
	last *store.SessionRecord
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a new HomeScreen. Sessions started from it use cfg.
func New(cfg training.Config) *HomeScreen {
	h := &HomeScreen{cfg: cfg}

	items := []components.MenuItem{
		{Label: "Full Session", Key: "s", Detail: fmt.Sprintf("%d exercises", len(exercise.Order)), Action: h.start("")},
	}
	for i, k := range exercise.Order {
		items = append(items, components.MenuItem{
			Label:  k.Label(),
			Key:    strconv.Itoa(i + 1),
			Detail: "start here",
			Action: h.start(k),
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "History",
			Key:      "h",
			Disabled: cfg.Repo == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(cfg.Repo)}
				}
			},
		},
		components.MenuItem{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

// start returns the menu action that opens a session at kind.
func (h *HomeScreen) start(kind exercise.Kind) func() tea.Cmd {
	return func() tea.Cmd {
		cfg := h.cfg
		cfg.Start = kind
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: training.New(cfg)}
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	repo := h.cfg.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		recs, err := repo.RecentSessions(context.Background(), store.QueryOpts{Limit: 1})
		if err != nil || len(recs) == 0 {
			return lastSessionMsg{}
		}
		return lastSessionMsg{Session: &recs[0]}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(lastSessionMsg); ok {
		h.last = m.Session
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(width).Render("BrainGym"))
	if !compact {
		sections = append(sections, theme.Subtitle.Width(width).Render("Five short exercises for focus, speed and memory"))
	}

	menu := theme.Card.Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, layout.Center(menu, width))

	if h.last != nil {
		sections = append(sections, theme.Hint.Width(width).Align(lipgloss.Center).Render(lastLine(*h.last)))
	}

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	content := strings.Join(sections, sep)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func lastLine(rec store.SessionRecord) string {
	return fmt.Sprintf("Last session %s: %d of %d exercises, score %d",
		rec.StartedAt.Local().Format("Jan 02 15:04"), len(rec.Results), rec.Planned, rec.TotalScore)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-5", Description: "Start at exercise"},
	}
}
