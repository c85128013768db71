// Package history lists past sessions with their per-exercise results and
// the user's personal bests.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/screen"
	"github.com/abhisek/braingym/internal/store"
	"github.com/abhisek/braingym/internal/timer"
	"github.com/abhisek/braingym/internal/ui/layout"
	"github.com/abhisek/braingym/internal/ui/theme"
)

// Limit is the number of sessions listed.
const Limit = 50

type loadedMsg struct {
	sessions []store.SessionRecord
	err      error
}

// Screen shows recent sessions; Enter expands one into its results.
type Screen struct {
	repo     store.EventRepo
	sessions []store.SessionRecord
	bests    Bests
	cursor   int
	open     map[string]bool
	loaded   bool
	err      error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

func New(repo store.EventRepo) *Screen {
	return &Screen{repo: repo, open: map[string]bool{}}
}

func (s *Screen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		sessions, err := repo.RecentSessions(context.Background(), store.QueryOpts{Limit: Limit})
		return loadedMsg{sessions: sessions, err: err}
	}
}

func (s *Screen) Title() string { return "History" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Results"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		s.sessions = msg.sessions
		s.bests = PersonalBests(msg.sessions)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = max(min(s.cursor+1, len(s.sessions)-1), 0)
		case "enter":
			if s.cursor < len(s.sessions) {
				id := s.sessions[s.cursor].SessionID
				s.open[id] = !s.open[id]
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	note := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render("\n\n" + text)
	}
	switch {
	case s.err != nil:
		return note(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.err.Error())
	case !s.loaded:
		return note(theme.Hint, "Loading history...")
	case len(s.sessions) == 0:
		return note(theme.Hint.Italic(true), "No sessions yet. Start training!")
	}

	var b strings.Builder
	b.WriteString("\n")
	if line := s.bests.String(); line != "" {
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Accent).Render(line), width))
		b.WriteString("\n\n")
	}
	for i, rec := range s.sessions {
		b.WriteString(layout.Center(s.sessionLine(i, rec), width))
		b.WriteString("\n")
		if s.open[rec.SessionID] {
			b.WriteString(renderResults(rec.Results, width))
		}
	}
	return b.String()
}

func (s *Screen) sessionLine(i int, rec store.SessionRecord) string {
	marker, style := "  ", lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.cursor {
		marker, style = "▸ ", style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(fmt.Sprintf("%s%s  %-9s  %d/%d exercises  score %d",
		marker,
		rec.StartedAt.Local().Format("Jan 02, 2006 15:04"),
		rec.StatusLabel(),
		len(rec.Results), rec.Planned,
		rec.TotalScore))
}

func renderResults(results []store.ResultEvent, width int) string {
	dim := theme.Hint
	if len(results) == 0 {
		return layout.Center(dim.Italic(true).Render("No results recorded"), width) + "\n"
	}
	var b strings.Builder
	for _, r := range results {
		line := fmt.Sprintf("%-16s %-16s score %d", exercise.Kind(r.ExerciseType).Label(), ResultDetail(r), r.Score)
		b.WriteString(layout.Center(dim.Render(line), width))
		b.WriteString("\n")
	}
	return b.String()
}

// ResultDetail is "time MM:SS" for exercises scored on time and
// "correct/total correct" for the rest.
func ResultDetail(r store.ResultEvent) string {
	if exercise.Kind(r.ExerciseType).Timed() {
		return "time " + timer.Format(int(r.TimeSeconds))
	}
	return fmt.Sprintf("%d/%d correct", r.CorrectAnswers, r.TotalQuestions)
}

// Bests holds personal records across sessions. Zero fields have no record.
type Bests struct {
	Completed int
	TopScore  int
	// Fastest timed exercise, in seconds, keyed by kind.
	Fastest map[exercise.Kind]int
}

// PersonalBests scans sessions for completed runs, the highest session
// score and the fastest counting and reading times.
func PersonalBests(sessions []store.SessionRecord) Bests {
	b := Bests{Fastest: map[exercise.Kind]int{}}
	for _, rec := range sessions {
		if rec.Status == store.ActionEnd {
			b.Completed++
		}
		b.TopScore = max(b.TopScore, rec.TotalScore)
		for _, r := range rec.Results {
			kind := exercise.Kind(r.ExerciseType)
			secs := int(r.TimeSeconds)
			if !kind.Timed() || secs <= 0 {
				continue
			}
			if cur, ok := b.Fastest[kind]; !ok || secs < cur {
				b.Fastest[kind] = secs
			}
		}
	}
	return b
}

func (b Bests) String() string {
	var parts []string
	if b.Completed > 0 {
		parts = append(parts, fmt.Sprintf("%d completed", b.Completed))
	}
	if b.TopScore > 0 {
		parts = append(parts, fmt.Sprintf("best score %d", b.TopScore))
	}
	for _, kind := range exercise.Order {
		if secs, ok := b.Fastest[kind]; ok {
			parts = append(parts, fmt.Sprintf("fastest %s %s", strings.ToLower(kind.Label()), timer.Format(secs)))
		}
	}
	return strings.Join(parts, " · ")
}
