package training

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/session"
	"github.com/abhisek/braingym/internal/timer"
	"github.com/abhisek/braingym/internal/ui/components"
	"github.com/abhisek/braingym/internal/ui/layout"
	"github.com/abhisek/braingym/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if s.ctrl == nil {
		return dim(width, "\n\n  Preparing session...")
	}

	var body string
	switch {
	case s.waiting:
		body = s.renderTransition(width)
	case s.ctrl.Phase() == exercise.PhaseLoading:
		body = dim(width, "Loading "+strings.ToLower(s.ctrl.Kind().Label())+"...")
	case s.ctrl.Phase() == exercise.PhaseFailed:
		body = s.renderFailed(width)
	default:
		switch c := s.ctrl.(type) {
		case *exercise.Counting:
			body = s.renderCounting(c, width)
		case *exercise.Reading:
			body = s.renderReading(c, width)
		case *exercise.Arithmetic:
			body = s.renderArithmetic(c, width)
		case *exercise.Stroop:
			body = s.renderStroop(c, width)
		case *exercise.Memory:
			body = s.renderMemory(c, width)
		}
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")
	b.WriteString(body)
	if len(s.notices) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(s.notices[len(s.notices)-1]))
	}
	return b.String()
}

func dim(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(text)
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

// renderInfoLine shows the exercise name and session track on the left and
// the exercise's progress and clock on the right.
func (s *Screen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.ctrl.Kind().Label())
	if pos, total := s.orch.Position(); total > 1 {
		left += "  " + components.StepTrack(pos, total)
	}

	right := ""
	if t := s.activeTimer(); t != nil && !s.waiting {
		right = lipgloss.NewStyle().
			Foreground(theme.TimerColor(t.Seconds(), t.Mode() == timer.Countdown)).
			Bold(true).
			Render(t.Formatted())
	}

	barWidth := width - lipgloss.Width(left) - lipgloss.Width(right) - 10
	if barWidth > 40 {
		barWidth = 40
	}
	bar := ""
	if barWidth >= 10 {
		bar = components.NewProgressBar(s.ctrl.Progress(), barWidth).View()
	}

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(bar) - lipgloss.Width(right) - 6
	if pad > 0 {
		line += strings.Repeat(" ", pad) + bar + "  " + right
	}
	return line
}

func (s *Screen) activeTimer() *timer.Timer {
	switch c := s.ctrl.(type) {
	case *exercise.Counting:
		return c.Timer()
	case *exercise.Reading:
		return c.Timer()
	case *exercise.Arithmetic:
		return c.Timer()
	case *exercise.Stroop:
		return c.Timer()
	case *exercise.Memory:
		return c.Timer()
	}
	return nil
}

func (s *Screen) renderFailed(width int) string {
	var b strings.Builder
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
		"Could not load "+strings.ToLower(s.ctrl.Kind().Label())))
	b.WriteString("\n\n")
	if err := s.ctrl.Err(); err != nil {
		b.WriteString(dim(width, err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(dim(width, "Press R to try again."))
	return b.String()
}

// startButton renders the Start/Done button of the stopwatch exercises.
func (s *Screen) startButton(width int) string {
	label := "Start"
	if s.ctrl.Phase() == exercise.PhaseActive {
		label = "Done"
	}
	return layout.Center(components.NewButton(label, true).View(), width)
}

func (s *Screen) renderCounting(c *exercise.Counting, width int) string {
	var b strings.Builder
	b.WriteString(centered(width, theme.Title, fmt.Sprintf("Count aloud from 1 to %d", exercise.CountingTarget)))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), c.Timer().Formatted()))
	b.WriteString("\n\n")
	if c.Phase() == exercise.PhaseReady {
		b.WriteString(dim(width, "Count as fast as you can while speaking clearly."))
		b.WriteString("\n\n")
	}
	b.WriteString(s.startButton(width))
	return b.String()
}

func (s *Screen) renderReading(c *exercise.Reading, width int) string {
	text := c.Text()
	textWidth := min(width-8, 72)

	var b strings.Builder
	b.WriteString(centered(width, theme.Title, text.Title))
	b.WriteString("\n\n")
	if c.Phase() == exercise.PhaseReady {
		b.WriteString(dim(width, fmt.Sprintf("Read the passage aloud (%d words). The text appears when you start.", text.Words())))
	} else {
		passage := lipgloss.NewStyle().
			Width(textWidth).
			Foreground(theme.Text).
			Render(text.Content)
		b.WriteString(layout.Center(passage, width))
	}
	b.WriteString("\n\n")
	b.WriteString(s.startButton(width))
	return b.String()
}

func (s *Screen) renderArithmetic(c *exercise.Arithmetic, width int) string {
	p, _, ok := c.Current()
	if !ok {
		return ""
	}
	pos, total := c.Position()

	var b strings.Builder
	b.WriteString(dim(width, fmt.Sprintf("Problem %d of %d   Correct: %d", pos, total, c.Correct())))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), p.Expression+" = ?"))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(s.choices.View(), width))
	if att, ok := c.LastAttempt(); ok && c.Phase() == exercise.PhaseFeedback {
		b.WriteString("\n")
		b.WriteString(renderVerdict(width, att.Correct))
	}
	return b.String()
}

func (s *Screen) renderStroop(c *exercise.Stroop, width int) string {
	it, ok := c.Current()
	if !ok {
		return ""
	}
	pos, total := c.Position()

	var b strings.Builder
	b.WriteString(dim(width, fmt.Sprintf("Item %d of %d   Correct: %d", pos, total, c.Correct())))
	b.WriteString("\n\n")
	b.WriteString(dim(width, "Name the COLOR of the word, not the word itself."))
	b.WriteString("\n\n")
	word := lipgloss.NewStyle().
		Foreground(theme.Hex(it.DisplayColor)).
		Bold(true).
		Render(strings.ToUpper(it.Word))
	b.WriteString(layout.Center(word, width))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(s.choices.View(), width))
	if att, ok := c.LastAttempt(); ok && c.Phase() == exercise.PhaseFeedback {
		b.WriteString("\n")
		b.WriteString(renderVerdict(width, att.Correct))
	}
	return b.String()
}

func renderVerdict(width int, correct bool) string {
	if correct {
		return centered(width, theme.Correct, "Correct!")
	}
	return centered(width, theme.Incorrect, "Not quite")
}

func (s *Screen) renderMemory(c *exercise.Memory, width int) string {
	var b strings.Builder
	switch c.Phase() {
	case exercise.PhaseMemorize:
		b.WriteString(centered(width, theme.Title, "Memorize these words"))
		b.WriteString("\n\n")
		b.WriteString(layout.Center(renderWordGrid(c.Words(), nil), width))
	case exercise.PhaseRecall:
		b.WriteString(centered(width, theme.Title, "Type the words you remember"))
		b.WriteString("\n\n")
		b.WriteString(layout.Center("Word: "+s.input.View(), width))
		b.WriteString("\n\n")
		b.WriteString(dim(width, fmt.Sprintf("%d entered", len(c.Entered()))))
		if entered := c.Entered(); len(entered) > 0 {
			b.WriteString("\n\n")
			b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(entered, ", ")), width))
		}
	}
	return b.String()
}

// renderWordGrid lays words out in rows of four. Words for which mark
// returns true are highlighted.
func renderWordGrid(words []string, mark func(string) bool) string {
	const perRow = 4
	cell := lipgloss.NewStyle().Width(16).Foreground(theme.Text)
	hit := cell.Foreground(theme.Success).Bold(true)

	var rows []string
	for i := 0; i < len(words); i += perRow {
		var cells []string
		for _, w := range words[i:min(i+perRow, len(words))] {
			if mark != nil && mark(w) {
				cells = append(cells, hit.Render(w))
			} else {
				cells = append(cells, cell.Render(w))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

// renderTransition shows the result of the exercise that just finished.
func (s *Screen) renderTransition(width int) string {
	if s.last == nil {
		return ""
	}
	res := *s.last
	line := session.BuildSummary(s.orch.ID(), 1, []exercise.Result{res}).Lines[0]

	var b strings.Builder
	b.WriteString(centered(width, theme.Title, res.Kind.Label()+" complete"))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), line.Headline()))

	switch res.Kind {
	case exercise.KindReading:
		if wpm, ok := res.Details["words_per_minute"].(int); ok {
			b.WriteString("\n")
			b.WriteString(dim(width, fmt.Sprintf("%d words per minute", wpm)))
		}
	case exercise.KindMemory:
		if c, ok := s.ctrl.(*exercise.Memory); ok {
			b.WriteString("\n\n")
			b.WriteString(layout.Center(renderWordGrid(c.Words(), func(w string) bool {
				return recalled(c, w)
			}), width))
		}
	}

	b.WriteString("\n\n")
	if s.done {
		b.WriteString(dim(width, "Session complete. Showing results..."))
	} else {
		b.WriteString(dim(width, "Next up: "+s.next.Label()))
	}
	return b.String()
}

// recalled reports whether w was both in the list and entered.
func recalled(c *exercise.Memory, w string) bool {
	for _, e := range c.Entered() {
		if c.Recalled(e) && strings.EqualFold(e, w) {
			return true
		}
	}
	return false
}
