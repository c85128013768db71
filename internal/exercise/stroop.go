package exercise

import (
	"errors"
	"strings"
	"time"

	"github.com/abhisek/braingym/internal/answer"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/timer"
)

// Color is one answer choice in the stroop palette.
type Color struct {
	Name string
	Hex  string
}

// Stroop asks for the display color of a color word. The correct answer is
// always the item's CorrectAnswer, never the literal word.
type Stroop struct {
	base
	items   []content.StroopItem
	palette []Color
	dropped int
	quiz    quiz
	timer   *timer.Timer
	delay   time.Duration
}

var _ Controller = (*Stroop)(nil)

// NewStroop creates a stroop controller in the loading phase.
func NewStroop(opts Options) *Stroop {
	delay := opts.FeedbackDelay
	if delay <= 0 {
		delay = StroopFeedback
	}
	return &Stroop{base: newBase(KindStroop, opts), delay: delay}
}

// wellFormed reports whether the item actually tests interference.
func wellFormed(it content.StroopItem) bool {
	word := strings.TrimSpace(it.Word)
	ans := strings.TrimSpace(it.CorrectAnswer)
	return word != "" && ans != "" && !strings.EqualFold(word, ans)
}

func (s *Stroop) Apply(d Delivery) bool {
	if !s.accept(d) {
		return false
	}
	if d.Err != nil {
		s.fail(d.Err)
		return true
	}
	set, ok := d.Payload.(*content.StroopSet)
	if !ok || set == nil {
		s.fail(&content.FetchError{Kind: string(s.kind), Err: errors.New("unexpected payload")})
		return true
	}

	s.items, s.dropped = nil, 0
	for _, it := range set.Items {
		if !wellFormed(it) {
			s.dropped++
			continue
		}
		s.items = append(s.items, it)
	}
	if len(s.items) == 0 {
		s.finishEmpty("no well-formed items")
		return true
	}
	s.palette = buildPalette(s.items)

	limit := set.TimeLimitSeconds
	if limit <= 0 {
		limit = content.DefaultTimeLimitSeconds
	}
	s.quiz = newQuiz(len(s.items), s.delay)
	s.timer = timer.New(limit, timer.Countdown, s.complete, s.timerOpts()...)
	s.timers = []*timer.Timer{s.timer}
	s.phase = PhaseActive
	s.startTimer(s.timer)
	return true
}

// buildPalette collects the distinct color names in first-seen order. Answer
// names carry the hex code they were displayed with; names that only appear
// as words have none.
func buildPalette(items []content.StroopItem) []Color {
	var out []Color
	index := map[string]int{}
	add := func(name, hex string) {
		key := answer.Normalize(name)
		if i, ok := index[key]; ok {
			if out[i].Hex == "" {
				out[i].Hex = hex
			}
			return
		}
		index[key] = len(out)
		out = append(out, Color{Name: key, Hex: hex})
	}
	for _, it := range items {
		add(it.CorrectAnswer, it.DisplayColor)
	}
	for _, it := range items {
		add(it.Word, "")
	}
	return out
}

// Palette returns the answer choices.
func (s *Stroop) Palette() []Color { return s.palette }

// Current returns the item on screen.
func (s *Stroop) Current() (content.StroopItem, bool) {
	if s.quiz.done() || len(s.items) == 0 {
		return content.StroopItem{}, false
	}
	return s.items[s.quiz.index], true
}

// Answer scores a color name against the current item.
func (s *Stroop) Answer(name string) (answer.Attempt, bool) {
	if s.phase != PhaseActive {
		return answer.Attempt{}, false
	}
	it, ok := s.Current()
	if !ok {
		return answer.Attempt{}, false
	}
	att := answer.CheckText(it.CorrectAnswer, name)
	if !s.quiz.submit(att, s.clock.Now()) {
		return answer.Attempt{}, false
	}
	s.phase = PhaseFeedback
	s.wake(s.delay)
	return att, true
}

// Choose answers with the palette entry at index.
func (s *Stroop) Choose(index int) (answer.Attempt, bool) {
	if index < 0 || index >= len(s.palette) {
		return answer.Attempt{}, false
	}
	return s.Answer(s.palette[index].Name)
}

// LastAttempt returns the most recent scored answer.
func (s *Stroop) LastAttempt() (answer.Attempt, bool) { return s.quiz.last() }

func (s *Stroop) Advance(now time.Time) {
	s.advanceTimers(now)
	if s.phase != PhaseFeedback {
		return
	}
	if !s.quiz.settle(now) {
		// Woken early: ask again for the rest of the window.
		if d := s.quiz.remaining(now); d > 0 {
			s.wake(d)
		}
		return
	}
	if s.quiz.done() {
		s.complete()
		return
	}
	s.phase = PhaseActive
}

// Timer exposes the countdown for display.
func (s *Stroop) Timer() *timer.Timer { return s.timer }

// Position returns the 1-based index of the current item and the total.
func (s *Stroop) Position() (int, int) {
	return min(s.quiz.index+1, s.quiz.total), s.quiz.total
}

// Correct returns the number of correct answers so far.
func (s *Stroop) Correct() int { return s.quiz.correct }

func (s *Stroop) Progress() float64 { return s.quiz.progress() }

func (s *Stroop) complete() {
	elapsed := 0
	if s.timer != nil {
		elapsed = s.timer.Elapsed()
	}
	s.finish(Result{
		Score:          s.quiz.correct,
		ElapsedSeconds: elapsed,
		CorrectCount:   s.quiz.correct,
		TotalItems:     len(s.items),
		Details: map[string]any{
			"answered": s.quiz.answered(),
			"dropped":  s.dropped,
		},
	})
}
