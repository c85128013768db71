package exercise

import (
	"errors"
	"strings"
	"time"

	"github.com/abhisek/braingym/internal/answer"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/timer"
)

// Memory shows a word list for a memorize window, then collects recalled
// words until the recall window closes or the user finishes.
type Memory struct {
	base
	words    []string
	known    map[string]bool
	entered  []string
	seen     map[string]bool
	memorize *timer.Timer
	recall   *timer.Timer
}

var _ Controller = (*Memory)(nil)

// NewMemory creates a memory controller in the loading phase.
func NewMemory(opts Options) *Memory {
	return &Memory{
		base:  newBase(KindMemory, opts),
		known: map[string]bool{},
		seen:  map[string]bool{},
	}
}

func (m *Memory) Apply(d Delivery) bool {
	if !m.accept(d) {
		return false
	}
	if d.Err != nil {
		m.fail(d.Err)
		return true
	}
	set, ok := d.Payload.(*content.MemoryWords)
	if !ok || set == nil {
		m.fail(&content.FetchError{Kind: string(m.kind), Err: errors.New("unexpected payload")})
		return true
	}

	m.words, m.known = nil, map[string]bool{}
	for _, w := range set.Words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		m.words = append(m.words, w)
		m.known[answer.Normalize(w)] = true
	}
	if len(m.words) == 0 {
		m.finishEmpty("no words")
		return true
	}

	memorize := set.MemorizeTimeSeconds
	if memorize <= 0 {
		memorize = content.DefaultMemorizeSeconds
	}
	recall := set.RecallTimeSeconds
	if recall <= 0 {
		recall = content.DefaultRecallSeconds
	}
	m.memorize = timer.New(memorize, timer.Countdown, m.beginRecall, m.timerOpts()...)
	m.recall = timer.New(recall, timer.Countdown, m.complete, m.timerOpts()...)
	m.timers = []*timer.Timer{m.memorize, m.recall}
	m.phase = PhaseMemorize
	m.startTimer(m.memorize)
	return true
}

// Remember ends the memorize window early.
func (m *Memory) Remember() bool {
	if m.phase != PhaseMemorize {
		return false
	}
	m.memorize.Stop()
	m.beginRecall()
	return true
}

func (m *Memory) beginRecall() {
	if m.phase != PhaseMemorize {
		return
	}
	m.phase = PhaseRecall
	m.startTimer(m.recall)
}

// Submit records a recalled word. Empty and repeated words are ignored and
// reported as not accepted.
func (m *Memory) Submit(word string) bool {
	if m.phase != PhaseRecall {
		return false
	}
	w := answer.Normalize(word)
	if w == "" || m.seen[w] {
		return false
	}
	m.seen[w] = true
	m.entered = append(m.entered, w)
	return true
}

// Finish ends the recall window.
func (m *Memory) Finish() bool {
	if m.phase != PhaseRecall {
		return false
	}
	m.advanceTimers(m.clock.Now())
	m.complete()
	return true
}

func (m *Memory) Advance(now time.Time) {
	m.advanceTimers(now)
}

// Words returns the list to memorize.
func (m *Memory) Words() []string { return m.words }

// Entered returns the recalled words in entry order, lower-cased.
func (m *Memory) Entered() []string { return m.entered }

// Recalled reports whether w was in the list, ignoring case.
func (m *Memory) Recalled(w string) bool { return m.known[answer.Normalize(w)] }

// Timer returns the countdown for the current window.
func (m *Memory) Timer() *timer.Timer {
	if m.phase == PhaseMemorize {
		return m.memorize
	}
	return m.recall
}

func (m *Memory) Progress() float64 {
	if len(m.words) == 0 {
		return 0
	}
	return float64(len(m.matches())) / float64(len(m.words))
}

func (m *Memory) matches() []string {
	var out []string
	for _, w := range m.entered {
		if m.known[w] {
			out = append(out, w)
		}
	}
	return out
}

func (m *Memory) complete() {
	correct := m.matches()
	recallElapsed, memorizeElapsed := 0, 0
	if m.recall != nil {
		recallElapsed = m.recall.Elapsed()
	}
	if m.memorize != nil {
		memorizeElapsed = m.memorize.Elapsed()
	}
	m.finish(Result{
		Score:          len(correct),
		ElapsedSeconds: recallElapsed,
		CorrectCount:   len(correct),
		TotalItems:     len(m.words),
		Details: map[string]any{
			"entered":          m.entered,
			"recalled":         correct,
			"memorize_seconds": memorizeElapsed,
		},
	})
}
