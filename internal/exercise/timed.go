package exercise

import (
	"errors"
	"strings"
	"time"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/timer"
)

// CountingTarget is the number the user counts aloud to.
const CountingTarget = 120

// stopwatch is the ready → active → finished flow shared by the exercises
// that are scored on elapsed time alone.
type stopwatch struct {
	base
	timer *timer.Timer
}

func newStopwatch(kind Kind, opts Options) stopwatch {
	s := stopwatch{base: newBase(kind, opts)}
	s.timer = timer.New(0, timer.CountUp, nil, s.timerOpts()...)
	s.timers = []*timer.Timer{s.timer}
	return s
}

// Start begins timing.
func (s *stopwatch) Start() bool {
	if s.phase != PhaseReady {
		return false
	}
	s.phase = PhaseActive
	s.startTimer(s.timer)
	return true
}

func (s *stopwatch) Advance(now time.Time) {
	s.advanceTimers(now)
}

// Timer exposes the count-up clock for display.
func (s *stopwatch) Timer() *timer.Timer { return s.timer }

func (s *stopwatch) Progress() float64 {
	if s.phase == PhaseFinished {
		return 1
	}
	return 0
}

// Counting times the user counting aloud from 1 to CountingTarget.
type Counting struct {
	stopwatch
}

var _ Controller = (*Counting)(nil)

// NewCounting creates a counting controller in the loading phase.
func NewCounting(opts Options) *Counting {
	return &Counting{stopwatch: newStopwatch(KindCounting, opts)}
}

// Apply accepts the (content-free) delivery and waits for Start.
func (c *Counting) Apply(d Delivery) bool {
	if !c.accept(d) {
		return false
	}
	if d.Err != nil {
		c.fail(d.Err)
		return true
	}
	c.phase = PhaseReady
	return true
}

// Done stops the clock and finishes.
func (c *Counting) Done() bool {
	if c.phase != PhaseActive {
		return false
	}
	c.advanceTimers(c.clock.Now())
	c.finish(Result{
		ElapsedSeconds: c.timer.Seconds(),
		Details:        map[string]any{"target": CountingTarget},
	})
	return true
}

// Reading times the user reading a passage aloud.
type Reading struct {
	stopwatch
	text content.ReadingText
}

var _ Controller = (*Reading)(nil)

// NewReading creates a reading controller in the loading phase.
func NewReading(opts Options) *Reading {
	return &Reading{stopwatch: newStopwatch(KindReading, opts)}
}

func (r *Reading) Apply(d Delivery) bool {
	if !r.accept(d) {
		return false
	}
	if d.Err != nil {
		r.fail(d.Err)
		return true
	}
	text, ok := d.Payload.(*content.ReadingText)
	if !ok || text == nil {
		r.fail(&content.FetchError{Kind: string(r.kind), Err: errors.New("unexpected payload")})
		return true
	}
	if strings.TrimSpace(text.Content) == "" {
		r.finishEmpty("empty passage")
		return true
	}
	r.text = *text
	r.phase = PhaseReady
	return true
}

// Text returns the passage.
func (r *Reading) Text() content.ReadingText { return r.text }

// Done stops the clock and finishes.
func (r *Reading) Done() bool {
	if r.phase != PhaseActive {
		return false
	}
	r.advanceTimers(r.clock.Now())
	secs := r.timer.Seconds()
	words := r.text.Words()
	details := map[string]any{
		"completed":  true,
		"word_count": words,
	}
	if secs > 0 {
		details["words_per_minute"] = words * 60 / secs
	}
	r.finish(Result{ElapsedSeconds: secs, Details: details})
	return true
}
