// Package timer implements the restartable countdown and count-up clock that
// paces every exercise.
//
// A Timer does not own a goroutine. Time moves forward only when Advance (or
// Tick) is called, which keeps all state changes on the caller's event loop.
package timer

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Mode selects the direction a Timer counts in.
type Mode int

const (
	// Countdown counts from the initial value down to zero and completes.
	Countdown Mode = iota
	// CountUp counts from zero upward and never completes on its own.
	CountUp
)

func (m Mode) String() string {
	switch m {
	case Countdown:
		return "countdown"
	case CountUp:
		return "count-up"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Clock is the source of wall-clock time.
type Clock interface {
	Now() time.Time
}

// WallClock reads the system clock.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

// TickMsg is delivered once per scheduled second. ID and Gen identify the
// timer and the run the tick was scheduled for.
type TickMsg struct {
	ID  uint64
	Gen uint64
	At  time.Time
}

// State is a read-only view of a Timer.
type State struct {
	Seconds   int
	Running   bool
	Formatted string
	Mode      Mode
}

var nextID atomic.Uint64

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the wall clock, typically with a fake in tests.
func WithClock(c Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.clock = c
		}
	}
}

// Timer is a second-granularity clock with a completion callback.
type Timer struct {
	id         uint64
	mode       Mode
	initial    int
	seconds    int
	elapsed    int
	running    bool
	completed  bool
	onComplete func()
	clock      Clock

	// anchor is the wall time of the last whole second applied.
	anchor time.Time
	// gen increments on every start, stop and reset; ticks from an older
	// generation are ignored.
	gen uint64
}

// New creates a stopped timer. A negative initialSeconds is treated as zero.
// For CountUp the initial value is ignored and the timer starts at zero.
func New(initialSeconds int, mode Mode, onComplete func(), opts ...Option) *Timer {
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	t := &Timer{
		id:         nextID.Add(1),
		mode:       mode,
		initial:    initialSeconds,
		onComplete: onComplete,
		clock:      WallClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.seconds = t.startValue()
	return t
}

func (t *Timer) startValue() int {
	if t.mode == CountUp {
		return 0
	}
	return t.initial
}

// Start begins counting. It returns true only when the timer actually
// transitioned to running. Starting a countdown that already sits at zero
// fires completion (once) instead of running.
func (t *Timer) Start() bool {
	if t.running {
		return false
	}
	if t.mode == Countdown && t.seconds == 0 {
		t.complete()
		return false
	}
	t.running = true
	t.gen++
	t.anchor = t.clock.Now()
	return true
}

// Stop freezes the current value. It returns true only when the timer was
// running.
func (t *Timer) Stop() bool {
	if !t.running {
		return false
	}
	t.running = false
	t.gen++
	return true
}

// Reset stops the timer, restores the initial value and re-arms completion.
func (t *Timer) Reset() {
	t.running = false
	t.completed = false
	t.seconds = t.startValue()
	t.elapsed = 0
	t.gen++
}

// Advance applies one step for every whole second that passed since the last
// applied second. A countdown that reaches zero stops and fires completion.
func (t *Timer) Advance(now time.Time) {
	if !t.running {
		return
	}
	steps := int(now.Sub(t.anchor) / time.Second)
	if steps <= 0 {
		return
	}
	t.anchor = t.anchor.Add(time.Duration(steps) * time.Second)

	if t.mode == CountUp {
		t.seconds += steps
		t.elapsed += steps
		return
	}

	if steps >= t.seconds {
		t.elapsed += t.seconds
		t.seconds = 0
		t.running = false
		t.gen++
		t.complete()
		return
	}
	t.seconds -= steps
	t.elapsed += steps
}

// Tick handles a scheduled tick and reports whether another tick should be
// scheduled. Ticks for another timer, an older run or a stopped timer are
// dropped and end their chain.
func (t *Timer) Tick(msg TickMsg) bool {
	if msg.ID != t.id || msg.Gen != t.gen || !t.running {
		return false
	}
	t.Advance(msg.At)
	return t.running
}

// TickAt stamps a tick for the current run.
func (t *Timer) TickAt(at time.Time) TickMsg {
	return TickMsg{ID: t.id, Gen: t.gen, At: at}
}

func (t *Timer) complete() {
	if t.completed {
		return
	}
	t.completed = true
	if t.onComplete != nil {
		t.onComplete()
	}
}

// ID returns the process-unique timer id.
func (t *Timer) ID() uint64 { return t.id }

// Generation returns the current run generation.
func (t *Timer) Generation() uint64 { return t.gen }

// Mode returns the counting direction.
func (t *Timer) Mode() Mode { return t.mode }

// Seconds returns the current value.
func (t *Timer) Seconds() int { return t.seconds }

// Running reports whether the timer is counting.
func (t *Timer) Running() bool { return t.running }

// Completed reports whether completion fired in the current run.
func (t *Timer) Completed() bool { return t.completed }

// Elapsed returns the seconds consumed since the last reset.
func (t *Timer) Elapsed() int { return t.elapsed }

// Formatted returns the current value as MM:SS.
func (t *Timer) Formatted() string { return Format(t.seconds) }

// State returns a snapshot of the timer.
func (t *Timer) State() State {
	return State{
		Seconds:   t.seconds,
		Running:   t.running,
		Formatted: t.Formatted(),
		Mode:      t.mode,
	}
}

// Format renders seconds as zero-padded MM:SS. Minutes are not capped at 59.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
