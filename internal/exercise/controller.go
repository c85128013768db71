// Package exercise holds the per-exercise state machines. Each controller
// composes a timer, the answer evaluator and fetched content into a single
// Result, emitted exactly once.
//
// Controllers are not safe for concurrent use. All calls happen on the
// caller's event loop; only Fetch runs elsewhere, and it touches no
// controller state.
package exercise

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/braingym/internal/answer"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/timer"
)

// Feedback windows for the answered-item exercises.
const (
	ArithmeticFeedback = 300 * time.Millisecond
	StroopFeedback     = 400 * time.Millisecond
)

// Controller is the common surface of every exercise.
type Controller interface {
	Kind() Kind
	Phase() Phase

	// Load enters the loading phase and returns the fetch request whose
	// delivery the controller will accept. Calling Load again (manual retry)
	// invalidates any earlier request.
	Load() Request

	// Apply consumes a fetch delivery. It returns false when the delivery was
	// stale and has been discarded.
	Apply(d Delivery) bool

	// Tick handles a timer tick and reports whether its chain continues.
	Tick(msg timer.TickMsg) bool

	// Advance moves timers and feedback windows forward to now.
	Advance(now time.Time)

	// TakeSchedule drains the tick chains and wakeups requested since the
	// last call.
	TakeSchedule() Schedule

	// Abandon stops all timers and makes every pending delivery stale.
	Abandon()

	Result() (Result, bool)
	Err() error
	Progress() float64
}

// Request identifies one content fetch.
type Request struct {
	Kind   Kind
	Ticket uint64
}

// Delivery is the outcome of a fetch, tagged with the request it answers.
type Delivery struct {
	Kind    Kind
	Ticket  uint64
	Payload any
	Err     error
}

// Schedule lists the timing work a controller needs from its host.
type Schedule struct {
	// Ticks holds one entry per timer run that needs a one-second tick chain.
	Ticks []timer.TickMsg
	// Wakes holds one-shot delays after which Advance should be called.
	Wakes []time.Duration
}

// Empty reports whether nothing needs scheduling.
func (s Schedule) Empty() bool {
	return len(s.Ticks) == 0 && len(s.Wakes) == 0
}

// Options configures a controller.
type Options struct {
	Clock         timer.Clock
	Rand          *rand.Rand
	FeedbackDelay time.Duration
	// OnFinish receives the result exactly once, when the controller finishes.
	OnFinish func(Result)
}

// New builds the controller for kind.
func New(kind Kind, opts Options) (Controller, error) {
	switch kind {
	case KindCounting:
		return NewCounting(opts), nil
	case KindArithmetic:
		return NewArithmetic(opts), nil
	case KindReading:
		return NewReading(opts), nil
	case KindStroop:
		return NewStroop(opts), nil
	case KindMemory:
		return NewMemory(opts), nil
	default:
		return nil, fmt.Errorf("unknown exercise %q", kind)
	}
}

// Fetch performs the content request for req against p. It is safe to run
// off the event loop.
func Fetch(ctx context.Context, p content.Provider, req Request) Delivery {
	d := Delivery{Kind: req.Kind, Ticket: req.Ticket}
	var err error
	switch req.Kind {
	case KindCounting:
		return d
	case KindArithmetic:
		d.Payload, err = p.Arithmetic(ctx)
	case KindReading:
		d.Payload, err = p.Reading(ctx)
	case KindStroop:
		d.Payload, err = p.Stroop(ctx)
	case KindMemory:
		d.Payload, err = p.Memory(ctx)
	default:
		err = fmt.Errorf("unknown exercise %q", req.Kind)
	}
	if err != nil {
		var fe *content.FetchError
		if !errors.As(err, &fe) {
			err = &content.FetchError{Kind: string(req.Kind), Err: err}
		}
		d.Payload = nil
		d.Err = err
	}
	return d
}

// base carries the bookkeeping shared by all controllers.
type base struct {
	kind      Kind
	phase     Phase
	ticket    uint64
	abandoned bool
	err       error
	result    *Result
	onFinish  func(Result)
	clock     timer.Clock
	rng       *rand.Rand
	timers    []*timer.Timer
	schedule  Schedule
}

func newBase(kind Kind, opts Options) base {
	b := base{
		kind:     kind,
		phase:    PhaseLoading,
		onFinish: opts.OnFinish,
		clock:    opts.Clock,
		rng:      opts.Rand,
	}
	if b.clock == nil {
		b.clock = timer.WallClock{}
	}
	if b.rng == nil {
		b.rng = answer.NewRand(uint64(time.Now().UnixNano()))
	}
	return b
}

func (b *base) Kind() Kind   { return b.kind }
func (b *base) Phase() Phase { return b.phase }
func (b *base) Err() error   { return b.err }

func (b *base) Result() (Result, bool) {
	if b.result == nil {
		return Result{}, false
	}
	return *b.result, true
}

// Abandoned reports whether Abandon was called.
func (b *base) Abandoned() bool { return b.abandoned }

// Load issues a new request only while loading or after a failed fetch. In
// any other phase the outstanding request is returned unchanged, so content
// cannot be swapped under a running exercise.
func (b *base) Load() Request {
	if b.abandoned || b.result != nil || (b.phase != PhaseLoading && b.phase != PhaseFailed) {
		return Request{Kind: b.kind, Ticket: b.ticket}
	}
	b.ticket++
	b.phase = PhaseLoading
	b.err = nil
	return Request{Kind: b.kind, Ticket: b.ticket}
}

// accept reports whether d answers the outstanding request.
func (b *base) accept(d Delivery) bool {
	return !b.abandoned &&
		b.result == nil &&
		b.phase == PhaseLoading &&
		d.Kind == b.kind &&
		d.Ticket == b.ticket
}

func (b *base) fail(err error) {
	b.phase = PhaseFailed
	b.err = err
}

func (b *base) timerOpts() []timer.Option {
	return []timer.Option{timer.WithClock(b.clock)}
}

func (b *base) startTimer(t *timer.Timer) {
	if t.Start() {
		b.schedule.Ticks = append(b.schedule.Ticks, t.TickAt(time.Time{}))
	}
}

func (b *base) wake(after time.Duration) {
	b.schedule.Wakes = append(b.schedule.Wakes, after)
}

func (b *base) TakeSchedule() Schedule {
	s := b.schedule
	b.schedule = Schedule{}
	return s
}

func (b *base) Tick(msg timer.TickMsg) bool {
	for _, t := range b.timers {
		if t.ID() == msg.ID {
			return t.Tick(msg)
		}
	}
	return false
}

func (b *base) advanceTimers(now time.Time) {
	for _, t := range b.timers {
		t.Advance(now)
	}
}

func (b *base) stopTimers() {
	for _, t := range b.timers {
		t.Stop()
	}
}

func (b *base) Abandon() {
	b.abandoned = true
	b.ticket++
	b.stopTimers()
}

// finish records r and notifies the host. Only the first call has effect.
func (b *base) finish(r Result) {
	if b.result != nil {
		return
	}
	b.stopTimers()
	r.Kind = b.kind
	if r.FinishedAt.IsZero() {
		r.FinishedAt = b.clock.Now()
	}
	b.result = &r
	b.phase = PhaseFinished
	if b.onFinish != nil && !b.abandoned {
		b.onFinish(r)
	}
}

// finishEmpty ends the exercise with a zero-item result.
func (b *base) finishEmpty(reason string) {
	b.finish(Result{Details: map[string]any{"empty": true, "reason": reason}})
}
