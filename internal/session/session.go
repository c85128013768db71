// Package session sequences the exercises of one training session and
// collects their results.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/timer"
)

// DefaultTransitionDelay is the pause between one exercise finishing and the
// next one loading.
const DefaultTransitionDelay = 2 * time.Second

var (
	// ErrDuplicateResult is returned when a kind already has a result.
	ErrDuplicateResult = errors.New("session: result already recorded")
	// ErrUnknownKind is returned for a kind outside the session plan.
	ErrUnknownKind = errors.New("session: unknown exercise")
	// ErrOutOfOrder is returned when a result arrives for an exercise other
	// than the active one.
	ErrOutOfOrder = errors.New("session: exercise is not active")
	// ErrFinished is returned once the session has been finalized.
	ErrFinished = errors.New("session: already finished")
)

// Results maps kinds to their results and remembers completion order.
type Results struct {
	order  []exercise.Kind
	byKind map[exercise.Kind]exercise.Result
}

func (r *Results) add(res exercise.Result) {
	if r.byKind == nil {
		r.byKind = make(map[exercise.Kind]exercise.Result)
	}
	r.order = append(r.order, res.Kind)
	r.byKind[res.Kind] = res
}

// Len returns the number of recorded results.
func (r Results) Len() int { return len(r.order) }

// Get returns the result recorded for k.
func (r Results) Get(k exercise.Kind) (exercise.Result, bool) {
	res, ok := r.byKind[k]
	return res, ok
}

// Kinds returns the recorded kinds in completion order.
func (r Results) Kinds() []exercise.Kind {
	out := make([]exercise.Kind, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the results in completion order.
func (r Results) All() []exercise.Result {
	out := make([]exercise.Result, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKind[k])
	}
	return out
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStart begins the session at kind instead of the first exercise.
func WithStart(kind exercise.Kind) Option {
	return func(o *Orchestrator) { o.start = kind }
}

// WithTransitionDelay overrides DefaultTransitionDelay. Non-positive values
// are ignored.
func WithTransitionDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.transition = d
		}
	}
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(o *Orchestrator) {
		if id != "" {
			o.id = id
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(c timer.Clock) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.clock = c
		}
	}
}

// Orchestrator runs exercises one at a time in plan order. Results are
// written only through Complete.
type Orchestrator struct {
	id         string
	start      exercise.Kind
	plan       Plan
	pos        int
	results    Results
	transition time.Duration
	clock      timer.Clock
	startedAt  time.Time
	finishedAt time.Time
	finished   bool
}

// New creates an orchestrator positioned at its first exercise.
func New(opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		id:         uuid.New().String(),
		transition: DefaultTransitionDelay,
		clock:      timer.WallClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	plan, err := PlanFrom(o.start)
	if err != nil {
		return nil, err
	}
	o.plan = plan
	o.startedAt = o.clock.Now()
	return o, nil
}

// ID returns the session id.
func (o *Orchestrator) ID() string { return o.id }

// Plan returns the exercises this session runs.
func (o *Orchestrator) Plan() Plan { return o.plan }

// TransitionDelay is how long the host waits before loading the next
// exercise.
func (o *Orchestrator) TransitionDelay() time.Duration { return o.transition }

// Current returns the active exercise. It returns false once finished.
func (o *Orchestrator) Current() (exercise.Kind, bool) {
	if o.finished || o.pos >= len(o.plan) {
		return "", false
	}
	return o.plan[o.pos], true
}

// Position returns the 1-based index of the active exercise and the plan
// length.
func (o *Orchestrator) Position() (int, int) {
	return min(o.pos+1, len(o.plan)), len(o.plan)
}

// Finished reports whether every planned exercise has a result.
func (o *Orchestrator) Finished() bool { return o.finished }

// Results returns the recorded results.
func (o *Orchestrator) Results() Results { return o.results }

// StartedAt returns when the session was created.
func (o *Orchestrator) StartedAt() time.Time { return o.startedAt }

// FinishedAt returns when the last result was recorded, or the zero time.
func (o *Orchestrator) FinishedAt() time.Time { return o.finishedAt }

// Complete records res under kind and moves to the next exercise. It returns
// the kind that is now active, or done=true when the session was finalized.
func (o *Orchestrator) Complete(kind exercise.Kind, res exercise.Result) (next exercise.Kind, done bool, err error) {
	if o.finished {
		return "", true, ErrFinished
	}
	if o.plan.Index(kind) < 0 {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if _, ok := o.results.Get(kind); ok {
		return "", false, fmt.Errorf("%w: %s", ErrDuplicateResult, kind)
	}
	if cur, _ := o.Current(); cur != kind {
		return "", false, fmt.Errorf("%w: got %s, active %s", ErrOutOfOrder, kind, cur)
	}

	res.Kind = kind
	o.results.add(res)

	next, ok := o.plan.After(kind)
	if !ok {
		o.finished = true
		o.pos = len(o.plan)
		o.finishedAt = o.clock.Now()
		return "", true, nil
	}
	o.pos = o.plan.Index(next)
	return next, false, nil
}

// Submission maps a result onto the provider's submission shape.
func Submission(sessionID string, res exercise.Result) content.ResultSubmission {
	return content.ResultSubmission{
		SessionID:      sessionID,
		ExerciseType:   string(res.Kind),
		Score:          res.Score,
		TimeSeconds:    float64(res.ElapsedSeconds),
		CorrectAnswers: res.CorrectCount,
		TotalQuestions: res.TotalItems,
		Details:        res.Details,
	}
}
