package session

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/braingym/internal/exercise"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(append([]Option{WithID("s-1")}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func resultFor(k exercise.Kind, score int) exercise.Result {
	return exercise.Result{Kind: k, Score: score, CorrectCount: score, TotalItems: 10, ElapsedSeconds: 30}
}

func TestComplete_FullSessionInOrder(t *testing.T) {
	o := newTestOrchestrator(t)

	for i, k := range exercise.Order {
		cur, ok := o.Current()
		if !ok || cur != k {
			t.Fatalf("step %d: current = %q, %v; want %q", i, cur, ok, k)
		}
		next, done, err := o.Complete(k, resultFor(k, i))
		if err != nil {
			t.Fatalf("Complete(%s): %v", k, err)
		}
		last := i == len(exercise.Order)-1
		if done != last {
			t.Errorf("Complete(%s) done = %v, want %v", k, done, last)
		}
		if !last && next != exercise.Order[i+1] {
			t.Errorf("Complete(%s) next = %q, want %q", k, next, exercise.Order[i+1])
		}
	}

	if !o.Finished() {
		t.Fatal("session should be finished")
	}
	if o.Results().Len() != 5 {
		t.Fatalf("results = %d, want 5", o.Results().Len())
	}
	if !slices.Equal(o.Results().Kinds(), exercise.Order) {
		t.Errorf("completion order = %v, want %v", o.Results().Kinds(), exercise.Order)
	}
	if _, ok := o.Current(); ok {
		t.Error("finished session has no current exercise")
	}
	if _, _, err := o.Complete(exercise.KindMemory, resultFor(exercise.KindMemory, 1)); !errors.Is(err, ErrFinished) {
		t.Errorf("Complete after finish err = %v, want ErrFinished", err)
	}
}

func TestComplete_DuplicateRejected(t *testing.T) {
	o := newTestOrchestrator(t)
	if _, _, err := o.Complete(exercise.KindCounting, resultFor(exercise.KindCounting, 0)); err != nil {
		t.Fatal(err)
	}
	_, _, err := o.Complete(exercise.KindCounting, resultFor(exercise.KindCounting, 9))
	if !errors.Is(err, ErrDuplicateResult) {
		t.Fatalf("err = %v, want ErrDuplicateResult", err)
	}
	res, _ := o.Results().Get(exercise.KindCounting)
	if res.Score != 0 {
		t.Errorf("stored result was overwritten: %+v", res)
	}
}

func TestComplete_Errors(t *testing.T) {
	o := newTestOrchestrator(t)

	if _, _, err := o.Complete("juggling", exercise.Result{}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind err = %v", err)
	}
	if _, _, err := o.Complete(exercise.KindStroop, exercise.Result{}); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("out of order err = %v", err)
	}
	if o.Results().Len() != 0 {
		t.Error("rejected completions must not record results")
	}
}

func TestComplete_OverridesResultKind(t *testing.T) {
	o := newTestOrchestrator(t)
	o.Complete(exercise.KindCounting, exercise.Result{Kind: exercise.KindMemory, ElapsedSeconds: 61})

	res, ok := o.Results().Get(exercise.KindCounting)
	if !ok || res.Kind != exercise.KindCounting {
		t.Errorf("result = %+v, %v", res, ok)
	}
}

func TestWithStart(t *testing.T) {
	o := newTestOrchestrator(t, WithStart(exercise.KindStroop))

	if !slices.Equal(o.Plan(), Plan{exercise.KindStroop, exercise.KindMemory}) {
		t.Fatalf("plan = %v", o.Plan())
	}
	if pos, total := o.Position(); pos != 1 || total != 2 {
		t.Errorf("position = %d/%d, want 1/2", pos, total)
	}
	if _, _, err := o.Complete(exercise.KindCounting, exercise.Result{}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("kind before start err = %v, want ErrUnknownKind", err)
	}
	o.Complete(exercise.KindStroop, resultFor(exercise.KindStroop, 4))
	_, done, err := o.Complete(exercise.KindMemory, resultFor(exercise.KindMemory, 2))
	if err != nil || !done {
		t.Errorf("final Complete = %v, %v", done, err)
	}
}

func TestNew_InvalidStart(t *testing.T) {
	if _, err := New(WithStart("juggling")); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	o, err := New(WithClock(fixedClock{at}), WithTransitionDelay(-time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if o.ID() == "" {
		t.Error("expected a generated id")
	}
	if o.TransitionDelay() != DefaultTransitionDelay {
		t.Errorf("transition = %v, want default", o.TransitionDelay())
	}
	if !o.StartedAt().Equal(at) {
		t.Errorf("startedAt = %v", o.StartedAt())
	}

	o2, _ := New(WithTransitionDelay(500 * time.Millisecond))
	if o2.TransitionDelay() != 500*time.Millisecond {
		t.Errorf("transition = %v", o2.TransitionDelay())
	}
	if o.ID() == o2.ID() {
		t.Error("generated ids should differ")
	}
}

func TestSubmission(t *testing.T) {
	res := exercise.Result{
		Kind:           exercise.KindArithmetic,
		Score:          7,
		ElapsedSeconds: 95,
		CorrectCount:   7,
		TotalItems:     50,
		Details:        map[string]any{"answered": 9},
	}
	sub := Submission("abc", res)
	if sub.SessionID != "abc" || sub.ExerciseType != "arithmetic" {
		t.Errorf("submission = %+v", sub)
	}
	if sub.Score != 7 || sub.TimeSeconds != 95 || sub.CorrectAnswers != 7 || sub.TotalQuestions != 50 {
		t.Errorf("submission = %+v", sub)
	}
	if sub.Details["answered"] != 9 {
		t.Errorf("details = %v", sub.Details)
	}
}
