package exercise

import (
	"errors"
	"strings"
	"time"

	"github.com/abhisek/braingym/internal/answer"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/timer"
)

// ChoiceCount is the number of options shown per arithmetic problem.
const ChoiceCount = 4

// Arithmetic runs timed multiple-choice problems against a countdown.
type Arithmetic struct {
	base
	problems []content.Problem
	options  [][]int
	quiz     quiz
	timer    *timer.Timer
	delay    time.Duration
}

var _ Controller = (*Arithmetic)(nil)

// NewArithmetic creates an arithmetic controller in the loading phase.
func NewArithmetic(opts Options) *Arithmetic {
	delay := opts.FeedbackDelay
	if delay <= 0 {
		delay = ArithmeticFeedback
	}
	return &Arithmetic{base: newBase(KindArithmetic, opts), delay: delay}
}

func (a *Arithmetic) Apply(d Delivery) bool {
	if !a.accept(d) {
		return false
	}
	if d.Err != nil {
		a.fail(d.Err)
		return true
	}
	set, ok := d.Payload.(*content.ArithmeticSet)
	if !ok || set == nil {
		a.fail(&content.FetchError{Kind: string(a.kind), Err: errors.New("unexpected payload")})
		return true
	}

	var problems []content.Problem
	var options [][]int
	for _, p := range set.Problems {
		if strings.TrimSpace(p.Expression) == "" {
			continue
		}
		problems = append(problems, p)
		options = append(options, answer.Options(p.Answer, ChoiceCount-1, a.rng))
	}
	a.problems, a.options = problems, options
	if len(a.problems) == 0 {
		a.finishEmpty("no problems")
		return true
	}

	limit := set.TimeLimitSeconds
	if limit <= 0 {
		limit = content.DefaultTimeLimitSeconds
	}
	a.quiz = newQuiz(len(a.problems), a.delay)
	a.timer = timer.New(limit, timer.Countdown, a.expire, a.timerOpts()...)
	a.timers = []*timer.Timer{a.timer}
	a.phase = PhaseActive
	a.startTimer(a.timer)
	return true
}

// Current returns the problem on screen and its options.
func (a *Arithmetic) Current() (content.Problem, []int, bool) {
	if a.quiz.done() || len(a.problems) == 0 {
		return content.Problem{}, nil, false
	}
	return a.problems[a.quiz.index], a.options[a.quiz.index], true
}

// Answer scores value against the current problem. It returns false when
// input is not accepted (feedback showing, not active, or finished).
func (a *Arithmetic) Answer(value int) (answer.Attempt, bool) {
	if a.phase != PhaseActive {
		return answer.Attempt{}, false
	}
	p, _, ok := a.Current()
	if !ok {
		return answer.Attempt{}, false
	}
	att := answer.CheckNumber(p.Answer, value)
	if !a.quiz.submit(att, a.clock.Now()) {
		return answer.Attempt{}, false
	}
	a.phase = PhaseFeedback
	a.wake(a.delay)
	return att, true
}

// Choose answers with the option at index.
func (a *Arithmetic) Choose(index int) (answer.Attempt, bool) {
	_, opts, ok := a.Current()
	if !ok || index < 0 || index >= len(opts) {
		return answer.Attempt{}, false
	}
	return a.Answer(opts[index])
}

// LastAttempt returns the most recent scored answer.
func (a *Arithmetic) LastAttempt() (answer.Attempt, bool) { return a.quiz.last() }

func (a *Arithmetic) Advance(now time.Time) {
	a.advanceTimers(now)
	if a.phase != PhaseFeedback {
		return
	}
	if !a.quiz.settle(now) {
		// Woken early: ask again for the rest of the window.
		if d := a.quiz.remaining(now); d > 0 {
			a.wake(d)
		}
		return
	}
	if a.quiz.done() {
		a.complete()
		return
	}
	a.phase = PhaseActive
}

// Timer exposes the countdown for display.
func (a *Arithmetic) Timer() *timer.Timer { return a.timer }

// Position returns the 1-based index of the current problem and the total.
func (a *Arithmetic) Position() (int, int) {
	return min(a.quiz.index+1, a.quiz.total), a.quiz.total
}

// Correct returns the number of correct answers so far.
func (a *Arithmetic) Correct() int { return a.quiz.correct }

func (a *Arithmetic) Progress() float64 { return a.quiz.progress() }

func (a *Arithmetic) expire() { a.complete() }

func (a *Arithmetic) complete() {
	elapsed := 0
	if a.timer != nil {
		elapsed = a.timer.Elapsed()
	}
	a.finish(Result{
		Score:          a.quiz.correct,
		ElapsedSeconds: elapsed,
		CorrectCount:   a.quiz.correct,
		TotalItems:     len(a.problems),
		Details: map[string]any{
			"answered": a.quiz.answered(),
		},
	})
}
