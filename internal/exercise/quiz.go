package exercise

import (
	"time"

	"github.com/abhisek/braingym/internal/answer"
)

// quiz walks a fixed list of items, one answer per item, with a timed
// feedback window after each answer. Input is rejected while feedback shows.
type quiz struct {
	total    int
	index    int
	correct  int
	attempts []answer.Attempt

	delay    time.Duration
	feedback bool
	deadline time.Time
}

func newQuiz(total int, delay time.Duration) quiz {
	return quiz{total: total, delay: delay}
}

func (q *quiz) done() bool { return q.index >= q.total }

// submit scores the current item and opens the feedback window.
func (q *quiz) submit(a answer.Attempt, now time.Time) bool {
	if q.feedback || q.done() {
		return false
	}
	q.attempts = append(q.attempts, a)
	if a.Correct {
		q.correct++
	}
	q.feedback = true
	q.deadline = now.Add(q.delay)
	return true
}

// settle closes an expired feedback window and moves to the next item. It
// reports whether the window closed.
func (q *quiz) settle(now time.Time) bool {
	if !q.feedback || now.Before(q.deadline) {
		return false
	}
	q.feedback = false
	q.index++
	return true
}

// remaining returns how long the open feedback window still runs, or zero.
func (q *quiz) remaining(now time.Time) time.Duration {
	if !q.feedback || !now.Before(q.deadline) {
		return 0
	}
	return q.deadline.Sub(now)
}

func (q *quiz) last() (answer.Attempt, bool) {
	if len(q.attempts) == 0 {
		return answer.Attempt{}, false
	}
	return q.attempts[len(q.attempts)-1], true
}

func (q *quiz) answered() int { return len(q.attempts) }

func (q *quiz) progress() float64 {
	if q.total == 0 {
		return 0
	}
	return float64(q.index) / float64(q.total)
}
