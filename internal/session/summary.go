package session

import (
	"fmt"
	"time"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/timer"
)

// Line is one exercise row on the summary screen.
type Line struct {
	Kind           exercise.Kind
	Label          string
	Score          int
	ElapsedSeconds int
	CorrectCount   int
	TotalItems     int
	Accuracy       float64
}

// Headline renders the line the way the results page shows it: time for the
// exercises scored on time, correct/total for the rest.
func (l Line) Headline() string {
	if l.Kind.Timed() {
		return "Time: " + timer.Format(l.ElapsedSeconds)
	}
	return fmt.Sprintf("%d/%d correct", l.CorrectCount, l.TotalItems)
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID    string
	TotalScore   int
	TotalCorrect int
	TotalItems   int
	Accuracy     float64
	Duration     time.Duration
	Completed    int
	Planned      int
	Lines        []Line
}

// Summary aggregates the results recorded so far.
func (o *Orchestrator) Summary() Summary {
	return BuildSummary(o.id, len(o.plan), o.results.All())
}

// BuildSummary aggregates results in the order given.
func BuildSummary(sessionID string, planned int, results []exercise.Result) Summary {
	s := Summary{SessionID: sessionID, Planned: planned, Completed: len(results)}
	var elapsed int
	for _, r := range results {
		s.TotalScore += r.Score
		s.TotalCorrect += r.CorrectCount
		s.TotalItems += r.TotalItems
		elapsed += r.ElapsedSeconds
		s.Lines = append(s.Lines, Line{
			Kind:           r.Kind,
			Label:          r.Kind.Label(),
			Score:          r.Score,
			ElapsedSeconds: r.ElapsedSeconds,
			CorrectCount:   r.CorrectCount,
			TotalItems:     r.TotalItems,
			Accuracy:       r.Accuracy(),
		})
	}
	if s.TotalItems > 0 {
		s.Accuracy = float64(s.TotalCorrect) / float64(s.TotalItems)
	}
	s.Duration = time.Duration(elapsed) * time.Second
	return s
}
