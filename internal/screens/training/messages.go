package training

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/timer"
)

// fetchedMsg carries a content delivery back to the event loop.
type fetchedMsg struct {
	Delivery exercise.Delivery
}

// wakeMsg asks the controller it was scheduled for to advance.
type wakeMsg struct {
	ctrl exercise.Controller
	at   time.Time
}

// nextMsg starts the next exercise once the transition delay has passed.
type nextMsg struct {
	Kind exercise.Kind
}

// finishMsg leaves the screen for the results once the last transition
// delay has passed.
type finishMsg struct{}

// submittedMsg reports the outcome of a result submission.
type submittedMsg struct {
	Kind    exercise.Kind
	Receipt *content.SubmissionReceipt
	Err     error
}

// recordedMsg reports the outcome of a session event write.
type recordedMsg struct {
	Action string
	Err    error
}

// tickCmd schedules the next one-second tick of a timer run.
func tickCmd(t timer.TickMsg) tea.Cmd {
	return tea.Tick(time.Second, func(now time.Time) tea.Msg {
		return timer.TickMsg{ID: t.ID, Gen: t.Gen, At: now}
	})
}
