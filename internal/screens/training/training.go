// Package training hosts a session: it runs the exercise controllers in
// order on the Bubble Tea event loop, fetches their content off-loop and
// hands each result to the orchestrator and the content provider.
package training

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/braingym/internal/answer"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/logging"
	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/screen"
	"github.com/abhisek/braingym/internal/screens/results"
	"github.com/abhisek/braingym/internal/session"
	"github.com/abhisek/braingym/internal/store"
	"github.com/abhisek/braingym/internal/timer"
	"github.com/abhisek/braingym/internal/ui/components"
	"github.com/abhisek/braingym/internal/ui/layout"
	"github.com/abhisek/braingym/internal/ui/theme"
)

// DefaultRequestTimeout bounds a single fetch or submission.
const DefaultRequestTimeout = 15 * time.Second

// Config holds the dependencies and pacing of a session.
type Config struct {
	Provider content.Provider
	// Repo records session lifecycle events. It may be nil.
	Repo   store.EventRepo
	Logger *slog.Logger

	// Start begins the session at this exercise; empty runs all of them.
	Start exercise.Kind

	TransitionDelay    time.Duration
	ArithmeticFeedback time.Duration
	StroopFeedback     time.Duration
	RequestTimeout     time.Duration

	// Seed fixes option order; 0 picks one from the clock.
	Seed  uint64
	Clock timer.Clock
}

// stopwatch is the Start/Done surface of counting and reading.
type stopwatch interface {
	Start() bool
	Done() bool
}

// Screen implements screen.Screen for a running session.
type Screen struct {
	cfg    Config
	logger *slog.Logger
	clock  timer.Clock
	rng    *rand.Rand
	orch   *session.Orchestrator

	ctrl     exercise.Controller
	req      exercise.Request
	finished *exercise.Result

	// last is the most recent completed result, shown while waiting.
	last    *exercise.Result
	waiting bool
	next    exercise.Kind
	done    bool

	choices components.MultiChoice
	item    int
	input   components.TextInput

	notices []string
	errMsg  string

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a session screen. Configuration errors are shown on screen.
func New(cfg Config) *Screen {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	clock := cfg.Clock
	if clock == nil {
		clock = timer.WallClock{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Screen{
		cfg:    cfg,
		logger: logging.OrDiscard(cfg.Logger).With("component", "training"),
		clock:  clock,
		rng:    answer.NewRand(seed),
		item:   -1,
		input:  components.NewTextInput("Type a word...", 32),
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.Provider == nil {
		s.errMsg = "no content provider configured"
		return s
	}
	orch, err := session.New(
		session.WithStart(cfg.Start),
		session.WithTransitionDelay(cfg.TransitionDelay),
		session.WithClock(clock),
	)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.orch = orch
	return s
}

// SessionID returns the id of the running session.
func (s *Screen) SessionID() string {
	if s.orch == nil {
		return ""
	}
	return s.orch.ID()
}

// Controller returns the active exercise controller.
func (s *Screen) Controller() exercise.Controller { return s.ctrl }

func (s *Screen) Init() tea.Cmd {
	if s.orch == nil {
		return nil
	}
	kind, _ := s.orch.Current()
	s.logger.Info("session started", "session_id", s.orch.ID(), "start", kind)
	return tea.Batch(
		s.record(store.ActionStart),
		s.begin(kind),
		s.input.Init(),
	)
}

func (s *Screen) Title() string {
	if s.ctrl == nil {
		return "Training"
	}
	return s.ctrl.Kind().Label()
}

// Status shows the position in the session.
func (s *Screen) Status() string {
	if s.orch == nil {
		return ""
	}
	pos, total := s.orch.Position()
	if s.done {
		pos = total
	}
	return fmt.Sprintf("Exercise %d/%d", pos, total)
}

// begin creates the controller for kind and requests its content.
func (s *Screen) begin(kind exercise.Kind) tea.Cmd {
	ctrl, err := exercise.New(kind, exercise.Options{
		Clock:         s.clock,
		Rand:          s.rng,
		FeedbackDelay: s.feedbackDelay(kind),
		OnFinish: func(r exercise.Result) {
			s.finished = &r
		},
	})
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.ctrl = ctrl
	s.item = -1
	s.choices = components.NewMultiChoice(nil)
	s.input.Clear()
	s.logger.Debug("exercise loading", "session_id", s.orch.ID(), "exercise", kind)
	return s.load()
}

func (s *Screen) feedbackDelay(kind exercise.Kind) time.Duration {
	switch kind {
	case exercise.KindArithmetic:
		return s.cfg.ArithmeticFeedback
	case exercise.KindStroop:
		return s.cfg.StroopFeedback
	}
	return 0
}

// load (re)issues the active controller's fetch.
func (s *Screen) load() tea.Cmd {
	s.req = s.ctrl.Load()
	return s.fetch(s.req)
}

func (s *Screen) fetch(req exercise.Request) tea.Cmd {
	ctx, provider, timeout := s.ctx, s.cfg.Provider, s.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fetchedMsg{Delivery: exercise.Fetch(ctx, provider, req)}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.closed {
		return s, nil
	}

	switch msg := msg.(type) {
	case fetchedMsg:
		return s, s.handleFetched(msg)

	case timer.TickMsg:
		if s.ctrl == nil {
			return s, nil
		}
		if s.ctrl.Tick(msg) {
			return s, tea.Batch(tickCmd(msg), s.sync())
		}
		return s, s.sync()

	case wakeMsg:
		if msg.ctrl != s.ctrl {
			return s, nil
		}
		s.ctrl.Advance(s.clock.Now())
		return s, s.sync()

	case nextMsg:
		if !s.waiting || msg.Kind != s.next {
			return s, nil
		}
		s.waiting = false
		return s, s.begin(msg.Kind)

	case finishMsg:
		if !s.waiting || !s.done {
			return s, nil
		}
		s.waiting = false
		summary := s.orch.Summary()
		notices := s.notices
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: results.New(summary, notices)}
		}

	case submittedMsg:
		if msg.Err != nil {
			s.logger.Warn("result submission failed", "exercise", msg.Kind, "error", msg.Err)
			s.notices = append(s.notices, fmt.Sprintf("%s result was not saved: %v", msg.Kind.Label(), msg.Err))
		} else if msg.Receipt != nil {
			s.logger.Debug("result submitted", "exercise", msg.Kind, "id", msg.Receipt.ID)
		}
		return s, nil

	case recordedMsg:
		if msg.Err != nil {
			s.logger.Warn("session event not recorded", "action", msg.Action, "error", msg.Err)
		}
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.recalling() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleFetched(msg fetchedMsg) tea.Cmd {
	if s.ctrl == nil || !s.ctrl.Apply(msg.Delivery) {
		s.logger.Debug("stale delivery dropped", "exercise", msg.Delivery.Kind, "ticket", msg.Delivery.Ticket)
		return nil
	}
	if err := s.ctrl.Err(); err != nil {
		s.logger.Warn("content fetch failed", "exercise", s.ctrl.Kind(), "error", err)
	}
	return s.sync()
}

// sync drains the controller's schedule into commands, refreshes the input
// widgets and completes a finished exercise.
func (s *Screen) sync() tea.Cmd {
	if s.ctrl == nil {
		return nil
	}
	var cmds []tea.Cmd
	sched := s.ctrl.TakeSchedule()
	for _, t := range sched.Ticks {
		cmds = append(cmds, tickCmd(t))
	}
	ctrl := s.ctrl
	for _, d := range sched.Wakes {
		cmds = append(cmds, tea.Tick(d, func(now time.Time) tea.Msg {
			return wakeMsg{ctrl: ctrl, at: now}
		}))
	}

	s.refreshChoices()

	if s.finished != nil {
		res := *s.finished
		s.finished = nil
		cmds = append(cmds, s.complete(res))
	}
	return tea.Batch(cmds...)
}

// complete hands a finished result to the orchestrator and the provider,
// then waits out the transition delay.
func (s *Screen) complete(res exercise.Result) tea.Cmd {
	kind := s.ctrl.Kind()
	next, done, err := s.orch.Complete(kind, res)
	if err != nil {
		s.logger.Error("result rejected", "exercise", kind, "error", err)
		s.notices = append(s.notices, err.Error())
		return nil
	}
	s.logger.Info("exercise finished",
		"session_id", s.orch.ID(),
		"exercise", kind,
		"score", res.Score,
		"elapsed_seconds", res.ElapsedSeconds)

	s.last = &res
	s.waiting = true
	delay := s.orch.TransitionDelay()
	cmds := []tea.Cmd{s.submit(res)}

	if done {
		s.done = true
		s.logger.Info("session finished", "session_id", s.orch.ID(), "total_score", s.orch.Summary().TotalScore)
		cmds = append(cmds,
			s.record(store.ActionEnd),
			tea.Tick(delay, func(time.Time) tea.Msg { return finishMsg{} }),
		)
		return tea.Batch(cmds...)
	}

	s.next = next
	cmds = append(cmds, tea.Tick(delay, func(time.Time) tea.Msg { return nextMsg{Kind: next} }))
	return tea.Batch(cmds...)
}

// submit sends the result to the provider without blocking the session.
func (s *Screen) submit(res exercise.Result) tea.Cmd {
	provider, timeout := s.cfg.Provider, s.cfg.RequestTimeout
	sub := session.Submission(s.orch.ID(), res)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		receipt, err := provider.SubmitResult(ctx, sub)
		return submittedMsg{Kind: res.Kind, Receipt: receipt, Err: err}
	}
}

func (s *Screen) eventData(action string) store.SessionEventData {
	summary := s.orch.Summary()
	plan := s.orch.Plan()
	data := store.SessionEventData{
		SessionID:          s.orch.ID(),
		Action:             action,
		ExercisesPlanned:   len(plan),
		ExercisesCompleted: summary.Completed,
		TotalScore:         summary.TotalScore,
		DurationSecs:       int(s.clock.Now().Sub(s.orch.StartedAt()).Seconds()),
	}
	if len(plan) > 0 {
		data.StartExercise = string(plan[0])
	}
	return data
}

// record writes a session lifecycle event off the event loop.
func (s *Screen) record(action string) tea.Cmd {
	if s.cfg.Repo == nil {
		return nil
	}
	repo, data := s.cfg.Repo, s.eventData(action)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return recordedMsg{Action: action, Err: repo.AppendSessionEvent(ctx, data)}
	}
}

// Close abandons a session that has not finished. It runs when the screen
// leaves the stack; the abandon event is written by the returned command.
func (s *Screen) Close() tea.Cmd {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	if s.ctrl != nil {
		s.ctrl.Abandon()
	}
	if s.orch == nil || s.done {
		return nil
	}
	s.logger.Info("session abandoned", "session_id", s.orch.ID(), "completed", s.orch.Results().Len())
	if s.cfg.Repo == nil {
		return nil
	}
	// The screen is gone by the time this runs, so it logs its own failure.
	repo, data, logger := s.cfg.Repo, s.eventData(store.ActionAbandon), s.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.AppendSessionEvent(ctx, data); err != nil {
			logger.Warn("session event not recorded", "action", store.ActionAbandon, "error", err)
		}
		return nil
	}
}

func (s *Screen) recalling() bool {
	return s.ctrl != nil && s.ctrl.Phase() == exercise.PhaseRecall && !s.waiting
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.ctrl == nil || s.errMsg != "" {
		return nil
	}
	key := msg.String()

	if s.waiting {
		if key == "enter" || key == "space" {
			return s.skipWait()
		}
		return nil
	}

	if s.ctrl.Phase() == exercise.PhaseFailed {
		if key == "r" {
			return s.load()
		}
		return nil
	}

	switch c := s.ctrl.(type) {
	case stopwatch:
		if key != "enter" && key != "space" {
			return nil
		}
		switch s.ctrl.Phase() {
		case exercise.PhaseReady:
			c.Start()
		case exercise.PhaseActive:
			c.Done()
		}
		return s.sync()

	case *exercise.Arithmetic, *exercise.Stroop:
		if s.ctrl.Phase() != exercise.PhaseActive {
			return nil
		}
		s.choices, _ = s.choices.Update(msg)
		if !s.choices.Submitted {
			return nil
		}
		s.choose(s.choices.ChosenIndex)
		return s.sync()

	case *exercise.Memory:
		return s.handleMemoryKey(c, msg)
	}
	return nil
}

// choose answers the current item and reveals the correct option.
func (s *Screen) choose(i int) {
	switch c := s.ctrl.(type) {
	case *exercise.Arithmetic:
		p, opts, _ := c.Current()
		if _, ok := c.Choose(i); !ok {
			s.choices.Submitted = false
			return
		}
		s.choices.Reveal(answer.IndexOf(opts, p.Answer))
	case *exercise.Stroop:
		it, _ := c.Current()
		if _, ok := c.Choose(i); !ok {
			s.choices.Submitted = false
			return
		}
		s.choices.Reveal(paletteIndex(c.Palette(), it.CorrectAnswer))
	}
}

func paletteIndex(palette []exercise.Color, name string) int {
	name = answer.Normalize(name)
	for i, c := range palette {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s *Screen) handleMemoryKey(c *exercise.Memory, msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch c.Phase() {
	case exercise.PhaseMemorize:
		if key == "enter" {
			c.Remember()
			return s.sync()
		}
	case exercise.PhaseRecall:
		if key == "enter" {
			word := strings.TrimSpace(s.input.Value())
			if word == "" {
				c.Finish()
				return s.sync()
			}
			s.input.Submit(c.Submit(word))
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	return nil
}

// skipWait ends the transition delay early.
func (s *Screen) skipWait() tea.Cmd {
	if s.done {
		return func() tea.Msg { return finishMsg{} }
	}
	next := s.next
	return func() tea.Msg { return nextMsg{Kind: next} }
}

// refreshChoices loads the options of the item on screen once the previous
// answer's feedback has cleared.
func (s *Screen) refreshChoices() {
	if s.ctrl.Phase() != exercise.PhaseActive {
		return
	}
	switch c := s.ctrl.(type) {
	case *exercise.Arithmetic:
		pos, _ := c.Position()
		if pos == s.item && !s.choices.Submitted {
			return
		}
		_, opts, ok := c.Current()
		if !ok {
			return
		}
		labels := make([]string, len(opts))
		for i, o := range opts {
			labels[i] = strconv.Itoa(o)
		}
		s.choices.Reset(components.Labels(labels...))
		s.item = pos

	case *exercise.Stroop:
		pos, _ := c.Position()
		if pos == s.item && !s.choices.Submitted {
			return
		}
		palette := c.Palette()
		choices := make([]components.Choice, len(palette))
		for i, p := range palette {
			choices[i] = components.Choice{Label: p.Name}
			if p.Hex != "" {
				choices[i].Swatch = theme.Hex(p.Hex)
			}
		}
		s.choices.Reset(choices)
		s.item = pos
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.ctrl == nil || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.waiting {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "End session"},
		}
	}
	switch s.ctrl.Phase() {
	case exercise.PhaseFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "End session"},
		}
	case exercise.PhaseReady:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "End session"},
		}
	case exercise.PhaseMemorize:
		return []layout.KeyHint{
			{Key: "Enter", Description: "I remember"},
			{Key: "Esc", Description: "End session"},
		}
	case exercise.PhaseRecall:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Add word"},
			{Key: "Enter (empty)", Description: "Finish"},
			{Key: "Esc", Description: "End session"},
		}
	case exercise.PhaseActive, exercise.PhaseFeedback:
		if s.ctrl.Kind().Timed() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Done"},
				{Key: "Esc", Description: "End session"},
			}
		}
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "End session"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "End session"}}
}
