package exercise

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/braingym/internal/answer"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/timer"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) add(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

type recorder struct {
	results []Result
}

func (r *recorder) onFinish(res Result) { r.results = append(r.results, res) }

func testOptions() (Options, *fakeClock, *recorder) {
	clk := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	return Options{
		Clock:    clk,
		Rand:     answer.NewRand(1),
		OnFinish: rec.onFinish,
	}, clk, rec
}

// fakeProvider implements content.Provider for testing.
type fakeProvider struct {
	arithmetic *content.ArithmeticSet
	reading    *content.ReadingText
	stroop     *content.StroopSet
	memory     *content.MemoryWords
	err        error
	calls      int
}

func (f *fakeProvider) Arithmetic(context.Context) (*content.ArithmeticSet, error) {
	f.calls++
	return f.arithmetic, f.err
}

func (f *fakeProvider) Reading(context.Context) (*content.ReadingText, error) {
	f.calls++
	return f.reading, f.err
}

func (f *fakeProvider) Stroop(context.Context) (*content.StroopSet, error) {
	f.calls++
	return f.stroop, f.err
}

func (f *fakeProvider) Memory(context.Context) (*content.MemoryWords, error) {
	f.calls++
	return f.memory, f.err
}

func (f *fakeProvider) SubmitResult(context.Context, content.ResultSubmission) (*content.SubmissionReceipt, error) {
	return &content.SubmissionReceipt{}, nil
}

func deliver(t *testing.T, c Controller, p content.Provider) {
	t.Helper()
	req := c.Load()
	if !c.Apply(Fetch(context.Background(), p, req)) {
		t.Fatalf("%s: delivery was rejected", c.Kind())
	}
}

func arithmeticSet(answers ...int) *content.ArithmeticSet {
	set := &content.ArithmeticSet{TimeLimitSeconds: 120}
	for i, a := range answers {
		set.Problems = append(set.Problems, content.Problem{ID: i + 1, Expression: "x", Answer: a})
	}
	return set
}

func TestArithmetic_AllCorrect(t *testing.T) {
	opts, clk, rec := testOptions()
	a := NewArithmetic(opts)
	deliver(t, a, &fakeProvider{arithmetic: arithmeticSet(5, 3, 13)})

	if a.Phase() != PhaseActive {
		t.Fatalf("phase = %s, want active", a.Phase())
	}
	for _, v := range []int{5, 3, 13} {
		if _, ok := a.Answer(v); !ok {
			t.Fatalf("answer %d rejected", v)
		}
		a.Advance(clk.add(ArithmeticFeedback))
	}

	res, ok := a.Result()
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Score != 3 || res.CorrectCount != 3 || res.TotalItems != 3 {
		t.Errorf("result = %+v, want score 3, correct 3, total 3", res)
	}
	if len(rec.results) != 1 {
		t.Errorf("onFinish called %d times, want 1", len(rec.results))
	}
	if a.Timer().Running() {
		t.Error("timer should stop on finish")
	}
}

func TestArithmetic_FeedbackRejectsInput(t *testing.T) {
	opts, clk, _ := testOptions()
	a := NewArithmetic(opts)
	deliver(t, a, &fakeProvider{arithmetic: arithmeticSet(4, 9)})

	att, ok := a.Answer(7)
	if !ok || att.Correct {
		t.Fatalf("first answer = %+v, %v; want accepted and incorrect", att, ok)
	}
	if a.Phase() != PhaseFeedback {
		t.Fatalf("phase = %s, want feedback", a.Phase())
	}
	if _, ok := a.Answer(4); ok {
		t.Error("input during feedback must be rejected")
	}

	// Not yet expired.
	a.Advance(clk.add(ArithmeticFeedback - time.Millisecond))
	if a.Phase() != PhaseFeedback {
		t.Fatalf("phase = %s before deadline, want feedback", a.Phase())
	}
	a.Advance(clk.add(time.Millisecond))
	if a.Phase() != PhaseActive {
		t.Fatalf("phase = %s after deadline, want active", a.Phase())
	}
	if pos, total := a.Position(); pos != 2 || total != 2 {
		t.Errorf("position = %d/%d, want 2/2", pos, total)
	}
	// The early wake asked again for the last millisecond of the window.
	sched := a.TakeSchedule()
	if len(sched.Ticks) != 1 || !slices.Equal(sched.Wakes, []time.Duration{ArithmeticFeedback, time.Millisecond}) {
		t.Errorf("schedule = %+v, want one tick chain, the feedback wake and its re-arm", sched)
	}
}

func TestArithmetic_ChooseUsesOptions(t *testing.T) {
	opts, _, _ := testOptions()
	a := NewArithmetic(opts)
	deliver(t, a, &fakeProvider{arithmetic: arithmeticSet(5)})

	p, options, ok := a.Current()
	if !ok || len(options) != ChoiceCount {
		t.Fatalf("current = %+v, %v, %v", p, options, ok)
	}
	idx := answer.IndexOf(options, 5)
	att, ok := a.Choose(idx)
	if !ok || !att.Correct {
		t.Errorf("choosing the correct option = %+v, %v", att, ok)
	}
	if _, ok := a.Choose(99); ok {
		t.Error("out of range choice must be rejected")
	}
}

func TestArithmetic_ExpiryFinishes(t *testing.T) {
	opts, clk, rec := testOptions()
	a := NewArithmetic(opts)
	deliver(t, a, &fakeProvider{arithmetic: &content.ArithmeticSet{
		Problems:         arithmeticSet(1, 2, 3).Problems,
		TimeLimitSeconds: 10,
	}})
	a.Answer(1)
	a.Advance(clk.add(ArithmeticFeedback))

	// Expire while feedback is showing for the second answer.
	a.Answer(9)
	a.Advance(clk.add(10 * time.Second))

	res, ok := a.Result()
	if !ok {
		t.Fatal("expected result after expiry")
	}
	if res.ElapsedSeconds != 10 {
		t.Errorf("elapsed = %d, want 10", res.ElapsedSeconds)
	}
	if res.CorrectCount != 1 || res.TotalItems != 3 {
		t.Errorf("result = %+v", res)
	}
	if len(rec.results) != 1 {
		t.Errorf("onFinish called %d times, want 1", len(rec.results))
	}
	if _, ok := a.Answer(3); ok {
		t.Error("finished controller must reject input")
	}
}

func TestArithmetic_ZeroItems(t *testing.T) {
	opts, _, rec := testOptions()
	a := NewArithmetic(opts)
	deliver(t, a, &fakeProvider{arithmetic: &content.ArithmeticSet{}})

	if a.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want finished", a.Phase())
	}
	res, _ := a.Result()
	if res.TotalItems != 0 || res.Score != 0 {
		t.Errorf("result = %+v, want zero-item result", res)
	}
	if a.Progress() != 0 {
		t.Errorf("progress = %v, want 0", a.Progress())
	}
	if len(rec.results) != 1 {
		t.Errorf("onFinish called %d times, want 1", len(rec.results))
	}
}

func TestStroop_InterferenceScoring(t *testing.T) {
	opts, _, _ := testOptions()
	s := NewStroop(opts)
	deliver(t, s, &fakeProvider{stroop: &content.StroopSet{
		Items: []content.StroopItem{{ID: 1, Word: "RED", DisplayColor: "#0000FF", CorrectAnswer: "blue"}},
	}})

	att, ok := s.Answer("red")
	if !ok || att.Correct {
		t.Errorf("answering the word must be incorrect: %+v, %v", att, ok)
	}

	opts, _, _ = testOptions()
	s = NewStroop(opts)
	deliver(t, s, &fakeProvider{stroop: &content.StroopSet{
		Items: []content.StroopItem{{ID: 1, Word: "RED", DisplayColor: "#0000FF", CorrectAnswer: "blue"}},
	}})
	att, ok = s.Answer("Blue")
	if !ok || !att.Correct {
		t.Errorf("answering the display color must be correct: %+v, %v", att, ok)
	}
}

func TestStroop_DropsMalformedItems(t *testing.T) {
	opts, clk, _ := testOptions()
	s := NewStroop(opts)
	deliver(t, s, &fakeProvider{stroop: &content.StroopSet{
		Items: []content.StroopItem{
			{ID: 1, Word: "BLUE", DisplayColor: "#0000FF", CorrectAnswer: "blue"},
			{ID: 2, Word: "GREEN", DisplayColor: "#FF0000", CorrectAnswer: ""},
			{ID: 3, Word: "GREEN", DisplayColor: "#FF0000", CorrectAnswer: "red"},
		},
	}})

	if _, total := s.Position(); total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	s.Answer("red")
	s.Advance(clk.add(StroopFeedback))

	res, ok := s.Result()
	if !ok {
		t.Fatal("expected result")
	}
	if res.CorrectCount != 1 || res.TotalItems != 1 || res.Details["dropped"] != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestStroop_Palette(t *testing.T) {
	opts, _, _ := testOptions()
	s := NewStroop(opts)
	deliver(t, s, &fakeProvider{stroop: &content.StroopSet{
		Items: []content.StroopItem{
			{ID: 1, Word: "RED", DisplayColor: "#0000FF", CorrectAnswer: "blue"},
			{ID: 2, Word: "BLUE", DisplayColor: "#008000", CorrectAnswer: "green"},
		},
	}})

	want := []Color{{"blue", "#0000FF"}, {"green", "#008000"}, {"red", ""}}
	if !slices.Equal(s.Palette(), want) {
		t.Errorf("palette = %+v, want %+v", s.Palette(), want)
	}
	att, ok := s.Choose(0)
	if !ok || !att.Correct {
		t.Errorf("choosing blue = %+v, %v", att, ok)
	}
}

func TestMemory_Recall(t *testing.T) {
	opts, clk, rec := testOptions()
	m := NewMemory(opts)
	deliver(t, m, &fakeProvider{memory: &content.MemoryWords{Words: []string{"apple", "table"}}})

	if m.Phase() != PhaseMemorize {
		t.Fatalf("phase = %s, want memorize", m.Phase())
	}
	if m.Submit("apple") {
		t.Error("submissions during memorize must be rejected")
	}

	// The memorize window defaults to 60 seconds.
	m.Advance(clk.add(60 * time.Second))
	if m.Phase() != PhaseRecall {
		t.Fatalf("phase = %s, want recall", m.Phase())
	}

	if !m.Submit("Apple") {
		t.Error("first submission should be accepted")
	}
	if m.Submit("apple") {
		t.Error("duplicate submission should be ignored")
	}
	m.Submit("chair")
	m.Advance(clk.add(5 * time.Second))
	m.Finish()

	res, ok := m.Result()
	if !ok {
		t.Fatal("expected result")
	}
	if res.CorrectCount != 1 || res.Score != 1 || res.TotalItems != 2 {
		t.Errorf("result = %+v, want 1 correct of 2", res)
	}
	if res.ElapsedSeconds != 5 {
		t.Errorf("elapsed = %d, want 5", res.ElapsedSeconds)
	}
	if !slices.Equal(m.Entered(), []string{"apple", "chair"}) {
		t.Errorf("entered = %v", m.Entered())
	}
	if len(rec.results) != 1 {
		t.Errorf("onFinish called %d times, want 1", len(rec.results))
	}
}

func TestMemory_RememberAndRecallExpiry(t *testing.T) {
	opts, clk, _ := testOptions()
	m := NewMemory(opts)
	deliver(t, m, &fakeProvider{memory: &content.MemoryWords{
		Words:               []string{"river", "cloud", "snow"},
		MemorizeTimeSeconds: 30,
		RecallTimeSeconds:   20,
	}})

	if !m.Remember() {
		t.Fatal("Remember should end memorize early")
	}
	sched := m.TakeSchedule()
	if len(sched.Ticks) != 2 {
		t.Errorf("tick chains = %d, want 2 (memorize and recall)", len(sched.Ticks))
	}

	m.Submit("SNOW")
	m.Advance(clk.add(20 * time.Second))

	res, ok := m.Result()
	if !ok {
		t.Fatal("recall expiry should finish")
	}
	if res.CorrectCount != 1 || res.ElapsedSeconds != 20 {
		t.Errorf("result = %+v", res)
	}
}

func TestCounting_Flow(t *testing.T) {
	opts, clk, rec := testOptions()
	c := NewCounting(opts)
	p := &fakeProvider{}
	deliver(t, c, p)

	if p.calls != 0 {
		t.Errorf("counting should not hit the provider, got %d calls", p.calls)
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("phase = %s, want ready", c.Phase())
	}
	if c.Done() {
		t.Error("Done before Start must be rejected")
	}
	c.Start()
	for i := 0; i < 42; i++ {
		c.Tick(c.Timer().TickAt(clk.add(time.Second)))
	}
	c.Done()

	res, ok := c.Result()
	if !ok || res.ElapsedSeconds != 42 {
		t.Errorf("result = %+v, %v; want 42 seconds", res, ok)
	}
	if res.Kind != KindCounting {
		t.Errorf("kind = %s", res.Kind)
	}
	if len(rec.results) != 1 {
		t.Errorf("onFinish called %d times, want 1", len(rec.results))
	}
}

func TestReading_WordsPerMinute(t *testing.T) {
	opts, clk, _ := testOptions()
	r := NewReading(opts)
	deliver(t, r, &fakeProvider{reading: &content.ReadingText{ID: 1, Title: "t", Content: "one two three four five six"}})

	if r.Phase() != PhaseReady {
		t.Fatalf("phase = %s, want ready", r.Phase())
	}
	r.Start()
	clk.add(30 * time.Second)
	r.Done()

	res, _ := r.Result()
	if res.ElapsedSeconds != 30 {
		t.Errorf("elapsed = %d, want 30", res.ElapsedSeconds)
	}
	if res.Details["words_per_minute"] != 12 {
		t.Errorf("wpm = %v, want 12", res.Details["words_per_minute"])
	}
}

func TestReading_EmptyPassageFinishes(t *testing.T) {
	opts, _, _ := testOptions()
	r := NewReading(opts)
	deliver(t, r, &fakeProvider{reading: &content.ReadingText{Content: "   "}})
	if r.Phase() != PhaseFinished {
		t.Errorf("phase = %s, want finished", r.Phase())
	}
}

func TestStaleDeliveryDiscarded(t *testing.T) {
	opts, _, _ := testOptions()
	a := NewArithmetic(opts)
	p := &fakeProvider{arithmetic: arithmeticSet(1, 2)}

	first := a.Load()
	second := a.Load()
	if a.Apply(Fetch(context.Background(), p, first)) {
		t.Error("delivery for a superseded request must be discarded")
	}
	if a.Phase() != PhaseLoading {
		t.Fatalf("phase = %s, want loading", a.Phase())
	}
	if !a.Apply(Fetch(context.Background(), p, second)) {
		t.Error("current delivery should be applied")
	}
}

func TestLoadWhileActiveKeepsContent(t *testing.T) {
	opts, _, _ := testOptions()
	a := NewArithmetic(opts)
	p := &fakeProvider{arithmetic: arithmeticSet(5, 3, 13)}
	deliver(t, a, p)
	tm := a.Timer()

	req := a.Load()
	if a.Phase() != PhaseActive {
		t.Fatalf("phase = %s after Load, want active", a.Phase())
	}
	if a.Apply(Fetch(context.Background(), p, req)) {
		t.Error("delivery while active must be discarded")
	}
	if _, total := a.Position(); total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if a.Timer() != tm || !tm.Running() {
		t.Error("the running timer must be kept")
	}
}

func TestStroop_EarlyWakeRearms(t *testing.T) {
	opts, clk, _ := testOptions()
	s := NewStroop(opts)
	deliver(t, s, &fakeProvider{stroop: &content.StroopSet{
		Items: []content.StroopItem{
			{Word: "RED", DisplayColor: "#0000FF", CorrectAnswer: "blue"},
			{Word: "BLUE", DisplayColor: "#FF0000", CorrectAnswer: "red"},
		},
	}})
	if _, ok := s.Answer("blue"); !ok {
		t.Fatal("answer rejected")
	}
	s.TakeSchedule()

	s.Advance(clk.add(StroopFeedback / 4))
	if s.Phase() != PhaseFeedback {
		t.Fatalf("phase = %s, want feedback", s.Phase())
	}
	want := StroopFeedback - StroopFeedback/4
	if sched := s.TakeSchedule(); !slices.Equal(sched.Wakes, []time.Duration{want}) {
		t.Fatalf("wakes = %v, want [%s]", sched.Wakes, want)
	}

	s.Advance(clk.add(want))
	if s.Phase() != PhaseActive {
		t.Errorf("phase = %s after the re-armed wake, want active", s.Phase())
	}
}

func TestAbandonedDeliveryDiscarded(t *testing.T) {
	opts, _, rec := testOptions()
	m := NewMemory(opts)
	req := m.Load()
	m.Abandon()

	d := Fetch(context.Background(), &fakeProvider{memory: &content.MemoryWords{Words: []string{"a"}}}, req)
	if m.Apply(d) {
		t.Error("delivery after abandon must be discarded")
	}
	if len(rec.results) != 0 {
		t.Error("abandoned controller must not emit a result")
	}
}

func TestFetchFailureAndRetry(t *testing.T) {
	opts, _, _ := testOptions()
	s := NewStroop(opts)
	p := &fakeProvider{err: errors.New("connection refused")}

	deliver(t, s, p)
	if s.Phase() != PhaseFailed {
		t.Fatalf("phase = %s, want failed", s.Phase())
	}
	var fe *content.FetchError
	if !errors.As(s.Err(), &fe) || fe.Kind != "stroop" {
		t.Fatalf("err = %v, want FetchError for stroop", s.Err())
	}

	p.err = nil
	p.stroop = &content.StroopSet{Items: []content.StroopItem{{ID: 1, Word: "RED", DisplayColor: "#0000FF", CorrectAnswer: "blue"}}}
	deliver(t, s, p)
	if s.Phase() != PhaseActive || s.Err() != nil {
		t.Errorf("after retry phase = %s, err = %v", s.Phase(), s.Err())
	}
}

func TestTickRouting(t *testing.T) {
	opts, clk, _ := testOptions()
	a := NewArithmetic(opts)
	deliver(t, a, &fakeProvider{arithmetic: arithmeticSet(1)})

	tick := a.TakeSchedule().Ticks[0]
	tick.At = clk.add(time.Second)
	if !a.Tick(tick) {
		t.Error("live tick should continue")
	}
	if a.Timer().Seconds() != 119 {
		t.Errorf("seconds = %d, want 119", a.Timer().Seconds())
	}
	if a.Tick(timer.TickMsg{ID: 0, At: clk.add(time.Second)}) {
		t.Error("tick for unknown timer should end its chain")
	}
}

func TestNew(t *testing.T) {
	for _, k := range Order {
		c, err := New(k, Options{})
		if err != nil {
			t.Fatalf("New(%s): %v", k, err)
		}
		if c.Kind() != k || c.Phase() != PhaseLoading {
			t.Errorf("New(%s) = kind %s phase %s", k, c.Kind(), c.Phase())
		}
	}
	if _, err := New("juggling", Options{}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("stroop")
	if err != nil || k != KindStroop {
		t.Errorf("ParseKind(stroop) = %s, %v", k, err)
	}
	if _, err := ParseKind("nope"); err == nil {
		t.Error("expected error")
	}
}
