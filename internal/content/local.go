package content

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/braingym/internal/answer"
)

// Local serves content from a Catalog in-process. It is safe for
// concurrent use.
type Local struct {
	catalog *Catalog
	sink    ResultSink

	mu       sync.Mutex
	rng      *rand.Rand
	problems []Problem
}

var _ Provider = (*Local)(nil)

// NewLocal creates a provider over cat. A zero seed draws from the clock.
// Submissions go to sink; a nil sink accepts and discards them.
func NewLocal(cat *Catalog, sink ResultSink, seed uint64) *Local {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Local{
		catalog:  cat,
		sink:     sink,
		rng:      answer.NewRand(seed),
		problems: problemPool(cat.Arithmetic),
	}
}

func problemPool(r ArithmeticRules) []Problem {
	var out []Problem
	add := func(expr string, ans int) {
		out = append(out, Problem{ID: len(out) + 1, Expression: expr, Answer: ans})
	}
	for a := 1; a <= r.MaxAddend; a++ {
		for b := 1; b <= r.MaxAddend; b++ {
			add(fmt.Sprintf("%d + %d", a, b), a+b)
			if a >= b {
				add(fmt.Sprintf("%d - %d", a, b), a-b)
			}
		}
	}
	for a := r.MinFactor; a <= r.MaxFactor; a++ {
		for b := r.MinFactor; b <= r.MaxFactor; b++ {
			add(fmt.Sprintf("%d × %d", a, b), a*b)
		}
	}
	return out
}

// Arithmetic draws Count distinct problems from the pool.
func (l *Local) Arithmetic(ctx context.Context) (*ArithmeticSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Kind: TypeArithmetic, Err: err}
	}
	if len(l.problems) == 0 {
		return nil, &FetchError{Kind: TypeArithmetic, Err: ErrEmptyCatalog}
	}
	pool := append([]Problem(nil), l.problems...)
	l.mu.Lock()
	answer.Shuffle(pool, l.rng)
	l.mu.Unlock()

	n := min(l.catalog.Arithmetic.Count, len(pool))
	return &ArithmeticSet{
		Problems:         pool[:n],
		TimeLimitSeconds: l.catalog.Arithmetic.TimeLimitSeconds,
	}, nil
}

// Stroop builds Count items, each naming one color and displayed in
// another.
func (l *Local) Stroop(ctx context.Context) (*StroopSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Kind: TypeStroop, Err: err}
	}
	colors := l.catalog.Stroop.Colors
	if len(colors) < 2 {
		return nil, &FetchError{Kind: TypeStroop, Err: ErrEmptyCatalog}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]StroopItem, l.catalog.Stroop.Count)
	for i := range items {
		word := l.rng.IntN(len(colors))
		shown := l.rng.IntN(len(colors) - 1)
		if shown >= word {
			shown++
		}
		items[i] = StroopItem{
			ID:            i + 1,
			Word:          strings.ToUpper(colors[word].Name),
			DisplayColor:  colors[shown].Hex,
			CorrectAnswer: colors[shown].Name,
		}
	}
	return &StroopSet{Items: items, TimeLimitSeconds: l.catalog.Stroop.TimeLimitSeconds}, nil
}

// Memory merges ListsPerSet random lists and returns Count distinct words.
func (l *Local) Memory(ctx context.Context) (*MemoryWords, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Kind: TypeMemory, Err: err}
	}
	rules := l.catalog.Memory
	if len(rules.Lists) == 0 {
		return nil, &FetchError{Kind: TypeMemory, Err: ErrEmptyCatalog}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	order := l.rng.Perm(len(rules.Lists))
	take := len(order)
	if rules.ListsPerSet > 0 {
		take = min(rules.ListsPerSet, take)
	}

	var words []string
	seen := map[string]bool{}
	for _, i := range order[:take] {
		for _, w := range rules.Lists[i].Words {
			key := answer.Normalize(w)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			words = append(words, strings.TrimSpace(w))
		}
	}
	answer.Shuffle(words, l.rng)
	if len(words) > rules.Count {
		words = words[:rules.Count]
	}
	return &MemoryWords{
		Words:               words,
		MemorizeTimeSeconds: rules.MemorizeTimeSeconds,
		RecallTimeSeconds:   rules.RecallTimeSeconds,
	}, nil
}

// Reading returns a random passage.
func (l *Local) Reading(ctx context.Context) (*ReadingText, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Kind: TypeReading, Err: err}
	}
	texts := l.catalog.Reading.Texts
	if len(texts) == 0 {
		return nil, &FetchError{Kind: TypeReading, Err: ErrEmptyCatalog}
	}
	l.mu.Lock()
	i := l.rng.IntN(len(texts))
	l.mu.Unlock()

	body := strings.TrimSpace(texts[i].Content)
	return &ReadingText{
		ID:        i + 1,
		Title:     texts[i].Title,
		Content:   body,
		WordCount: len(strings.Fields(body)),
	}, nil
}

// SubmitResult validates sub and hands it to the sink.
func (l *Local) SubmitResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}
	if l.sink == nil {
		return &SubmissionReceipt{SessionID: sub.SessionID}, nil
	}
	rec, err := l.sink.RecordResult(ctx, sub)
	if err != nil {
		return nil, &SubmitError{ExerciseType: sub.ExerciseType, Err: err}
	}
	return rec, nil
}
