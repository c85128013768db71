package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T, sink ResultSink) *Local {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	return NewLocal(c, sink, 42)
}

func TestProblemPool(t *testing.T) {
	pool := problemPool(ArithmeticRules{MaxAddend: 20, MinFactor: 2, MaxFactor: 10})
	// 400 sums, 210 non-negative differences, 81 products.
	require.Len(t, pool, 691)
	for i, p := range pool {
		assert.Equal(t, i+1, p.ID)
		assert.GreaterOrEqual(t, p.Answer, 0, p.Expression)
	}
	assert.Equal(t, Problem{ID: 1, Expression: "1 + 1", Answer: 2}, pool[0])
	assert.Equal(t, "10 × 10", pool[len(pool)-1].Expression)
	assert.Equal(t, 100, pool[len(pool)-1].Answer)
}

func TestLocal_Arithmetic(t *testing.T) {
	l := newTestLocal(t, nil)
	set, err := l.Arithmetic(context.Background())
	require.NoError(t, err)

	assert.Len(t, set.Problems, 50)
	assert.Equal(t, 120, set.TimeLimitSeconds)
	ids := map[int]bool{}
	for _, p := range set.Problems {
		assert.False(t, ids[p.ID], "duplicate problem %d", p.ID)
		ids[p.ID] = true
	}
}

func TestLocal_SeedIsDeterministic(t *testing.T) {
	a, err := newTestLocal(t, nil).Arithmetic(context.Background())
	require.NoError(t, err)
	b, err := newTestLocal(t, nil).Arithmetic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLocal_Stroop(t *testing.T) {
	l := newTestLocal(t, nil)
	set, err := l.Stroop(context.Background())
	require.NoError(t, err)

	require.Len(t, set.Items, 50)
	hexes := map[string]string{}
	for _, c := range l.catalog.Stroop.Colors {
		hexes[c.Name] = c.Hex
	}
	for i, it := range set.Items {
		assert.Equal(t, i+1, it.ID)
		assert.Equal(t, strings.ToUpper(it.Word), it.Word)
		assert.NotEqual(t, strings.ToLower(it.Word), it.CorrectAnswer, "item %d must interfere", it.ID)
		assert.Equal(t, hexes[it.CorrectAnswer], it.DisplayColor)
	}
}

func TestLocal_Memory(t *testing.T) {
	l := newTestLocal(t, nil)
	set, err := l.Memory(context.Background())
	require.NoError(t, err)

	assert.Len(t, set.Words, 12)
	assert.Equal(t, 60, set.MemorizeTimeSeconds)
	assert.Equal(t, 120, set.RecallTimeSeconds)

	seen := map[string]bool{}
	for _, w := range set.Words {
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestLocal_MemoryDropsRepeatsAcrossLists(t *testing.T) {
	c := &Catalog{Memory: MemoryRules{
		Count:       10,
		ListsPerSet: 2,
		Lists: []WordList{
			{Category: "a", Words: []string{"fish", "cat"}},
			{Category: "b", Words: []string{"Fish", "bread", " "}},
		},
	}}
	set, err := NewLocal(c, nil, 1).Memory(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fish", "cat", "bread"}, lower(set.Words))
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func TestLocal_Reading(t *testing.T) {
	l := newTestLocal(t, nil)
	text, err := l.Reading(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, text.Title)
	assert.Equal(t, len(strings.Fields(text.Content)), text.WordCount)
	assert.Greater(t, text.WordCount, 50)
}

func TestLocal_EmptyCatalog(t *testing.T) {
	l := NewLocal(&Catalog{}, nil, 1)
	ctx := context.Background()

	_, err := l.Arithmetic(ctx)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	_, err = l.Stroop(ctx)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	_, err = l.Memory(ctx)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	_, err = l.Reading(ctx)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, TypeReading, fe.Kind)
}

func TestLocal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestLocal(t, nil).Arithmetic(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type sinkFunc func(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error)

func (f sinkFunc) RecordResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
	return f(ctx, sub)
}

func TestLocal_SubmitResult(t *testing.T) {
	var got []ResultSubmission
	sink := sinkFunc(func(_ context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
		got = append(got, sub)
		return &SubmissionReceipt{ID: 7, SessionID: "s1"}, nil
	})
	l := newTestLocal(t, sink)

	rec, err := l.SubmitResult(context.Background(), ResultSubmission{
		SessionID:      "s1",
		ExerciseType:   TypeArithmetic,
		Score:          3,
		TimeSeconds:    12,
		CorrectAnswers: 3,
		TotalQuestions: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Len(t, got, 1)

	_, err = l.SubmitResult(context.Background(), ResultSubmission{ExerciseType: "juggling"})
	var se *SubmitError
	require.ErrorAs(t, err, &se)
	assert.Len(t, got, 1, "invalid submissions never reach the sink")
}

func TestLocal_SubmitResultSinkFailure(t *testing.T) {
	boom := errors.New("disk full")
	l := newTestLocal(t, sinkFunc(func(context.Context, ResultSubmission) (*SubmissionReceipt, error) {
		return nil, boom
	}))
	_, err := l.SubmitResult(context.Background(), ResultSubmission{ExerciseType: TypeCounting, TimeSeconds: 40})
	var se *SubmitError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, boom)
}

func TestLocal_SubmitWithoutSink(t *testing.T) {
	rec, err := newTestLocal(t, nil).SubmitResult(context.Background(), ResultSubmission{SessionID: "x", ExerciseType: TypeReading})
	require.NoError(t, err)
	assert.Equal(t, "x", rec.SessionID)
}
