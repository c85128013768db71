package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/braingym/internal/store"
)

type resultRepo struct {
	store.EventRepo
	sessions []store.SessionEventData
	results  []store.ResultEventData
	err      error
}

func (r *resultRepo) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	if r.err != nil {
		return r.err
	}
	r.sessions = append(r.sessions, d)
	return nil
}

func (r *resultRepo) AppendResult(_ context.Context, d store.ResultEventData) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.results = append(r.results, d)
	return int64(len(r.results) + len(r.sessions)), nil
}

func TestStoreSink_WithSession(t *testing.T) {
	repo := &resultRepo{}
	sink := NewStoreSink(repo)

	rec, err := sink.RecordResult(context.Background(), ResultSubmission{
		SessionID:      "s1",
		ExerciseType:   TypeStroop,
		Score:          40,
		TimeSeconds:    120,
		CorrectAnswers: 40,
		TotalQuestions: 50,
		Details:        map[string]any{"dropped": 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", rec.SessionID)
	assert.Empty(t, repo.sessions)
	require.Len(t, repo.results, 1)
	assert.Equal(t, store.ResultEventData{
		SessionID:      "s1",
		ExerciseType:   TypeStroop,
		Score:          40,
		TimeSeconds:    120,
		CorrectAnswers: 40,
		TotalQuestions: 50,
		Details:        map[string]any{"dropped": 0},
	}, repo.results[0])
}

func TestStoreSink_OpensSessionWhenMissing(t *testing.T) {
	repo := &resultRepo{}
	rec, err := NewStoreSink(repo).RecordResult(context.Background(), ResultSubmission{ExerciseType: TypeCounting, TimeSeconds: 61})
	require.NoError(t, err)

	require.Len(t, repo.sessions, 1)
	assert.Equal(t, store.ActionStart, repo.sessions[0].Action)
	assert.NotEmpty(t, rec.SessionID)
	assert.Equal(t, rec.SessionID, repo.sessions[0].SessionID)
	assert.Equal(t, rec.SessionID, repo.results[0].SessionID)
	assert.Equal(t, int64(2), rec.ID)
}

func TestStoreSink_RepoFailure(t *testing.T) {
	boom := errors.New("locked")
	_, err := NewStoreSink(&resultRepo{err: boom}).RecordResult(context.Background(), ResultSubmission{SessionID: "s", ExerciseType: TypeReading})
	assert.ErrorIs(t, err, boom)
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name    string
		sub     ResultSubmission
		wantErr bool
	}{
		{"valid", ResultSubmission{ExerciseType: TypeArithmetic, Score: 3, CorrectAnswers: 3, TotalQuestions: 5}, false},
		{"missing type", ResultSubmission{}, true},
		{"unknown type", ResultSubmission{ExerciseType: "chess"}, true},
		{"negative score", ResultSubmission{ExerciseType: TypeStroop, Score: -1}, true},
		{"negative time", ResultSubmission{ExerciseType: TypeReading, TimeSeconds: -2}, true},
		{"more correct than total", ResultSubmission{ExerciseType: TypeMemory, CorrectAnswers: 4, TotalQuestions: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.sub)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var se *SubmitError
			assert.ErrorAs(t, err, &se)
		})
	}
}
