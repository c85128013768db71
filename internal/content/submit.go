package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/abhisek/braingym/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSubmission checks the submission's field constraints.
func ValidateSubmission(sub ResultSubmission) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
		}
		err = fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
	}
	return &SubmitError{ExerciseType: sub.ExerciseType, Err: err}
}

// StoreSink records submissions in the event log. A submission without a
// session id opens a new session first so the result is never orphaned.
type StoreSink struct {
	repo store.EventRepo
}

var _ ResultSink = (*StoreSink)(nil)

// NewStoreSink creates a sink backed by repo.
func NewStoreSink(repo store.EventRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) RecordResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
	sessionID := sub.SessionID
	if sessionID == "" {
		var err error
		if sessionID, err = s.OpenSession(ctx); err != nil {
			return nil, err
		}
	}
	seq, err := s.repo.AppendResult(ctx, store.ResultEventData{
		SessionID:      sessionID,
		ExerciseType:   sub.ExerciseType,
		Score:          sub.Score,
		TimeSeconds:    sub.TimeSeconds,
		CorrectAnswers: sub.CorrectAnswers,
		TotalQuestions: sub.TotalQuestions,
		Details:        sub.Details,
	})
	if err != nil {
		return nil, fmt.Errorf("record result: %w", err)
	}
	return &SubmissionReceipt{ID: seq, SessionID: sessionID}, nil
}

// OpenSession records the start of a new session and returns its id.
func (s *StoreSink) OpenSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: id,
		Action:    store.ActionStart,
	}); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	return id, nil
}
