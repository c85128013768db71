package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/braingym/internal/content"
)

const maxBodyBytes = 1 << 20

// resultResponse mirrors the stored result.
type resultResponse struct {
	ID             int64   `json:"id"`
	SessionID      string  `json:"session_id"`
	ExerciseType   string  `json:"exercise_type"`
	Score          int     `json:"score"`
	TimeSeconds    float64 `json:"time_seconds"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, content.Health{Status: "ok", Version: s.version})
}

func (s *Server) arithmetic(w http.ResponseWriter, r *http.Request) {
	v, err := s.provider.Arithmetic(r.Context())
	s.respondContent(w, r, v, err)
}

func (s *Server) reading(w http.ResponseWriter, r *http.Request) {
	v, err := s.provider.Reading(r.Context())
	s.respondContent(w, r, v, err)
}

func (s *Server) stroop(w http.ResponseWriter, r *http.Request) {
	v, err := s.provider.Stroop(r.Context())
	s.respondContent(w, r, v, err)
}

func (s *Server) memory(w http.ResponseWriter, r *http.Request) {
	v, err := s.provider.Memory(r.Context())
	s.respondContent(w, r, v, err)
}

func (s *Server) respondContent(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, content.ErrEmptyCatalog) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, status, "content unavailable", err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, v)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sink.OpenSession(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "could not create session", err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, content.SessionReport{ID: id, Results: []content.SessionResult{}})
}

func (s *Server) postResult(w http.ResponseWriter, r *http.Request) {
	var sub content.ResultSubmission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "malformed JSON body", err)
		return
	}
	if err := content.ValidateSubmission(sub); err != nil {
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}
	if sub.SessionID != "" {
		ok, err := s.repo.SessionExists(r.Context(), sub.SessionID)
		if err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "could not look up session", err)
			return
		}
		if !ok {
			s.respondError(w, r, http.StatusNotFound, "session not found", nil)
			return
		}
	}

	rec, err := s.sink.RecordResult(r.Context(), sub)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "could not save result", err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, resultResponse{
		ID:             rec.ID,
		SessionID:      rec.SessionID,
		ExerciseType:   sub.ExerciseType,
		Score:          sub.Score,
		TimeSeconds:    sub.TimeSeconds,
		CorrectAnswers: sub.CorrectAnswers,
		TotalQuestions: sub.TotalQuestions,
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.repo.SessionExists(r.Context(), id)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "could not look up session", err)
		return
	}
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "session not found", nil)
		return
	}
	events, err := s.repo.SessionResults(r.Context(), id)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "could not load results", err)
		return
	}

	rep := content.SessionReport{ID: id, Results: make([]content.SessionResult, 0, len(events))}
	for _, ev := range events {
		rep.TotalScore += ev.Score
		rep.Results = append(rep.Results, content.SessionResult{
			ID:             ev.Sequence,
			ExerciseType:   ev.ExerciseType,
			Score:          ev.Score,
			TimeSeconds:    ev.TimeSeconds,
			CorrectAnswers: ev.CorrectAnswers,
			TotalQuestions: ev.TotalQuestions,
		})
	}
	s.respondJSON(w, r, http.StatusOK, rep)
}
