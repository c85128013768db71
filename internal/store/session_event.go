package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	_, err := r.insert(ctx, SessionEventsTable.Name,
		[]string{"session_id", "action", "start_exercise", "exercises_planned", "exercises_completed", "total_score", "duration_secs"},
		[]any{data.SessionID, data.Action, data.StartExercise, data.ExercisesPlanned, data.ExercisesCompleted, data.TotalScore, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendResult(ctx context.Context, data ResultEventData) (int64, error) {
	var details any
	if len(data.Details) > 0 {
		b, err := json.Marshal(data.Details)
		if err != nil {
			return 0, fmt.Errorf("marshal result details: %w", err)
		}
		details = string(b)
	}

	seq, err := r.insert(ctx, ResultEventsTable.Name,
		[]string{"session_id", "exercise_type", "score", "time_seconds", "correct_answers", "total_questions", "details"},
		[]any{data.SessionID, data.ExerciseType, data.Score, data.TimeSeconds, data.CorrectAnswers, data.TotalQuestions, details},
	)
	if err != nil {
		return 0, fmt.Errorf("save result event: %w", err)
	}
	return seq, nil
}

func (r *eventRepo) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	for _, table := range []string{SessionEventsTable.Name, ResultEventsTable.Name} {
		query, args := builder().Select(entsql.Count("*")).
			From(entsql.Table(table)).
			Where(entsql.EQ("session_id", sessionID)).
			Query()
		var n int
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return false, fmt.Errorf("query session %s: %w", sessionID, err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *eventRepo) SessionResults(ctx context.Context, sessionID string) ([]ResultEvent, error) {
	query, args := builder().
		Select("sequence", "timestamp", "session_id", "exercise_type", "score", "time_seconds", "correct_answers", "total_questions", "details").
		From(entsql.Table(ResultEventsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	var out []ResultEvent
	for rows.Next() {
		var (
			ev      ResultEvent
			details sql.NullString
		)
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.SessionID, &ev.ExerciseType, &ev.Score,
			&ev.TimeSeconds, &ev.CorrectAnswers, &ev.TotalQuestions, &details); err != nil {
			return nil, fmt.Errorf("scan result event: %w", err)
		}
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &ev.Details); err != nil {
				return nil, fmt.Errorf("unmarshal result details: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type sessionRow struct {
	sequence   int64
	timestamp  time.Time
	sessionID  string
	action     string
	planned    int
	totalScore int
}

func (r *eventRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	preds := []*entsql.Predicate{entsql.EQ("action", ActionStart)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}

	sel := builder().
		Select("sequence", "timestamp", "session_id", "action", "exercises_planned", "total_score").
		From(entsql.Table(SessionEventsTable.Name)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	starts, err := r.sessionRows(ctx, sel)
	if err != nil {
		return nil, err
	}

	out := make([]SessionRecord, 0, len(starts))
	for _, s := range starts {
		rec := SessionRecord{
			SessionID: s.sessionID,
			StartedAt: s.timestamp,
			Status:    ActionStart,
			Planned:   s.planned,
		}

		later, err := r.sessionRows(ctx, builder().
			Select("sequence", "timestamp", "session_id", "action", "exercises_planned", "total_score").
			From(entsql.Table(SessionEventsTable.Name)).
			Where(entsql.And(
				entsql.EQ("session_id", s.sessionID),
				entsql.GT("sequence", s.sequence),
			)).
			OrderBy("sequence"))
		if err != nil {
			return nil, err
		}
		for _, ev := range later {
			rec.Status = ev.action
			if ev.action == ActionEnd {
				rec.EndedAt = ev.timestamp
			}
		}

		rec.Results, err = r.SessionResults(ctx, s.sessionID)
		if err != nil {
			return nil, err
		}
		for _, res := range rec.Results {
			rec.TotalScore += res.Score
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *eventRepo) sessionRows(ctx context.Context, sel *entsql.Selector) ([]sessionRow, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []sessionRow
	for rows.Next() {
		var s sessionRow
		if err := rows.Scan(&s.sequence, &s.timestamp, &s.sessionID, &s.action, &s.planned, &s.totalScore); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
