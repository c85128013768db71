// Package content defines the exercise-content contract and the providers
// that satisfy it: an in-process catalog, a remote HTTP provider and an
// LLM-backed generator.
package content

import (
	"context"
	"strings"
)

// Exercise names as they appear on the wire.
const (
	TypeCounting   = "counting"
	TypeArithmetic = "arithmetic"
	TypeReading    = "reading"
	TypeStroop     = "stroop"
	TypeMemory     = "memory"
)

// Defaults applied when a payload omits its timing fields.
const (
	DefaultTimeLimitSeconds = 120
	DefaultMemorizeSeconds  = 60
	DefaultRecallSeconds    = 120
)

// Problem is a single arithmetic item.
type Problem struct {
	ID         int    `json:"id"`
	Expression string `json:"expression"`
	Answer     int    `json:"answer"`
}

// ArithmeticSet is the arithmetic exercise payload.
type ArithmeticSet struct {
	Problems         []Problem `json:"problems"`
	TimeLimitSeconds int       `json:"time_limit_seconds"`
}

// ReadingText is the reading exercise payload.
type ReadingText struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

// Words returns WordCount, counting the passage when the field is unset.
func (r ReadingText) Words() int {
	if r.WordCount > 0 {
		return r.WordCount
	}
	return len(strings.Fields(r.Content))
}

// StroopItem is one color-word interference item. Word names one color,
// DisplayColor is the hex code of a different color and CorrectAnswer is the
// name of the display color.
type StroopItem struct {
	ID            int    `json:"id"`
	Word          string `json:"word"`
	DisplayColor  string `json:"display_color"`
	CorrectAnswer string `json:"correct_answer"`
}

// StroopSet is the stroop exercise payload.
type StroopSet struct {
	Items            []StroopItem `json:"items"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
}

// MemoryWords is the memory exercise payload.
type MemoryWords struct {
	Words               []string `json:"words"`
	MemorizeTimeSeconds int      `json:"memorize_time_seconds"`
	RecallTimeSeconds   int      `json:"recall_time_seconds"`
}

// ResultSubmission reports one finished exercise. SessionID is optional; a
// provider that receives none starts a new session for the result.
type ResultSubmission struct {
	SessionID      string         `json:"session_id,omitempty"`
	ExerciseType   string         `json:"exercise_type" validate:"required,oneof=counting arithmetic reading stroop memory"`
	Score          int            `json:"score" validate:"gte=0"`
	TimeSeconds    float64        `json:"time_seconds" validate:"gte=0"`
	CorrectAnswers int            `json:"correct_answers" validate:"gte=0,ltefield=TotalQuestions"`
	TotalQuestions int            `json:"total_questions" validate:"gte=0"`
	Details        map[string]any `json:"details,omitempty"`
}

// SubmissionReceipt is returned by a provider that accepted a submission.
type SubmissionReceipt struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
}

// Provider supplies exercise content and accepts finished results.
type Provider interface {
	Arithmetic(ctx context.Context) (*ArithmeticSet, error)
	Reading(ctx context.Context) (*ReadingText, error)
	Stroop(ctx context.Context) (*StroopSet, error)
	Memory(ctx context.Context) (*MemoryWords, error)
	SubmitResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error)
}

// ResultSink persists submissions for the in-process provider.
type ResultSink interface {
	RecordResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error)
}
