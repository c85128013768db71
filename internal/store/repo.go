package store

import (
	"context"
	"time"
)

// now is the event timestamp source.
var now = func() time.Time { return time.Now().UTC() }

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session lifecycle actions.
const (
	ActionStart   = "start"
	ActionEnd     = "end"
	ActionAbandon = "abandon"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID          string
	Action             string
	StartExercise      string
	ExercisesPlanned   int
	ExercisesCompleted int
	TotalScore         int
	DurationSecs       int
}

// ResultEventData captures one finished exercise.
type ResultEventData struct {
	SessionID      string
	ExerciseType   string
	Score          int
	TimeSeconds    float64
	CorrectAnswers int
	TotalQuestions int
	Details        map[string]any
}

// ResultEvent is a stored ResultEventData.
type ResultEvent struct {
	ResultEventData
	Sequence  int64
	Timestamp time.Time
}

// SessionRecord summarizes one stored session.
type SessionRecord struct {
	SessionID  string
	StartedAt  time.Time
	EndedAt    time.Time // zero while in progress or when abandoned
	Status     string    // last lifecycle action
	Planned    int
	TotalScore int
	Results    []ResultEvent
}

// StatusLabel describes how the session ended.
func (r SessionRecord) StatusLabel() string {
	switch r.Status {
	case ActionEnd:
		return "completed"
	case ActionAbandon:
		return "ended"
	default:
		return "open"
	}
}

// FetchEventData captures one content fetch or result submission.
type FetchEventData struct {
	Source       string // local, http, llm
	Operation    string // fetch or submit
	ExerciseType string
	LatencyMs    int64
	Success      bool
	Status       int
	ErrorMessage string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLMRequestEventData.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	ID        int64
	Timestamp time.Time
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to recorded events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendResult records a finished exercise and returns its sequence.
	AppendResult(ctx context.Context, data ResultEventData) (int64, error)

	// AppendFetch records a content fetch or submission.
	AppendFetch(ctx context.Context, data FetchEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// SessionExists reports whether any event was recorded for sessionID.
	SessionExists(ctx context.Context, sessionID string) (bool, error)

	// SessionResults returns a session's results in recording order.
	SessionResults(ctx context.Context, sessionID string) ([]ResultEvent, error)

	// RecentSessions returns started sessions, newest first.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM request event, or nil if not found.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
