package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the shared id, sequence and timestamp
// columns. sequence comes from the global counter; timestamp is UTC.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, cols...)
}

func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, c := range append([]string{"timestamp"}, indexed...) {
		for _, col := range cols {
			if col.Name == c {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + c,
					Columns: []*schema.Column{col},
				})
			}
		}
	}
	return t
}

var (
	// SessionEventsColumns holds the columns for the "session_events" table.
	SessionEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "start_exercise", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "exercises_planned", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "exercises_completed", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "total_score", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	)
	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = eventTable("session_events", SessionEventsColumns, "session_id", "action")

	// ResultEventsColumns holds the columns for the "result_events" table.
	ResultEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "exercise_type", Type: field.TypeString},
		&schema.Column{Name: "score", Type: field.TypeInt},
		&schema.Column{Name: "time_seconds", Type: field.TypeFloat64},
		&schema.Column{Name: "correct_answers", Type: field.TypeInt},
		&schema.Column{Name: "total_questions", Type: field.TypeInt},
		&schema.Column{Name: "details", Type: field.TypeJSON, Nullable: true},
	)
	// ResultEventsTable holds the schema information for the "result_events" table.
	ResultEventsTable = eventTable("result_events", ResultEventsColumns, "session_id", "exercise_type")

	// FetchEventsColumns holds the columns for the "fetch_events" table.
	FetchEventsColumns = eventColumns(
		&schema.Column{Name: "source", Type: field.TypeString},
		&schema.Column{Name: "operation", Type: field.TypeString},
		&schema.Column{Name: "exercise_type", Type: field.TypeString},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "status", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	)
	// FetchEventsTable holds the schema information for the "fetch_events" table.
	FetchEventsTable = eventTable("fetch_events", FetchEventsColumns, "exercise_type")

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = eventTable("llm_request_events", LLMRequestEventsColumns, "purpose")

	// SequenceColumns holds the columns for the single-row "global_sequence"
	// table.
	SequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	SequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    SequenceColumns,
		PrimaryKey: []*schema.Column{SequenceColumns[0]},
	}

	// Tables holds the event tables. Reset clears exactly these.
	Tables = []*schema.Table{
		SessionEventsTable,
		ResultEventsTable,
		FetchEventsTable,
		LLMRequestEventsTable,
	}
)
