package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.insert(ctx, LLMRequestEventsTable.Name,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendFetch(ctx context.Context, data FetchEventData) error {
	_, err := r.insert(ctx, FetchEventsTable.Name,
		[]string{"source", "operation", "exercise_type", "latency_ms", "success", "status", "error_message"},
		[]any{data.Source, data.Operation, data.ExerciseType, data.LatencyMs, data.Success, data.Status, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save fetch event: %w", err)
	}
	return nil
}
