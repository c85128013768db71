// Package llm talks to hosted language models for generated exercise
// content. Every backend returns JSON that has been validated against the
// request's schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured content.
type Provider interface {
	// Generate sends a prompt and returns the model's output. When
	// req.Schema is set the output is JSON conforming to it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend, e.g. "anthropic".
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, selects the backend's native structured output.
	Schema *Schema

	MaxTokens int

	// Temperature in 0.0 - 1.0; zero leaves the backend default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema is the JSON Schema a response must satisfy.
type Schema struct {
	// Name is kebab-case and unique per definition; compiled schemas are
	// cached under it.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
