package llm

import (
	"encoding/json"
	"net/http"
	"time"
)

// Backend names accepted by Config.Provider.
const (
	NameAuto       = "auto"
	NameAnthropic  = "anthropic"
	NameOpenAI     = "openai"
	NameGemini     = "gemini"
	NameOpenRouter = "openrouter"
	NameMock       = "mock"
)

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// aliases maps friendly model names to concrete model IDs for every backend.
var aliases = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"gemini-flash":  "gemini-2.0-flash",
	"gemini-pro":    "gemini-2.0-pro",
}

// resolveModel maps a friendly name to a model ID; unknown names pass
// through so direct IDs work.
func resolveModel(name string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

func httpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// reply builds a Response from raw backend output, validating it against the
// request schema and rejecting truncated output.
func reply(req Request, raw string, model, stop string, usage Usage) (*Response, error) {
	content := json.RawMessage(raw)
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
