package llm

import (
	"fmt"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	// Provider is one of auto, anthropic, openai, gemini, openrouter or
	// mock. Auto picks the first backend with an API key.
	Provider string

	Anthropic  BackendConfig
	OpenAI     BackendConfig
	Gemini     BackendConfig
	OpenRouter BackendConfig
	Retry      RetryConfig

	// Timeout bounds a single HTTP round trip to the backend.
	Timeout time.Duration
}

// BackendConfig holds the credentials and model for one backend.
type BackendConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   NameAuto,
		Anthropic:  BackendConfig{Model: "claude-haiku"},
		OpenAI:     BackendConfig{Model: "gpt-4o-mini"},
		Gemini:     BackendConfig{Model: "gemini-flash"},
		OpenRouter: BackendConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: DefaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Resolve replaces the auto provider with the first backend that has a key,
// in the order gemini, openai, anthropic, openrouter. It reports false when
// auto finds no key.
func (c Config) Resolve() (Config, bool) {
	if c.Provider != NameAuto && c.Provider != "" {
		return c, true
	}
	for _, b := range []struct {
		name string
		cfg  BackendConfig
	}{
		{NameGemini, c.Gemini},
		{NameOpenAI, c.OpenAI},
		{NameAnthropic, c.Anthropic},
		{NameOpenRouter, c.OpenRouter},
	} {
		if b.cfg.APIKey != "" {
			c.Provider = b.name
			return c, true
		}
	}
	return c, false
}

// Backend returns the settings of the named backend.
func (c Config) Backend(name string) BackendConfig {
	switch name {
	case NameAnthropic:
		return c.Anthropic
	case NameOpenAI:
		return c.OpenAI
	case NameGemini:
		return c.Gemini
	case NameOpenRouter:
		return c.OpenRouter
	}
	return BackendConfig{}
}

// Validate checks that the selected backend has an API key.
func (c Config) Validate() error {
	switch c.Provider {
	case NameMock:
		return nil
	case NameAuto, "":
		if _, ok := c.Resolve(); !ok {
			return fmt.Errorf("no LLM API key configured; set one of BRAINGYM_LLM_{GEMINI,OPENAI,ANTHROPIC,OPENROUTER}_API_KEY")
		}
		return nil
	case NameAnthropic, NameOpenAI, NameGemini, NameOpenRouter:
		if c.Backend(c.Provider).APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (BRAINGYM_LLM_%s_API_KEY)", c.Provider, envName(c.Provider))
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}

func envName(provider string) string {
	switch provider {
	case NameOpenAI:
		return "OPENAI"
	case NameOpenRouter:
		return "OPENROUTER"
	case NameGemini:
		return "GEMINI"
	}
	return "ANTHROPIC"
}
