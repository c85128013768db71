// Package config loads braingym settings from an optional YAML file and
// BRAINGYM_* environment variables.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Content ContentConfig `mapstructure:"content" validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
}

// Content sources.
const (
	SourceLocal = "local"
	SourceHTTP  = "http"
	SourceLLM   = "llm"
)

// ContentConfig selects where exercise content comes from.
type ContentConfig struct {
	Source  string        `mapstructure:"source" validate:"required,oneof=local http llm"`
	BaseURL string        `mapstructure:"base_url" validate:"required_if=Source http,omitempty,url"`
	Catalog string        `mapstructure:"catalog"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// Retries applies to the http source only.
	Retries int `mapstructure:"retries" validate:"gte=0,lte=10"`
	// Seed fixes content selection and option order; 0 picks a random seed.
	Seed uint64 `mapstructure:"seed"`
}

// SessionConfig tunes pacing between and within exercises.
type SessionConfig struct {
	TransitionDelay    time.Duration `mapstructure:"transition_delay" validate:"gte=0"`
	ArithmeticFeedback time.Duration `mapstructure:"arithmetic_feedback" validate:"gt=0"`
	StroopFeedback     time.Duration `mapstructure:"stroop_feedback" validate:"gt=0"`
}

// StoreConfig locates the SQLite database. An empty path uses the XDG
// data directory.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	// File receives TUI logs; empty means the XDG state directory.
	File string `mapstructure:"file"`
}

// ServerConfig configures `braingym serve`.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required,hostname_port"`
	RateLimit       float64       `mapstructure:"rate_limit" validate:"gt=0"`
	Burst           int           `mapstructure:"burst" validate:"gte=1"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// LLMConfig configures the generated-content source.
type LLMConfig struct {
	Provider   string         `mapstructure:"provider" validate:"required,oneof=auto anthropic openai gemini openrouter mock"`
	Timeout    time.Duration  `mapstructure:"timeout" validate:"gt=0"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Retry      LLMRetryConfig `mapstructure:"retry"`
}

// ProviderConfig holds one LLM backend's credentials.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// LLMRetryConfig configures retries for transient LLM failures.
type LLMRetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1"`
	InitialWait time.Duration `mapstructure:"initial_wait" validate:"gt=0"`
	MaxWait     time.Duration `mapstructure:"max_wait" validate:"gtefield=InitialWait"`
	Multiplier  float64       `mapstructure:"multiplier" validate:"gte=1"`
}
