package llm

import (
	"context"
	"strings"
	"testing"
)

func TestConfig_Resolve(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
		ok     bool
	}{
		{"explicit provider kept", func(c *Config) { c.Provider = NameAnthropic }, NameAnthropic, true},
		{"auto with no keys", func(c *Config) {}, NameAuto, false},
		{"auto prefers gemini", func(c *Config) {
			c.Gemini.APIKey = "g"
			c.Anthropic.APIKey = "a"
		}, NameGemini, true},
		{"auto falls through to openrouter", func(c *Config) { c.OpenRouter.APIKey = "o" }, NameOpenRouter, true},
		{"auto picks openai before anthropic", func(c *Config) {
			c.OpenAI.APIKey = "o"
			c.Anthropic.APIKey = "a"
		}, NameOpenAI, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			got, ok := cfg.Resolve()
			if ok != tt.ok || got.Provider != tt.want {
				t.Fatalf("Resolve() = %q, %v; want %q, %v", got.Provider, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mock needs nothing", Config{Provider: NameMock}, ""},
		{"anthropic with key", Config{Provider: NameAnthropic, Anthropic: BackendConfig{APIKey: "k"}}, ""},
		{"anthropic without key", Config{Provider: NameAnthropic}, "BRAINGYM_LLM_ANTHROPIC_API_KEY"},
		{"openrouter without key", Config{Provider: NameOpenRouter}, "BRAINGYM_LLM_OPENROUTER_API_KEY"},
		{"auto without keys", Config{Provider: NameAuto}, "no LLM API key"},
		{"auto with a key", Config{Provider: NameAuto, Gemini: BackendConfig{APIKey: "k"}}, ""},
		{"unknown", Config{Provider: "llama"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: NameMock}, nil, nil)
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	if p.Name() != NameMock {
		t.Fatalf("name = %q", p.Name())
	}

	if _, err := NewProvider(context.Background(), DefaultConfig(), nil, nil); err == nil {
		t.Fatal("expected error for auto without keys")
	}

	cfg := DefaultConfig()
	cfg.OpenRouter.APIKey = "k"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("openrouter: %v", err)
	}
	if p.Name() != NameOpenRouter || p.ModelID() != "google/gemini-2.0-flash-exp" {
		t.Fatalf("got %s/%s", p.Name(), p.ModelID())
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry wrapper, got %T", p)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("claude-haiku"); got != "claude-haiku-4-5-20251001" {
		t.Fatalf("alias = %q", got)
	}
	if got := resolveModel("gpt-4.1-nano"); got != "gpt-4.1-nano" {
		t.Fatalf("passthrough = %q", got)
	}
}
