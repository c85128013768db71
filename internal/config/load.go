package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/abhisek/braingym/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g.
// BRAINGYM_CONTENT_SOURCE for content.source.
const EnvPrefix = "BRAINGYM"

func setDefaults(v *viper.Viper) {
	v.SetDefault("content.source", SourceLocal)
	v.SetDefault("content.base_url", "")
	v.SetDefault("content.catalog", "")
	v.SetDefault("content.timeout", 10*time.Second)
	v.SetDefault("content.retries", 2)
	v.SetDefault("content.seed", 0)

	v.SetDefault("session.transition_delay", 2*time.Second)
	v.SetDefault("session.arithmetic_feedback", 300*time.Millisecond)
	v.SetDefault("session.stroop_feedback", 400*time.Millisecond)

	v.SetDefault("store.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("server.addr", "127.0.0.1:8000")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("llm.provider", "auto")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.anthropic.model", "claude-haiku")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.gemini.model", "gemini-flash")
	v.SetDefault("llm.openrouter.model", "google/gemini-2.0-flash-exp")
	v.SetDefault("llm.openrouter.base_url", "https://openrouter.ai/api/v1")
	for _, p := range []string{"anthropic", "openai", "gemini"} {
		v.SetDefault("llm."+p+".api_key", "")
		v.SetDefault("llm."+p+".base_url", "")
	}
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.initial_wait", time.Second)
	v.SetDefault("llm.retry.max_wait", 10*time.Second)
	v.SetDefault("llm.retry.multiplier", 2.0)
}

// The vendors' own variable names are accepted as fallbacks for API keys.
var vendorKeys = map[string]string{
	"llm.anthropic.api_key":  "ANTHROPIC_API_KEY",
	"llm.openai.api_key":     "OPENAI_API_KEY",
	"llm.gemini.api_key":     "GEMINI_API_KEY",
	"llm.openrouter.api_key": "OPENROUTER_API_KEY",
}

// Load reads configuration. When path is empty, config.yaml in
// DefaultConfigDir is used if present; an explicit path must exist.
// Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, vendor := range vendorKeys {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, vendor); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks struct tags and reports every failing field.
func Validate(cfg *Config) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", configKey(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// configKey turns "Config.Server.RateLimit" into "server.ratelimit".
func configKey(ns string) string {
	ns = strings.TrimPrefix(ns, "Config.")
	return strings.ToLower(ns)
}

// LogFile returns the configured log file or the XDG default.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return DefaultLogPath()
}

// CatalogFile returns the configured catalog path or the XDG default.
func (c *Config) CatalogFile() string {
	if c.Content.Catalog != "" {
		return filepath.Clean(c.Content.Catalog)
	}
	return DefaultCatalogPath()
}

// Settings converts the llm section into the llm package's configuration.
func (c LLMConfig) Settings() llm.Config {
	backend := func(p ProviderConfig) llm.BackendConfig {
		return llm.BackendConfig{APIKey: p.APIKey, Model: p.Model, BaseURL: p.BaseURL}
	}
	return llm.Config{
		Provider:   c.Provider,
		Anthropic:  backend(c.Anthropic),
		OpenAI:     backend(c.OpenAI),
		Gemini:     backend(c.Gemini),
		OpenRouter: backend(c.OpenRouter),
		Retry: llm.RetryConfig{
			MaxAttempts: c.Retry.MaxAttempts,
			InitialWait: c.Retry.InitialWait,
			MaxWait:     c.Retry.MaxWait,
			Multiplier:  c.Retry.Multiplier,
		},
		Timeout: c.Timeout,
	}
}
