package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/braingym/internal/store"
)

// NewProvider builds the configured backend wrapped as
// caller → retry → logging → backend. repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	resolved, ok := cfg.Resolve()
	if !ok {
		return nil, cfg.Validate()
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	backend := resolved.Backend(resolved.Provider)
	switch resolved.Provider {
	case NameAnthropic:
		base, err = NewAnthropicProvider(backend, resolved.Timeout)
	case NameOpenAI:
		base, err = NewOpenAIProvider(backend, resolved.Timeout)
	case NameOpenRouter:
		base, err = NewOpenRouterProvider(backend, resolved.Timeout)
	case NameGemini:
		base, err = NewGeminiProvider(ctx, backend, resolved.Timeout)
	case NameMock:
		return NewSampleProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", resolved.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", resolved.Provider, err)
	}

	return WithRetry(WithLogging(base, repo, logger), resolved.Retry), nil
}
