package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/braingym/internal/config"
	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/llm"
	"github.com/abhisek/braingym/internal/store"
)

const compatTimeout = 5 * time.Second

// buildProvider assembles the configured content source. Every source is
// wrapped so fetches and submissions are logged and recorded.
func buildProvider(ctx context.Context, cfg *config.Config, repo store.EventRepo, logger *slog.Logger) (content.Provider, error) {
	var p content.Provider
	switch cfg.Content.Source {
	case config.SourceLocal:
		local, err := buildLocal(cfg, repo)
		if err != nil {
			return nil, err
		}
		p = local

	case config.SourceHTTP:
		client, err := content.NewHTTPClient(cfg.Content.BaseURL,
			content.WithTimeout(cfg.Content.Timeout),
			content.WithVersion(version),
		)
		if err != nil {
			return nil, err
		}
		cctx, cancel := context.WithTimeout(ctx, compatTimeout)
		defer cancel()
		if err := client.CheckCompatibility(cctx); err != nil {
			return nil, fmt.Errorf("content server %s: %w", cfg.Content.BaseURL, err)
		}
		policy := content.DefaultRetryPolicy
		policy.Attempts = cfg.Content.Retries + 1
		p = content.WithRetry(client, policy)

	case config.SourceLLM:
		local, err := buildLocal(cfg, repo)
		if err != nil {
			return nil, err
		}
		model, err := llm.NewProvider(ctx, cfg.LLM.Settings(), repo, logger)
		if err != nil {
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		logger.Info("generating content", slog.String("provider", model.Name()), slog.String("model", model.ModelID()))
		p = content.NewGenerated(local, model, logger)

	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}
	return content.WithLogging(p, cfg.Content.Source, repo, logger), nil
}

func buildLocal(cfg *config.Config, repo store.EventRepo) (*content.Local, error) {
	cat, err := content.LoadCatalog(cfg.CatalogFile())
	if err != nil {
		return nil, err
	}
	var sink content.ResultSink
	if repo != nil {
		sink = content.NewStoreSink(repo)
	}
	return content.NewLocal(cat, sink, cfg.Content.Seed), nil
}
