package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/logging"
)

var contentKinds = []string{content.TypeArithmetic, content.TypeReading, content.TypeStroop, content.TypeMemory}

var contentCmd = &cobra.Command{
	Use:   "content <arithmetic|reading|stroop|memory|all>",
	Short: "Fetch exercise content from the configured source and print it as JSON",
	Long: `Fetch exercise content the way a session would and print it as JSON.

This is a developer tool for checking a catalog, a content server or an LLM
backend. Nothing is recorded apart from the request logs.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: append([]string{"all"}, contentKinds...),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := buildProvider(ctx, cfg, st.EventRepo(), logging.Discard())
		if err != nil {
			return fmt.Errorf("content provider: %w", err)
		}

		var out any
		if args[0] == "all" {
			out, err = fetchAll(ctx, provider)
		} else {
			out, err = fetchContent(ctx, provider, args[0])
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func fetchContent(ctx context.Context, p content.Provider, kind string) (any, error) {
	switch kind {
	case content.TypeArithmetic:
		return p.Arithmetic(ctx)
	case content.TypeReading:
		return p.Reading(ctx)
	case content.TypeStroop:
		return p.Stroop(ctx)
	case content.TypeMemory:
		return p.Memory(ctx)
	case content.TypeCounting:
		return nil, fmt.Errorf("%s has no content", kind)
	default:
		return nil, fmt.Errorf("unknown exercise %q", kind)
	}
}

// fetchAll fetches every content kind concurrently.
func fetchAll(ctx context.Context, p content.Provider) (map[string]any, error) {
	var mu sync.Mutex
	out := make(map[string]any, len(contentKinds))
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range contentKinds {
		g.Go(func() error {
			v, err := fetchContent(gctx, p, kind)
			if err != nil {
				return err
			}
			mu.Lock()
			out[kind] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
