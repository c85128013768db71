package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/braingym/internal/config"
	"github.com/abhisek/braingym/internal/logging"
	"github.com/abhisek/braingym/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve exercise content and accept results over HTTP",
	Long: `Run the content server that the http content source talks to.

Content comes from the configured source (local catalog or LLM); the http
source is not allowed here. Results posted to the server are recorded in
the local database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cfg.Content.Source == config.SourceHTTP {
			return fmt.Errorf("serve cannot use the %q content source", config.SourceHTTP)
		}

		logger, err := logging.Setup(cfg.Log.Level, os.Stderr)
		if err != nil {
			return err
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.EventRepo()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := buildProvider(ctx, cfg, repo, logger)
		if err != nil {
			return fmt.Errorf("content provider: %w", err)
		}

		srv, err := server.New(server.Config{
			Provider:  provider,
			Repo:      repo,
			Logger:    logger,
			Version:   version,
			RateLimit: cfg.Server.RateLimit,
			Burst:     cfg.Server.Burst,
		})
		if err != nil {
			return err
		}
		logger.Info("starting content server", slog.String("version", version), slog.String("source", cfg.Content.Source))
		return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
