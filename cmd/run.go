package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/braingym/internal/app"
	"github.com/abhisek/braingym/internal/logging"
	"github.com/abhisek/braingym/internal/screens/training"
)

// runApp opens the store, builds the content provider, and launches the TUI.
func runApp(cmd *cobra.Command, opts app.Options) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger, err := logging.Setup(cfg.Log.Level, logFile)
	if err != nil {
		return err
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	repo := st.EventRepo()

	provider, err := buildProvider(ctx, cfg, repo, logger)
	if err != nil {
		return fmt.Errorf("content provider: %w", err)
	}
	logger.Info("starting braingym", slog.String("version", version), slog.String("source", cfg.Content.Source))

	opts.Training = training.Config{
		Provider:           provider,
		Repo:               repo,
		Logger:             logger,
		Start:              opts.Start,
		TransitionDelay:    cfg.Session.TransitionDelay,
		ArithmeticFeedback: cfg.Session.ArithmeticFeedback,
		StroopFeedback:     cfg.Session.StroopFeedback,
		RequestTimeout:     cfg.Content.Timeout,
		Seed:               cfg.Content.Seed,
	}
	return app.Run(opts)
}
