package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/braingym/internal/app"
	"github.com/abhisek/braingym/internal/exercise"
)

var playCmd = &cobra.Command{
	Use:   "play [exercise]",
	Short: "Start a training session",
	Long: `Start a training session right away, skipping the home screen.

With an exercise name (counting, arithmetic, reading, stroop, memory) the
session starts at that exercise and runs the rest in order.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"counting", "arithmetic", "reading", "stroop", "memory"},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.Options{StartSession: true}
		if len(args) == 1 {
			kind, err := exercise.ParseKind(args[0])
			if err != nil {
				return err
			}
			opts.Start = kind
		}
		return runApp(cmd, opts)
	},
}
