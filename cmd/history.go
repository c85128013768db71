package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/screens/history"
	"github.com/abhisek/braingym/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent training sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.EventRepo().RecentSessions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if bests := history.PersonalBests(sessions).String(); bests != "" {
			fmt.Fprintln(cmd.OutOrStdout(), bests)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		printHistory(cmd.OutOrStdout(), sessions, verbose)
		return nil
	},
}

func printHistory(w io.Writer, sessions []store.SessionRecord, verbose bool) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}

	fmt.Fprintf(w, "%-16s  %-9s  %-9s  %5s\n", "Started", "Status", "Exercises", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 46))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-16s  %-9s  %-9s  %5d\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.StatusLabel(),
			fmt.Sprintf("%d/%d", len(s.Results), s.Planned),
			s.TotalScore,
		)
		if !verbose {
			continue
		}
		for _, r := range s.Results {
			fmt.Fprintf(w, "    %-16s  %-16s  score %d\n",
				exercise.Kind(r.ExerciseType).Label(), history.ResultDetail(r), r.Score)
		}
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.Flags().BoolP("verbose", "v", false, "Show each exercise result")
}
