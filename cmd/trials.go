package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/store"
	"github.com/neurotrack/neurotrack/internal/trial"
)

var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "List recent memory test results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("--limit must be positive")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		trials, err := e.store.TrialRepo().RecentTrials(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query trials: %w", err)
		}
		if len(trials) == 0 {
			fmt.Println("No memory tests recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-7s  %-11s  %-7s  %s\n", "Timestamp", "Score", "Digits", "Answer", "Time")
		fmt.Println(strings.Repeat("─", 64))
		for _, t := range trials {
			answer := t.Answer
			if answer == "" {
				answer = "-"
			}
			fmt.Printf("%-19s  %d / %d    %-11s  %-7s  %.1fs\n",
				t.Timestamp.Local().Format("2006-01-02 15:04:05"),
				t.Score, trial.SequenceLength, t.Digits, answer, t.ResponseTime)
		}
		return nil
	},
}

func init() {
	trialsCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
}
