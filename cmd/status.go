package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show score, level and recent points",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		score := e.score(cmd)
		fmt.Printf("User:        %s\n", e.settings.UserName)
		fmt.Printf("Score:       %d\n", score)
		fmt.Printf("Level:       %d\n", progression.LevelFor(score))
		fmt.Printf("Progress:    %.0f%% (next level at %d)\n", progression.ProgressFor(score), progression.ThresholdFor(score))

		awards, err := e.store.AwardRepo().RecentAwards(cmd.Context(), store.QueryOpts{Limit: 5})
		if err != nil {
			return fmt.Errorf("query awards: %w", err)
		}
		if len(awards) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Recent points")
		fmt.Println(strings.Repeat("─", 48))
		for _, a := range awards {
			fmt.Printf("%-16s  %+5d  %-16s  %d\n",
				a.Timestamp.Local().Format("2006-01-02 15:04"), a.Points, progression.SourceLabel(a.Source), a.TotalAfter)
		}
		return nil
	},
}
