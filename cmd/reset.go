package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the score and delete all recorded history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This deletes every test result, health log and point award. Type 'yes' to continue: ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if err := e.store.Reset(ctx); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
		tracker := progression.Load(ctx, progression.Config{
			KV:           e.store.KVRepo(),
			Clock:        sched.NewLoop(nil),
			Logger:       e.logger,
			DefaultScore: e.settings.DefaultScore,
		})
		if err := tracker.Reset(ctx); err != nil {
			return fmt.Errorf("reset score: %w", err)
		}

		fmt.Printf("Reset complete. Score is back to %d.\n", tracker.Score())
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
