package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "neurotrack",
	Short: "Daily brain-health companion for the terminal",
	Long: "NeuroTrack keeps older adults engaged with short memory tests and daily health tasks,\n" +
		"rewarding each one with points and levels, and builds a trend report to share with a doctor.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NEUROTRACK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides NEUROTRACK_CONFIG env var)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(trialsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then NEUROTRACK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("NEUROTRACK_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
