package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/app"
	"github.com/neurotrack/neurotrack/internal/selfupdate"
	"github.com/neurotrack/neurotrack/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	dataDir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		dataDir = filepath.Dir(p)
	}

	svc := e.assistant(cmd)
	if !svc.Available() {
		fmt.Fprintln(os.Stderr, "LLM provider not configured; the assistant will use offline replies.")
	}

	checker := selfupdate.NewChecker(selfupdate.WithTimeout(3 * time.Second))
	e.logger.Info("starting", zap.String("version", version), zap.String("data_dir", dataDir))

	return app.Run(cmd.Context(), app.Options{
		Store:           e.store,
		Settings:        e.settings,
		Logger:          e.logger,
		Assistant:       svc,
		AssistantOnline: svc.Available(),
		DataDir:         dataDir,
		CheckUpdate: func(ctx context.Context) (string, error) {
			return checker.Latest(ctx, version)
		},
	})
}
