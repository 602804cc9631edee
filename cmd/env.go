package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/assistant"
	"github.com/neurotrack/neurotrack/internal/config"
	"github.com/neurotrack/neurotrack/internal/llm"
	"github.com/neurotrack/neurotrack/internal/logging"
	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/store"
)

// env is what every command needs: resolved settings, a logger and the open
// store.
type env struct {
	settings config.Settings
	logger   *zap.Logger
	store    *store.Store
}

// resolveConfigPath follows --config, then NEUROTRACK_CONFIG, then the XDG
// default.
func resolveConfigPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	if p := os.Getenv("NEUROTRACK_CONFIG"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func openEnv(cmd *cobra.Command) (*env, error) {
	file, err := config.LoadConfig(resolveConfigPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settings := config.Resolve(file)

	logger, err := logging.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		logger = zap.NewNop()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))

	return &env{settings: settings, logger: logger, store: st}, nil
}

func (e *env) Close() {
	_ = e.store.Close()
	_ = e.logger.Sync()
}

// assistant builds the chat assistant. Without a configured provider it
// answers with its canned fallback replies.
func (e *env) assistant(cmd *cobra.Command) *assistant.Service {
	provider, err := llm.NewProviderFromEnv(cmd.Context(), llm.Overrides{
		Provider: e.settings.LLMProvider,
		Model:    e.settings.LLMModel,
		APIKey:   e.settings.LLMAPIKey,
	}, e.store.EventRepo(), e.logger.Named("llm"))
	if err != nil {
		e.logger.Info("LLM provider not configured", zap.Error(err))
		provider = nil
	}
	return assistant.NewService(provider, assistant.Config{
		UserName: e.settings.UserName,
		Persona:  e.settings.Persona,
		Fallback: e.settings.Fallback,
	}, e.logger.Named("assistant"))
}

// score reads the persisted score without starting a tracker.
func (e *env) score(cmd *cobra.Command) int {
	return progression.ReadScore(cmd.Context(), e.store.KVRepo(), e.settings.DefaultScore, e.logger)
}
