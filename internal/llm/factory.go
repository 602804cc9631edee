package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/store"
)

// NewProvider creates a Provider from configuration. Real backends come back
// wrapped as caller → retry → logging → base. eventRepo may be nil, in which
// case requests are not recorded.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	return WithRetry(logged, cfg.Retry), nil
}

// NewProviderFromEnv resolves the configuration with ResolveConfig and builds
// the provider.
func NewProviderFromEnv(ctx context.Context, o Overrides, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	cfg, err := ResolveConfig(o)
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo, logger)
}
