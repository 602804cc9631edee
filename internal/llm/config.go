package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend; see the Provider* constants.
	Provider string

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Overrides carries provider settings from the config file. Empty fields
// are ignored.
type Overrides struct {
	Provider string
	Model    string
	APIKey   string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from NEUROTRACK_* variables, falling back to
// defaults for unset values.
func ConfigFromEnv() Config {
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) Config {
	cfg := DefaultConfig()
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "NEUROTRACK_LLM_PROVIDER")
	set(&cfg.Gemini.APIKey, "NEUROTRACK_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "NEUROTRACK_GEMINI_MODEL")
	set(&cfg.Anthropic.APIKey, "NEUROTRACK_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "NEUROTRACK_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "NEUROTRACK_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "NEUROTRACK_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "NEUROTRACK_OPENAI_BASE_URL")
	set(&cfg.OpenRouter.APIKey, "NEUROTRACK_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "NEUROTRACK_OPENROUTER_MODEL")
	return cfg
}

// DiscoverConfig probes the vendors' standard API key variables in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first one found.
func DiscoverConfig() (Config, bool) {
	return discoverConfig(os.Getenv)
}

func discoverConfig(getenv func(string) string) (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = getenv("GEMINI_API_KEY")
	case getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = getenv("OPENAI_API_KEY")
	case getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY")
	case getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// ResolveConfig picks the configuration for this run. An explicit
// NEUROTRACK_LLM_PROVIDER wins, then the config file's provider, then the
// first provider with a key available. Vendor key variables fill any key not
// set through NEUROTRACK_* variables.
func ResolveConfig(o Overrides) (Config, error) {
	return resolveConfig(o, os.Getenv)
}

func resolveConfig(o Overrides, getenv func(string) string) (Config, error) {
	cfg := configFromEnv(getenv)
	fill := func(d *string, key string) {
		if *d == "" {
			*d = getenv(key)
		}
	}
	fill(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	fill(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	fill(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	fill(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")

	switch {
	case getenv("NEUROTRACK_LLM_PROVIDER") != "":
	case o.Provider != "":
		cfg.Provider = o.Provider
	default:
		for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
			cfg.Provider = p
			if cfg.apiKey() != "" {
				break
			}
		}
		if cfg.apiKey() == "" {
			cfg.Provider = ProviderGemini
		}
	}

	if o.Model != "" {
		cfg.setModel(o.Model)
	}
	if o.APIKey != "" && cfg.apiKey() == "" {
		cfg.setAPIKey(o.APIKey)
	}
	return cfg, cfg.Validate()
}

func (c *Config) setModel(m string) {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.Model = m
	case ProviderAnthropic:
		c.Anthropic.Model = m
	case ProviderOpenAI:
		c.OpenAI.Model = m
	case ProviderOpenRouter:
		c.OpenRouter.Model = m
	}
}

func (c *Config) setAPIKey(k string) {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.APIKey = k
	case ProviderAnthropic:
		c.Anthropic.APIKey = k
	case ProviderOpenAI:
		c.OpenAI.APIKey = k
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = k
	}
}

// Model returns the configured model name of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.Model
	case ProviderAnthropic:
		return c.Anthropic.Model
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	}
	return c.Provider
}

func (c Config) apiKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter:
		if c.apiKey() == "" {
			return fmt.Errorf("no API key configured for the %s provider", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
