package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
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

// DefaultConfig returns the defaults. Advice is short, so the small model
// of each vendor is used.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// envLookup reads one variable; tests substitute it.
var envLookup = os.Getenv

// ConfigFromEnv builds a Config from MATHPACE_* variables on top of the
// defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	set := func(dst *string, key string) {
		if v := envLookup(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "MATHPACE_LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "MATHPACE_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "MATHPACE_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "MATHPACE_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "MATHPACE_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "MATHPACE_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "MATHPACE_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "MATHPACE_GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "MATHPACE_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "MATHPACE_OPENROUTER_MODEL")

	if d, err := time.ParseDuration(envLookup("MATHPACE_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// DiscoverConfig probes the standard vendor API key variables and returns
// a Config for the first one found, in the order Anthropic, OpenAI,
// Gemini, OpenRouter.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case envLookup("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = envLookup("ANTHROPIC_API_KEY")
	case envLookup("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = envLookup("OPENAI_API_KEY")
	case envLookup("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = envLookup("GEMINI_API_KEY")
	case envLookup("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = envLookup("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider (set MATHPACE_%s_API_KEY)",
			c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}
