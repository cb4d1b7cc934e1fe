package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/mathpace/internal/store"
)

// NewProvider builds the configured provider wrapped as
// retry(logging(base)). repo and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
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
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(WithLogging(base, cfg.Provider, repo, logger), cfg.Retry, logger), nil
}
