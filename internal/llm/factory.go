package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/algoquest/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → logging → base. The mock provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
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
		oc := cfg.OpenAI
		if oc.BaseURL == "" {
			oc.BaseURL = defaultOpenRouterBaseURL
		}
		base, err = NewOpenAIProvider(oc)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("no LLM provider configured")
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, events, logger)
	return WithRetry(logged, cfg.Retry), nil
}
