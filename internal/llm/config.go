package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures a provider. It is parsed from the
// environment by the config package; the tags are relative to its
// ALGOQUEST_LLM_ prefix.
type Config struct {
	// Provider is empty when the tutor is disabled.
	Provider string        `env:"PROVIDER"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"30s"`

	Anthropic AnthropicConfig `envPrefix:"ANTHROPIC_"`
	OpenAI    OpenAIConfig    `envPrefix:"OPENAI_"`
	Gemini    GeminiConfig    `envPrefix:"GEMINI_"`
	Retry     RetryConfig     `envPrefix:"RETRY_"`
}

// AnthropicConfig holds Anthropic credentials and model.
type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-haiku"`
}

// OpenAIConfig holds OpenAI credentials and model. BaseURL points the
// client at any OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"`
}

// GeminiConfig holds Gemini credentials and model.
type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-flash"`
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// Enabled reports whether a provider was selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	missing := func(name string) error {
		return fmt.Errorf("ALGOQUEST_LLM_%s_API_KEY is required for the %s provider", strings.ToUpper(name), c.Provider)
	}
	switch c.Provider {
	case "", ProviderMock:
		return nil
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return missing(ProviderAnthropic)
		}
	case ProviderOpenAI, ProviderOpenRouter:
		if c.OpenAI.APIKey == "" {
			return missing(ProviderOpenAI)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return missing(ProviderGemini)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
