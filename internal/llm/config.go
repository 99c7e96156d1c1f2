package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures the question-generation backend.
type Config struct {
	// Provider is one of "groq", "anthropic", "openai", "gemini",
	// "openrouter" or "mock".
	Provider string

	Groq       GroqConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig.BaseURL lets any OpenAI-compatible server stand in.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes WithRetry's backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// discoveryOrder ranks providers by cost for quiz-sized prompts. Groq's free
// tier comes first.
var discoveryOrder = []string{"groq", "gemini", "openai", "anthropic", "openrouter"}

// vendorKeyEnv names the variable each vendor's own tooling reads.
var vendorKeyEnv = map[string]string{
	"groq":       "GROQ_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// DefaultConfig has a model picked for every provider and no keys.
func DefaultConfig() Config {
	return Config{
		Provider:   "groq",
		Groq:       GroqConfig{Model: "llama-3.3-70b-versatile"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "meta-llama/llama-3.3-70b-instruct"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// DiscoverConfig selects the first provider in discovery order whose vendor
// key variable is set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, name := range discoveryOrder {
		if k := os.Getenv(vendorKeyEnv[name]); k != "" {
			cfg.Provider = name
			*cfg.keyField(name) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// keyField points at the API key slot for a provider, or nil when the
// provider takes no key.
func (c *Config) keyField(provider string) *string {
	switch provider {
	case "groq":
		return &c.Groq.APIKey
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// Validate reports whether the selected provider can be constructed.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	key := c.keyField(c.Provider)
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("DEVREADY_LLM_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
