package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/store"
)

// NewProvider builds the configured backend. Calls flow through retry, then
// event logging, so every attempt is recorded separately. A nil repo skips
// event persistence. The mock backend is not retried since its answers are
// scripted.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	logged := WithLogging(base, cfg.Provider, events, log)
	if cfg.Provider == "mock" {
		return logged, nil
	}
	return WithRetry(logged, cfg.Retry), nil
}

func newBackend(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "groq":
		return NewGroqProvider(cfg.Groq)
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
