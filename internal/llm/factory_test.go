package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Provider = "groq"
	cfg.Groq.APIKey = "gsk-test"
	p, err := NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", p.ModelID())
	assert.IsType(t, &retrying{}, p)

	cfg.Provider = "anthropic"
	cfg.Anthropic.APIKey = "sk-ant-test"
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	cfg.Provider = "mock"
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &LoggingProvider{}, p, "mock is not retried")

	cfg.Provider = "openai"
	_, err = NewProvider(ctx, cfg, nil, nil)
	assert.ErrorContains(t, err, "DEVREADY_LLM_OPENAI_API_KEY")
}

func TestDiscoverConfig(t *testing.T) {
	for _, env := range vendorKeyEnv {
		t.Setenv(env, "")
	}

	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	t.Setenv("OPENAI_API_KEY", "sk-oa")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.Provider, "openai ranks above openrouter")
	assert.Equal(t, "sk-oa", cfg.OpenAI.APIKey)
	assert.Empty(t, cfg.OpenRouter.APIKey)
	assert.NoError(t, cfg.Validate())
}
