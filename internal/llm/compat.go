package llm

import "errors"

const (
	defaultGroqBaseURL       = "https://api.groq.com/openai/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// GroqProvider targets Groq's OpenAI-compatible endpoint. Groq models lack
// strict json_schema support, so it runs in JSON object mode.
type GroqProvider struct {
	*OpenAIProvider
}

func NewGroqProvider(cfg GroqConfig) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("groq: API key is required")
	}
	return &GroqProvider{newChatProvider(cfg.APIKey, orDefault(cfg.BaseURL, defaultGroqBaseURL), cfg.Model, jsonObject)}, nil
}

// OpenRouterProvider targets OpenRouter. Model IDs are vendor-prefixed
// ("meta-llama/...") and are not run through the OpenAI alias table.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	return &OpenRouterProvider{newChatProvider(cfg.APIKey, orDefault(cfg.BaseURL, defaultOpenRouterBaseURL), cfg.Model, strictSchema)}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
