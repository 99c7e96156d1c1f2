package llm

import "strings"

// ModelCost is list pricing in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost prices a model ID as reported by the backend. Dated or
// versioned IDs ("gpt-4o-mini-2024-07-18", "gemini-2.0-flash-001") fall
// back to the longest known prefix. It returns nil for unknown models,
// including "mock".
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	best := ""
	for id := range modelCosts {
		if strings.HasPrefix(modelID, id+"-") && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return nil
	}
	c := modelCosts[best]
	return &c
}

// modelCosts covers the defaults and aliases of each supported backend plus
// the usual alternatives. Source: models.dev, February 2026.
var modelCosts = map[string]ModelCost{
	// groq
	"llama-3.3-70b-versatile": {0.59, 0.79},
	"llama-3.1-8b-instant":    {0.05, 0.08},
	"openai/gpt-oss-20b":      {0.1, 0.5},
	"openai/gpt-oss-120b":     {0.15, 0.75},

	// openrouter
	"meta-llama/llama-3.3-70b-instruct": {0.13, 0.4},
	"meta-llama/llama-3.1-8b-instruct":  {0.02, 0.05},

	// anthropic
	"claude-haiku-4-5":         {1, 5},
	"claude-sonnet-4":          {3, 15},
	"claude-sonnet-4-5":        {3, 15},
	"claude-opus-4-5":          {5, 25},
	"claude-3-5-haiku":         {0.8, 4},
	"claude-sonnet-4-20250514": {3, 15},

	// openai
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o4-mini":      {1.1, 4.4},

	// gemini
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.0-pro":        {1.25, 10},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
