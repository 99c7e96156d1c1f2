package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/devndesk/DevReady/internal/llm"
)

// Purpose labels quiz requests in the LLM event log.
const Purpose = "quiz-gen"

// ErrMalformed means the model output could not be read as questions.
var ErrMalformed = errors.New("malformed quiz response")

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type quizOutput struct {
	Questions []Question `json:"questions"`
}

// Generate asks the model for input.Count questions on input.Topic.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) ([]Question, error) {
	if input.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", input.Count)
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.TokensPerQuestion * input.Count,
		Temperature: g.config.Temperature,
	}

	var raw json.RawMessage
	resp, err := g.provider.Generate(ctx, req)
	switch {
	case err == nil:
		raw = resp.Content
	default:
		// Some models ignore the object wrapper and return a bare array or
		// prose around one. Salvage that before giving up.
		var invalid *llm.ErrInvalidResponse
		if !errors.As(err, &invalid) || len(invalid.Content) == 0 {
			return nil, fmt.Errorf("LLM generation failed: %w", err)
		}
		raw = invalid.Content
	}

	qs, err := ParseQuestions(raw)
	if err != nil {
		return nil, err
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(qs, input); verr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, verr)
		}
	}
	return qs, nil
}

var arrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// ParseQuestions reads questions from model output. It accepts the
// {"questions": [...]} object, a bare array, a JSON string holding either,
// or free text containing an array.
func ParseQuestions(raw []byte) ([]Question, error) {
	raw = bytes.TrimSpace(raw)

	var text string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err == nil {
			raw = bytes.TrimSpace([]byte(text))
		}
	}

	var obj quizOutput
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Questions != nil {
		return obj.Questions, nil
	}
	var arr []Question
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, nil
	}
	if m := arrayPattern.Find(raw); m != nil {
		if err := json.Unmarshal(m, &arr); err == nil {
			return arr, nil
		}
	}
	return nil, fmt.Errorf("%w: no question array found", ErrMalformed)
}
