package llm

import (
	"context"
	"encoding/json"
)

// Provider produces structured completions for question generation.
// Implementations translate a Request into one backend call and return the
// normalized Response, validating Content against Request.Schema when set.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the backend model the provider was configured with.
	ModelID() string
}

// Request is a single-shot prompt. Quiz generation sends one user message
// together with the question-set schema.
type Request struct {
	System   string
	Messages []Message

	// Schema, when non-nil, asks the backend for JSON output and makes the
	// provider reject replies that do not conform.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name keys the compiled-schema cache and is sent as the OpenAI
	// json_schema name, e.g. "quiz-questions".
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is the normalized reason a backend stopped generating.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a normalized completion.
type Response struct {
	// Content is the conforming JSON document when the request carried a
	// Schema, or the model text as-is otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// complete turns a backend's raw text into a Response. A truncated reply
// that fails the schema is reported as ErrMaxTokensExceeded, since asking
// again with the same budget would be cut off the same way.
func complete(req Request, text string, usage Usage, model string, stop StopReason) (*Response, error) {
	content, err := conform(req.Schema, text)
	if err != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(text)}
		}
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel expands a short alias such as "claude-haiku" to the backend
// model ID. Unknown names pass through so full IDs keep working.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

const purposeUnset = "untagged"

type purposeKey struct{}

// WithPurpose tags ctx so the logging middleware can attribute the call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "untagged".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return purposeUnset
}
