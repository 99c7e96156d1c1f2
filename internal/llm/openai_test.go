package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func openAIServer(t *testing.T, status int, body map[string]any) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider_AcceptsFencedJSON(t *testing.T) {
	p := openAIServer(t, http.StatusOK, chatReply("```json\n{\"question\":\"q\",\"options\":[\"a\",\"b\"],\"correctAnswer\":\"a\"}\n```", "stop"))

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "One DSA question."}},
		Schema:   testSchema(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"q","options":["a","b"],"correctAnswer":"a"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
}

func TestOpenAIProvider_PlainTextWithoutSchema(t *testing.T) {
	p := openAIServer(t, http.StatusOK, chatReply("pong", "stop"))

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "ping"}}})
	require.NoError(t, err)
	assert.Equal(t, "pong", string(resp.Content))
}

func TestOpenAIProvider_LengthStopIsTruncation(t *testing.T) {
	p := openAIServer(t, http.StatusOK, chatReply(`{"question":"q","opt`, "length"))

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "x"}},
		Schema:   testSchema(),
	})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	body := chatReply("", "stop")
	body["choices"] = []map[string]any{}
	p := openAIServer(t, http.StatusOK, body)

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	errBody := map[string]any{"error": map[string]any{"type": "x", "message": "nope", "code": "x"}}

	t.Run("rate limit", func(t *testing.T) {
		_, err := openAIServer(t, http.StatusTooManyRequests, errBody).Generate(context.Background(), Request{})
		var target *ErrRateLimit
		assert.ErrorAs(t, err, &target)
	})
	t.Run("server error", func(t *testing.T) {
		_, err := openAIServer(t, http.StatusBadGateway, errBody).Generate(context.Background(), Request{})
		var target *ErrProviderUnavailable
		assert.ErrorAs(t, err, &target)
	})
	t.Run("unknown model", func(t *testing.T) {
		_, err := openAIServer(t, http.StatusNotFound, errBody).Generate(context.Background(), Request{})
		var target *ErrRejected
		require.ErrorAs(t, err, &target)
		assert.Equal(t, retryNone, classify(err))
	})
}

func TestChatRequest_JSONObjectModeCarriesSchema(t *testing.T) {
	p := newChatProvider("k", "", "llama-3.3-70b-versatile", jsonObject)

	chat, err := p.chatRequest(Request{
		System:   "Return JSON.",
		Messages: []Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}},
		Schema:   testSchema(),
	})
	require.NoError(t, err)
	require.Len(t, chat.Messages, 3)
	assert.Equal(t, "system", chat.Messages[0].Role)
	assert.Contains(t, chat.Messages[0].Content, "Return JSON.")
	assert.Contains(t, chat.Messages[0].Content, `"correctAnswer"`)
	assert.Equal(t, "assistant", chat.Messages[2].Role)
	assert.Equal(t, "json_object", string(chat.ResponseFormat.Type))
}

func TestChatRequest_StrictSchemaKeepsSystemPrompt(t *testing.T) {
	p := newChatProvider("k", "", "gpt-4o-mini", strictSchema)

	chat, err := p.chatRequest(Request{System: "Be terse.", Schema: testSchema()})
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, "Be terse.", chat.Messages[0].Content)
	require.NotNil(t, chat.ResponseFormat.JSONSchema)
	assert.Equal(t, "test-mcq", chat.ResponseFormat.JSONSchema.Name)
	assert.True(t, chat.ResponseFormat.JSONSchema.Strict)
}
