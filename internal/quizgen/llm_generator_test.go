package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/llm"
)

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:          fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"O(1)", "O(log n)", "O(n)", "O(n^2)"},
			CorrectAnswer: "O(n)",
			Explanation:   "Linear scan.",
		}
	}
	return qs
}

func objectJSON(t *testing.T, qs []Question) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]any{"questions": qs})
	require.NoError(t, err)
	return b
}

func TestGenerate_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: objectJSON(t, sampleQuestions(5))})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), Input{Topic: "DSA", Count: 5})
	require.NoError(t, err)
	require.Len(t, qs, 5)
	assert.Equal(t, "Question 1?", qs[0].Text)
	assert.Equal(t, "Question 5?", qs[4].Text)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, QuizSchema, req.Schema)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 5*320, req.MaxTokens)
	assert.Contains(t, req.Messages[0].Content, "Topic: DSA")
	assert.Contains(t, req.Messages[0].Content, "Number of questions: 5")
}

func TestGenerate_PurposeIsTagged(t *testing.T) {
	var purpose string
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		return &llm.Response{Content: objectJSON(t, sampleQuestions(1))}, nil
	})
	_, err := New(p, DefaultConfig()).Generate(context.Background(), Input{Topic: "DSA", Count: 1})
	require.NoError(t, err)
	assert.Equal(t, Purpose, purpose)
}

func TestGenerate_SalvagesBareArray(t *testing.T) {
	arr, err := json.Marshal(sampleQuestions(2))
	require.NoError(t, err)
	text := "Sure! Here you go:\n```json\n" + string(arr) + "\n```"

	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrInvalidResponse{
		Content: json.RawMessage(text),
		Err:     errors.New("invalid JSON"),
	}})
	qs, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Topic: "Java Core", Count: 2})
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		want error
	}{
		{
			name: "count mismatch",
			resp: llm.MockResponse{Content: objectJSON(t, sampleQuestions(3))},
			want: ErrMalformed,
		},
		{
			name: "answer not in options",
			resp: llm.MockResponse{Content: objectJSON(t, func() []Question {
				qs := sampleQuestions(2)
				qs[1].CorrectAnswer = "O(n!)"
				return qs
			}())},
			want: ErrMalformed,
		},
		{
			name: "garbage",
			resp: llm.MockResponse{Content: json.RawMessage(`"I cannot help with that"`)},
			want: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(llm.NewMockProvider(tt.resp), DefaultConfig())
			_, err := gen.Generate(context.Background(), Input{Topic: "DSA", Count: 2})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	_, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Topic: "DSA", Count: 1})
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestGenerate_RejectsNonPositiveCount(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Topic: "DSA"})
	assert.Error(t, err)
	assert.Equal(t, 0, mock.CallCount())
}

func TestParseQuestions(t *testing.T) {
	one := `{"question":"q","options":["a","b"],"correctAnswer":"a","explanation":"e"}`
	tests := map[string]string{
		"object":         `{"questions":[` + one + `]}`,
		"bare array":     `[` + one + `]`,
		"json string":    strconv.Quote("[" + one + "]"),
		"prose wrapping": "Here:\n[" + one + "]\nGood luck",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			qs, err := ParseQuestions([]byte(raw))
			require.NoError(t, err)
			require.Len(t, qs, 1)
			assert.Equal(t, "a", qs[0].CorrectAnswer)
		})
	}

	_, err := ParseQuestions([]byte(`{"foo":1}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
