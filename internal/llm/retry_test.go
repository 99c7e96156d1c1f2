package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}
}

var okReply = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection reset")}}
}

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{okReply}, false, 1},
		{"transient then ok", []MockResponse{down(), okReply}, false, 2},
		{"rate limited then ok", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, okReply}, false, 2},
		{"exhausted", []MockResponse{down(), down(), down(), okReply}, true, 3},
		{"malformed retried once", []MockResponse{
			{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("not JSON")}},
			okReply,
		}, false, 2},
		{"malformed twice", []MockResponse{
			{Err: &ErrInvalidResponse{Err: errors.New("not JSON")}},
			{Err: &ErrInvalidResponse{Err: errors.New("not JSON")}},
			okReply,
		}, true, 2},
		{"truncated", []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{`)}}, okReply}, true, 1},
		{"rejected", []MockResponse{{Err: &ErrRejected{Status: http.StatusUnauthorized}}, okReply}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(down(), okReply)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_CancelledBeforeStart(t *testing.T) {
	mock := NewMockProvider(okReply)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry_Delay(t *testing.T) {
	r := &retrying{cfg: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}
	transient := errors.New("eof")

	for range 20 {
		d := r.delay(2, transient)
		assert.GreaterOrEqual(t, d, 160*time.Millisecond)
		assert.LessOrEqual(t, d, 240*time.Millisecond)

		assert.LessOrEqual(t, r.delay(10, transient), 1200*time.Millisecond, "capped at MaxWait plus jitter")

		hinted := r.delay(1, &ErrRateLimit{RetryAfter: 500 * time.Millisecond})
		assert.GreaterOrEqual(t, hinted, 400*time.Millisecond)
		assert.LessOrEqual(t, hinted, 600*time.Millisecond)
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(down())
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ModelID(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), fastRetry()).ModelID())
}
