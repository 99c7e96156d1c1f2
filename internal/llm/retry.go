package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

type retrying struct {
	next Provider
	cfg  RetryConfig
}

// WithRetry retries transient failures with jittered exponential backoff.
// A malformed reply is retried once. Truncated replies and 4xx rejections
// are returned as-is.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &retrying{next: p, cfg: cfg}
}

func (r *retrying) ModelID() string { return r.next.ModelID() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	malformed := 0
	for attempt := 1; ; attempt++ {
		resp, err := r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case retryNone:
			return nil, err
		case retryMalformed:
			if malformed++; malformed > 1 {
				return nil, err
			}
		}
		if attempt >= r.cfg.MaxAttempts {
			return nil, err
		}

		t := time.NewTimer(r.delay(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// delay is InitialWait*Multiplier^(attempt-1) with ±20% jitter, capped at
// MaxWait. A server Retry-After hint replaces the computed base.
func (r *retrying) delay(attempt int, err error) time.Duration {
	base := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))

	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		base = float64(rl.RetryAfter)
	}
	if r.cfg.MaxWait > 0 {
		base = math.Min(base, float64(r.cfg.MaxWait))
	}

	d := time.Duration(base * (0.8 + 0.4*rand.Float64()))
	return max(d, 0)
}
