package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/store"
)

// LoggingProvider records each call in the event store and the log file.
// Recording failures are logged and never fail the call.
type LoggingProvider struct {
	next     Provider
	provider string
	events   store.EventRepo
	log      *zap.Logger
}

// WithLogging wraps p. A nil repo disables persistence and a nil logger
// discards diagnostics.
func WithLogging(p Provider, providerName string, events store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{next: p, provider: providerName, events: events, log: log}
}

func (l *LoggingProvider) ModelID() string { return l.next.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	resp, err := l.next.Generate(ctx, req)
	elapsed := time.Since(started)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.next.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", elapsed),
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		fields = append(fields, zap.Int("input_tokens", ev.InputTokens), zap.Int("output_tokens", ev.OutputTokens))
		if c := LookupCost(ev.Model); c != nil {
			fields = append(fields, zap.Float64("cost_usd", c.Cost(ev.InputTokens, ev.OutputTokens)))
		}
		l.log.Debug("llm request", fields...)
	}

	if l.events != nil {
		if rerr := l.events.AppendLLMRequest(ctx, ev); rerr != nil {
			l.log.Warn("failed to record LLM request event", zap.Error(rerr))
		}
	}
	return resp, err
}

// transcript renders a request the way `devready llm view` shows it: one
// "[role]" block per turn, then the schema name and definition.
func transcript(req Request) string {
	var b strings.Builder
	block := func(label, body string) {
		b.WriteString("[" + label + "]\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	if req.System != "" {
		block("system", req.System)
	}
	for _, m := range req.Messages {
		block(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			block("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
