package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/algoquest/internal/store"
)

// LoggingProvider records every request as an llm_request_events row.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   *slog.Logger
}

// WithLogging wraps p. A nil events repo only logs to logger.
func WithLogging(p Provider, provider string, events store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, provider: provider, events: events, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.logger.Debug("llm request",
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"ok", data.Success)

	// A failed write must not fail the request.
	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("record llm request", "error", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
