package llm

import (
	"context"
	"errors"
	"time"

	"documind-backend/internal/shared/metrics"
	"documind-backend/internal/shared/telemetry"
)

// Client abstracts LLM providers behind a single prompt-in, text-out call.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotImplemented
}

type instrumented struct {
	provider string
	next     Client
}

// Instrument records latency and outcome of every call made through next.
func Instrument(provider string, next Client) Client {
	if next == nil {
		return nil
	}
	return &instrumented{provider: provider, next: next}
}

func (c *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := c.next.Complete(ctx, prompt)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveLLM(c.provider, outcome, elapsed)

	fields := map[string]any{
		"provider":     c.provider,
		"prompt_chars": len(prompt),
		"reply_chars":  len(out),
		"duration_ms":  elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err
		telemetry.Error("llm.failed", fields)
	} else {
		telemetry.Info("llm.complete", fields)
	}
	return out, err
}
