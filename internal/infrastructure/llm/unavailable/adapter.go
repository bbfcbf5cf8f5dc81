// Package unavailable provides the LLMPort used when no provider credentials are configured.
// Every call fails with errs.ErrProviderUnavailable so callers take their fallback paths.
package unavailable

import (
	"context"
	"fmt"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/errs"
)

var _ output.LLMPort = Adapter{}

type Adapter struct {
	Reason string
}

func (a Adapter) Chat(ctx context.Context, _ output.ChatRequest) (*output.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrProviderUnavailable, err)
	}
	reason := a.Reason
	if reason == "" {
		reason = "no text-generation provider configured"
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrProviderUnavailable, reason)
}
