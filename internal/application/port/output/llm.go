package output

import (
	"context"

	"research-agent/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Temperature float32
	MaxTokens   int
	// JSONOnly asks the provider for a single JSON object when it supports a response format.
	JSONOnly bool
}

type ChatResponse struct {
	Message entity.Message
}
