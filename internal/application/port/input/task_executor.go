package input

import (
	"context"

	"research-agent/internal/domain/entity"
)

type ResearchRequest struct {
	Topic   string
	Context string
	Brief   string
	// Interactive asks the user follow-up questions before planning when Context is empty.
	Interactive bool
}

type ResearchOutcome struct {
	RunID   string
	Topic   string
	Tasks   []entity.Task
	Results []entity.TaskResult
	Summary entity.Summary
}

type ResearchRunner interface {
	Execute(ctx context.Context, req ResearchRequest) (*ResearchOutcome, error)
}
