package output

import (
	"context"

	"research-agent/internal/domain/entity"
)

// ResearchAgent executes tasks of the types it declares. Execute must always return a
// well-formed result; provider failures are expressed through its status.
type ResearchAgent interface {
	ID() string
	Capabilities() []entity.TaskType
	CanHandle(taskType entity.TaskType) bool
	Execute(ctx context.Context, task entity.Task) entity.TaskResult
}

type AgentRegistry interface {
	Register(agent ResearchAgent, types ...entity.TaskType)
	Resolve(taskType entity.TaskType) []ResearchAgent
	Agents() []ResearchAgent
}
