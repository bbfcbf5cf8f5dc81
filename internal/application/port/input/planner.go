package input

import (
	"context"

	"research-agent/internal/domain/entity"
)

type Planner interface {
	Plan(ctx context.Context, topic, extraContext string) ([]entity.Task, error)
	FollowUpQuestions(ctx context.Context, topic string) []string
}

type Dispatcher interface {
	Dispatch(ctx context.Context, tasks []entity.Task) []entity.TaskResult
}
