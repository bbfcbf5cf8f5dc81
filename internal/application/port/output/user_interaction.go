package output

import (
	"context"

	"research-agent/internal/domain/entity"
)

type UserInteractionPort interface {
	AskQuestion(ctx context.Context, question string) (string, error)

	ShowQuestions(ctx context.Context, questions []string)
	ShowPlan(ctx context.Context, tasks []entity.Task)
	ShowTaskResult(ctx context.Context, result entity.TaskResult)
}
