package output

import (
	"context"

	"research-agent/internal/domain/entity"
)

type ReportInput struct {
	Topic   string
	Brief   string
	Results []entity.TaskResult
	Summary entity.Summary
}

type ReporterPort interface {
	Report(ctx context.Context, in ReportInput) error
}

// SpeechPort turns final report text into audio.
type SpeechPort interface {
	Speak(ctx context.Context, text string) error
}
