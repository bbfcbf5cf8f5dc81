package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"
	"research-agent/internal/infrastructure/prompts"
	"research-agent/internal/usecase/scoring"
)

// Confidence reported for analysis produced without fresh sources.
const analysisConfidence = 0.3

var _ output.ResearchAgent = (*Agent)(nil)

type Config struct {
	ID             string
	RequestTimeout time.Duration
	Temperature    float32
	MaxTokens      int
}

func DefaultConfig() Config {
	return Config{
		ID:             "background_analyst",
		RequestTimeout: 10 * time.Second,
		Temperature:    0.3,
		MaxTokens:      800,
	}
}

// Agent answers background_analysis tasks from the model's general knowledge.
type Agent struct {
	llm    output.LLMPort
	logger output.LoggerPort
	cfg    Config
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg Config) *Agent {
	return &Agent{
		llm:    llm,
		logger: logger.Named("analysis").WithField("agent", cfg.ID),
		cfg:    cfg,
	}
}

func (a *Agent) ID() string {
	return a.cfg.ID
}

func (a *Agent) Capabilities() []entity.TaskType {
	return []entity.TaskType{entity.TaskTypeBackgroundAnalysis}
}

func (a *Agent) CanHandle(taskType entity.TaskType) bool {
	return taskType == entity.TaskTypeBackgroundAnalysis
}

func (a *Agent) Execute(ctx context.Context, task entity.Task) entity.TaskResult {
	query := task.SearchQuery()
	if query == "" {
		return entity.NewFailedResult(task, fmt.Sprintf("%v: task has no query or description", errs.ErrEmptyInput))
	}

	a.logger.Info("Analysis started", "taskId", task.ID, "query", query)

	text, err := a.analyze(ctx, task, query)
	if err != nil {
		a.logger.Warn("Analysis unavailable", "taskId", task.ID, "error", err, "kind", errs.Kind(err))
		return entity.TaskResult{
			TaskID:          task.ID,
			TaskDescription: task.Description,
			Confidence:      scoring.MinPartialConfidence,
			Status:          entity.TaskStatusPartial,
			Diagnostics:     []string{fmt.Sprintf("analysis provider failed: %v", err)},
		}.Normalize()
	}

	return entity.TaskResult{
		TaskID:          task.ID,
		TaskDescription: task.Description,
		Findings:        text,
		Confidence:      analysisConfidence,
		Status:          entity.TaskStatusCompleted,
		Diagnostics:     []string{"analysis based on model knowledge; no sources consulted"},
	}.Normalize()
}

func (a *Agent) analyze(ctx context.Context, task entity.Task, query string) (string, error) {
	prompt, err := prompts.Render("analysis", prompts.AnalysisTemplate, prompts.AnalysisData{
		Query:       query,
		Description: task.Description,
		Context:     task.Context,
	})
	if err != nil {
		return "", err
	}

	if a.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := a.llm.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: prompts.AnalysisSystemPrompt},
			{Role: entity.RoleUser, Content: prompt},
		},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty analysis", errs.ErrMalformedResponse)
	}
	return text, nil
}
