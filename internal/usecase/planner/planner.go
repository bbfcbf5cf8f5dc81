package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research-agent/internal/application/port/input"
	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"
	"research-agent/internal/infrastructure/prompts"
)

var _ input.Planner = (*Planner)(nil)

type Config struct {
	MaxSubtopics   int
	RequestTimeout time.Duration
	Temperature    float32
}

// Planner decomposes a research topic into tasks. Every provider call has a deterministic
// fallback, so only an empty topic makes Plan fail.
type Planner struct {
	llm    output.LLMPort
	logger output.LoggerPort
	cfg    Config
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg Config) *Planner {
	if cfg.MaxSubtopics < 1 {
		cfg.MaxSubtopics = 1
	}
	return &Planner{
		llm:    llm,
		logger: logger.Named("planner"),
		cfg:    cfg,
	}
}

func (p *Planner) Plan(ctx context.Context, topic, extraContext string) ([]entity.Task, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: research topic", errs.ErrEmptyInput)
	}

	planningContext := strings.TrimSpace(extraContext)
	if planningContext == "" {
		planningContext = FormatQuestions(p.FollowUpQuestions(ctx, topic))
	}

	complexity := p.analyzeComplexity(ctx, topic, planningContext)
	p.logger.Info("Topic analyzed",
		"topic", topic,
		"isComplex", complexity.IsComplex,
		"subtopics", complexity.Subtopics,
		"approach", complexity.Approach,
	)

	var subtopics []Subtopic
	if !complexity.IsComplex || complexity.Subtopics <= 1 {
		subtopics = []Subtopic{{
			Query:       topic,
			Description: fmt.Sprintf("Research on %s", topic),
			Priority:    string(entity.PriorityHigh),
		}}
	} else {
		subtopics = p.generateSubtopics(ctx, topic, planningContext, complexity)
	}

	tasks := BuildTasks(subtopics, planningContext)
	p.logger.Info("Research plan created", "topic", topic, "tasks", len(tasks))
	return tasks, nil
}

func (p *Planner) FollowUpQuestions(ctx context.Context, topic string) []string {
	prompt, err := prompts.Render("followups", prompts.FollowUpsTemplate, prompts.FollowUpsData{Topic: topic})
	if err != nil {
		p.logger.Error("Failed to render follow-up prompt", "error", err)
		return FallbackQuestions(topic)
	}

	reply, err := p.ask(ctx, prompt)
	if err == nil {
		var questions []string
		questions, _, err = ParseFollowUps(reply)
		if err == nil {
			return questions
		}
	}

	p.logger.Warn("Using fallback follow-up questions", "error", err, "kind", errs.Kind(err))
	return FallbackQuestions(topic)
}

func (p *Planner) analyzeComplexity(ctx context.Context, topic, planningContext string) Complexity {
	prompt, err := prompts.Render("complexity", prompts.ComplexityTemplate, prompts.ComplexityData{
		Topic:        topic,
		Context:      planningContext,
		MaxSubtopics: p.cfg.MaxSubtopics,
	})
	if err == nil {
		var reply string
		reply, err = p.ask(ctx, prompt)
		if err == nil {
			var c Complexity
			c, err = ParseComplexity(reply, p.cfg.MaxSubtopics)
			if err == nil {
				return c
			}
		}
	}

	p.logger.Warn("Using fallback complexity analysis", "error", err, "kind", errs.Kind(err))
	return FallbackComplexity(topic, p.cfg.MaxSubtopics)
}

func (p *Planner) generateSubtopics(ctx context.Context, topic, planningContext string, c Complexity) []Subtopic {
	types := []string{
		string(entity.TaskTypeWebSearch),
		string(entity.TaskTypeFactChecking),
		string(entity.TaskTypeCurrentEvents),
		string(entity.TaskTypeBackgroundAnalysis),
	}
	approach := c.Approach
	if approach == "" {
		approach = "comprehensive"
	}

	prompt, err := prompts.Render("subtopics", prompts.SubtopicsTemplate, prompts.SubtopicsData{
		Topic:    topic,
		Context:  planningContext,
		Count:    c.Subtopics,
		Aspects:  c.MainAspects,
		Approach: approach,
		Types:    types,
	})
	if err == nil {
		var reply string
		reply, err = p.ask(ctx, prompt)
		if err == nil {
			var subtopics []Subtopic
			subtopics, err = ParseSubtopics(reply, c.Subtopics)
			if err == nil {
				return subtopics
			}
		}
	}

	p.logger.Warn("Using fallback subtopics", "error", err, "kind", errs.Kind(err))
	return FallbackSubtopics(topic, c.Subtopics)
}

func (p *Planner) ask(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := p.llm.Chat(callCtx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: prompts.PlannerSystemPrompt},
			{Role: entity.RoleUser, Content: prompt},
		},
		Temperature: p.cfg.Temperature,
		JSONOnly:    true,
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// FormatQuestions renders follow-up questions as planning context.
func FormatQuestions(questions []string) string {
	if len(questions) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Additional questions to consider:")
	for i, q := range questions {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, q)
	}
	return sb.String()
}
