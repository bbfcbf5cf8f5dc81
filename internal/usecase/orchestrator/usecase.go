package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research-agent/internal/application/port/input"
	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/errs"

	"github.com/google/uuid"
)

var _ input.ResearchRunner = (*UseCase)(nil)

// UseCase runs one research request end to end: plan, dispatch, summarize, report.
type UseCase struct {
	planner         input.Planner
	dispatcher      input.Dispatcher
	reporter        output.ReporterPort
	userInteraction output.UserInteractionPort
	logger          output.LoggerPort
}

// New builds the run facade. reporter and userInteraction may be nil.
func New(
	planner input.Planner,
	dispatcher input.Dispatcher,
	reporter output.ReporterPort,
	userInteraction output.UserInteractionPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		planner:         planner,
		dispatcher:      dispatcher,
		reporter:        reporter,
		userInteraction: userInteraction,
		logger:          logger,
	}
}

func (uc *UseCase) Execute(ctx context.Context, req input.ResearchRequest) (*input.ResearchOutcome, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: research topic is required", errs.ErrEmptyInput)
	}

	runID := uuid.NewString()
	log := uc.logger.WithFields(map[string]any{"runId": runID, "topic": topic})
	log.Info("Research run started")
	started := time.Now()

	extraContext := strings.TrimSpace(req.Context)
	if extraContext == "" && req.Interactive && uc.userInteraction != nil {
		extraContext = uc.clarify(ctx, topic)
	}

	tasks, err := uc.planner.Plan(ctx, topic, extraContext)
	if err != nil {
		return nil, fmt.Errorf("plan research: %w", err)
	}
	log.Info("Research planned", "tasks", len(tasks))
	if uc.userInteraction != nil {
		uc.userInteraction.ShowPlan(ctx, tasks)
	}

	results := uc.dispatcher.Dispatch(ctx, tasks)
	summary := Summarize(results)

	log.Info("Research run finished",
		"completed", summary.Completed,
		"partial", summary.Partial,
		"failed", summary.Failed,
		"sources", summary.DistinctSources,
		"meanConfidence", summary.MeanConfidence,
		"elapsed", time.Since(started),
	)

	outcome := &input.ResearchOutcome{
		RunID:   runID,
		Topic:   topic,
		Tasks:   tasks,
		Results: results,
		Summary: summary,
	}

	if uc.reporter != nil {
		err := uc.reporter.Report(ctx, output.ReportInput{
			Topic:   topic,
			Brief:   req.Brief,
			Results: results,
			Summary: summary,
		})
		if err != nil {
			log.Error("Report failed", "error", err)
			return outcome, fmt.Errorf("report results: %w", err)
		}
	}

	return outcome, nil
}

// clarify asks the planner's follow-up questions and returns the answered ones as planning
// context.
func (uc *UseCase) clarify(ctx context.Context, topic string) string {
	questions := uc.planner.FollowUpQuestions(ctx, topic)
	if len(questions) == 0 {
		return ""
	}
	uc.userInteraction.ShowQuestions(ctx, questions)

	var sb strings.Builder
	for _, q := range questions {
		answer, err := uc.userInteraction.AskQuestion(ctx, q)
		if err != nil {
			uc.logger.Warn("Clarification aborted", "error", err)
			break
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n", q, answer)
	}
	return strings.TrimSpace(sb.String())
}
