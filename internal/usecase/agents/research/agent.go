package research

import (
	"context"
	"fmt"
	"time"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"
	"research-agent/internal/usecase/scoring"
)

var _ output.ResearchAgent = (*Agent)(nil)

type Config struct {
	ID               string
	Types            []entity.TaskType
	MaxSources       int
	FetchConcurrency int
	RequestTimeout   time.Duration
	// SynthesisSources is how many top reliable sources are sent for synthesis.
	SynthesisSources int
	SynthesisExcerpt int
	MinContentChars  int
	SimulateFallback bool
	Temperature      float32
	MaxTokens        int
}

func DefaultConfig() Config {
	return Config{
		ID: "web_researcher",
		Types: []entity.TaskType{
			entity.TaskTypeWebSearch,
			entity.TaskTypeFactChecking,
			entity.TaskTypeCurrentEvents,
		},
		MaxSources:       10,
		FetchConcurrency: 3,
		RequestTimeout:   10 * time.Second,
		SynthesisSources: 3,
		SynthesisExcerpt: 1000,
		MinContentChars:  100,
		SimulateFallback: true,
		Temperature:      0.3,
		MaxTokens:        800,
	}
}

// Agent runs the search, fetch, score and synthesize pipeline for one task at a time.
// It is safe for concurrent use.
type Agent struct {
	searcher output.SearchPort
	fetcher  output.FetchPort
	llm      output.LLMPort
	logger   output.LoggerPort
	cfg      Config
}

func New(
	searcher output.SearchPort,
	fetcher output.FetchPort,
	llm output.LLMPort,
	logger output.LoggerPort,
	cfg Config,
) *Agent {
	if cfg.MaxSources < 1 {
		cfg.MaxSources = 1
	}
	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = 1
	}
	if cfg.SynthesisSources < 1 {
		cfg.SynthesisSources = 1
	}
	return &Agent{
		searcher: searcher,
		fetcher:  fetcher,
		llm:      llm,
		logger:   logger.Named("research").WithField("agent", cfg.ID),
		cfg:      cfg,
	}
}

func (a *Agent) ID() string {
	return a.cfg.ID
}

func (a *Agent) Capabilities() []entity.TaskType {
	return a.cfg.Types
}

func (a *Agent) CanHandle(taskType entity.TaskType) bool {
	for _, t := range a.cfg.Types {
		if t == taskType {
			return true
		}
	}
	return false
}

func (a *Agent) Execute(ctx context.Context, task entity.Task) entity.TaskResult {
	log := a.logger.WithFields(map[string]any{"taskId": task.ID, "taskType": task.Type})

	query := task.SearchQuery()
	if query == "" {
		return entity.NewFailedResult(task, fmt.Sprintf("%v: task has no query or description", errs.ErrEmptyInput))
	}

	log.Info("Research started", "query", query)
	started := time.Now()

	results, simulated, err := a.search(ctx, log, query)
	if err != nil {
		log.Warn("Search stage failed", "error", err, "kind", errs.Kind(err))
		return entity.NewFailedResult(task, fmt.Sprintf("search failed: %v", err))
	}

	extracted := a.fetchAll(ctx, log, results)
	for i := range extracted {
		extracted[i].Relevance = scoring.Relevance(extracted[i], query)
	}
	reliable := scoring.Reliable(extracted)

	findings, fallback := a.synthesize(ctx, log, task, query, reliable)

	confidence := scoring.Confidence(scoring.ConfidenceInput{
		ReliableSources:   len(reliable),
		MeanRelevance:     scoring.MeanRelevance(reliable),
		SimulatedSearch:   simulated,
		FallbackSynthesis: fallback,
	})

	status := entity.TaskStatusCompleted
	if len(reliable) == 0 || fallback {
		status = entity.TaskStatusPartial
	}

	var diagnostics []string
	if simulated {
		diagnostics = append(diagnostics, "search provider unavailable; simulated results used")
	}
	if len(reliable) == 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("no reliable sources among %d search results", len(results)))
	}
	if fallback {
		diagnostics = append(diagnostics, "synthesis produced by extractive fallback")
	}

	sources := make([]string, 0, len(reliable))
	for _, s := range reliable {
		sources = append(sources, s.URL)
	}

	log.Info("Research finished",
		"status", status,
		"searchResults", len(results),
		"extracted", len(extracted),
		"reliable", len(reliable),
		"confidence", confidence,
		"elapsed", time.Since(started),
	)

	return entity.TaskResult{
		TaskID:          task.ID,
		TaskDescription: task.Description,
		Findings:        findings,
		Sources:         sources,
		Confidence:      confidence,
		Status:          status,
		Diagnostics:     diagnostics,
	}.Normalize()
}

func (a *Agent) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.RequestTimeout)
}
