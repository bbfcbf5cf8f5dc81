package di

import (
	"fmt"

	"research-agent/internal/application/port/input"
	"research-agent/internal/application/port/output"
	"research-agent/internal/application/service"
	"research-agent/internal/infrastructure/config"
	"research-agent/internal/infrastructure/llm/anthropic"
	"research-agent/internal/infrastructure/llm/openai"
	"research-agent/internal/infrastructure/llm/unavailable"
	"research-agent/internal/infrastructure/logger"
	"research-agent/internal/infrastructure/search/duckduckgo"
	"research-agent/internal/infrastructure/search/google"
	"research-agent/internal/infrastructure/userinteraction"
	"research-agent/internal/infrastructure/web"
	"research-agent/internal/usecase/agents/analysis"
	"research-agent/internal/usecase/agents/research"
	"research-agent/internal/usecase/orchestrator"
	"research-agent/internal/usecase/planner"
)

type Container struct {
	Config   *config.Config
	Logger   output.LoggerPort
	LLM      output.LLMPort
	Search   output.SearchPort
	Fetcher  output.FetchPort
	Registry output.AgentRegistry
	Planner  input.Planner
	Runner   input.ResearchRunner
	Console  *userinteraction.Console

	// LLMProvider is the resolved provider name, "none" when running without one.
	LLMProvider string
}

// NewContainer wires the application from cfg. runName labels the per-run log file.
func NewContainer(cfg *config.Config, runName string) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Dir:     cfg.Log.Dir,
		RunName: runName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llm, provider := newLLM(cfg.LLM, log)
	log.Info("Text generation provider selected", "provider", provider)

	searcher, err := newSearch(cfg.Search, cfg.Fetch.UserAgent, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	fetcher := web.NewFetcher(web.Config{
		UserAgent:       cfg.Fetch.UserAgent,
		MaxBodyBytes:    cfg.Fetch.MaxBodyBytes,
		MaxContentChars: cfg.Fetch.MaxContentChars,
		RatePerSecond:   cfg.Fetch.RatePerSecond,
	})

	registry := service.NewCapabilityRegistry()
	registerAgents(registry, cfg, searcher, fetcher, llm, log)
	for _, agent := range registry.Agents() {
		log.Info("Agent registered", "agent", agent.ID(), "capabilities", agent.Capabilities())
	}

	plan := planner.New(llm, log, planner.Config{
		MaxSubtopics:   cfg.Orchestrator.MaxSubtopics,
		RequestTimeout: cfg.Orchestrator.RequestTimeout,
		Temperature:    cfg.LLM.PlannerTemp,
	})

	console := userinteraction.NewConsole()
	dispatcher := orchestrator.NewDispatcher(registry, log, cfg.Orchestrator.MaxParallelTasks)
	runner := orchestrator.New(plan, dispatcher, console, console, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		LLM:         llm,
		Search:      searcher,
		Fetcher:     fetcher,
		Registry:    registry,
		Planner:     plan,
		Runner:      runner,
		Console:     console,
		LLMProvider: provider,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newLLM(cfg config.LLMConfig, log output.LoggerPort) (output.LLMPort, string) {
	provider, key := cfg.ResolveLLM()
	model := cfg.ModelFor(provider)
	llmLog := log.Named("llm")

	switch provider {
	case config.ProviderOpenAI:
		c := openai.DefaultConfig(key, model)
		c.BaseURL = cfg.BaseURL
		c.Logger = llmLog
		return openai.NewAdapter(c), provider
	case config.ProviderOpenRouter:
		c := openai.OpenRouterConfig(key, model)
		if cfg.BaseURL != "" {
			c.BaseURL = cfg.BaseURL
		}
		c.Logger = llmLog
		return openai.NewAdapter(c), provider
	case config.ProviderAnthropic:
		return anthropic.NewAdapter(anthropic.Config{
			APIKey:  key,
			Model:   model,
			BaseURL: cfg.BaseURL,
			Logger:  llmLog,
		}), provider
	default:
		log.Warn("No text generation provider configured; planning and synthesis use fallbacks")
		return unavailable.Adapter{}, config.ProviderNone
	}
}

func newSearch(cfg config.SearchConfig, userAgent string, log output.LoggerPort) (output.SearchPort, error) {
	searchLog := log.Named("search")

	switch cfg.Provider {
	case config.SearchDuckDuckGo:
		adapter, err := duckduckgo.NewAdapter(cfg.MaxSources, userAgent, searchLog)
		if err != nil {
			return nil, fmt.Errorf("failed to create search provider: %w", err)
		}
		return adapter, nil
	default:
		if !cfg.HasGoogleCredentials() {
			log.Warn("Google search credentials missing; research tasks will use simulated results")
		}
		return google.NewAdapter(google.Config{
			APIKey:        cfg.GoogleAPIKey,
			EngineID:      cfg.GoogleEngineID,
			Endpoint:      cfg.GoogleEndpoint,
			RatePerSecond: cfg.RatePerSecond,
			Logger:        searchLog,
		}), nil
	}
}

func registerAgents(
	registry *service.CapabilityRegistry,
	cfg *config.Config,
	searcher output.SearchPort,
	fetcher output.FetchPort,
	llm output.LLMPort,
	log output.LoggerPort,
) {
	researchCfg := research.DefaultConfig()
	researchCfg.MaxSources = cfg.Search.MaxSources
	researchCfg.FetchConcurrency = cfg.Fetch.Concurrency
	researchCfg.RequestTimeout = cfg.Orchestrator.RequestTimeout
	researchCfg.SynthesisSources = cfg.Orchestrator.SynthesisSources
	researchCfg.SimulateFallback = cfg.Search.SimulateFallback
	researchCfg.Temperature = cfg.LLM.SynthesisTemp
	researchCfg.MaxTokens = cfg.LLM.SynthesisTokens
	registry.Register(research.New(searcher, fetcher, llm, log, researchCfg))

	analysisCfg := analysis.DefaultConfig()
	analysisCfg.RequestTimeout = cfg.Orchestrator.RequestTimeout
	analysisCfg.Temperature = cfg.LLM.SynthesisTemp
	analysisCfg.MaxTokens = cfg.LLM.SynthesisTokens
	registry.Register(analysis.New(llm, log, analysisCfg))
}
