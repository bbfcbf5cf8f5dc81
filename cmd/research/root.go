package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"research-agent/internal/application/port/input"
	"research-agent/internal/di"
	"research-agent/internal/infrastructure/config"
	"research-agent/internal/infrastructure/env"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const defaultRunTimeoutMinutes = 30

// runSettings are process-level knobs read from the environment after .env files load.
type runSettings struct {
	topic   string
	timeout time.Duration
	noColor bool
}

func settingsFromEnv(envService *env.EnvService) runSettings {
	minutes := envService.GetInt("RESEARCH_RUN_TIMEOUT_MINUTES", defaultRunTimeoutMinutes)
	if minutes < 1 {
		minutes = defaultRunTimeoutMinutes
	}
	return runSettings{
		topic:   strings.TrimSpace(envService.Get("RESEARCH_TOPIC")),
		timeout: time.Duration(minutes) * time.Minute,
		noColor: envService.GetBool("RESEARCH_NO_COLOR", false),
	}
}

var (
	flagContext      string
	flagBrief        string
	flagInteractive  bool
	flagConfigPath   string
	flagMaxParallel  int
	flagMaxSources   int
	flagMaxSubtopics int
	flagPrintConfig  bool
)

var rootCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Decompose a research topic and investigate it with parallel agents",
	Long: `research splits a topic into independent subtasks, runs them concurrently
against search, page fetching and text generation providers, and prints
confidence-scored findings with their sources.

Missing provider credentials never stop a run: planning falls back to heuristics,
search falls back to simulated results and synthesis to an extractive summary.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runResearch,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagContext, "context", "c", "", "Additional context for planning")
	flags.StringVarP(&flagBrief, "brief", "b", "", "Research brief passed to the report")
	flags.BoolVarP(&flagInteractive, "interactive", "i", false, "Answer clarifying questions before planning")
	flags.StringVar(&flagConfigPath, "config", "", "Path to a YAML config file (default ./research.yaml)")
	flags.IntVar(&flagMaxParallel, "max-parallel", 0, "Maximum tasks running at once")
	flags.IntVar(&flagMaxSources, "max-sources", 0, "Maximum search results per task")
	flags.IntVar(&flagMaxSubtopics, "max-subtopics", 0, "Maximum subtopics per plan")
	flags.BoolVar(&flagPrintConfig, "print-config", false, "Print the effective configuration and exit")
}

func runResearch(cmd *cobra.Command, args []string) error {
	envService := env.NewEnvService(".")
	settings := settingsFromEnv(envService)
	if settings.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return reportError(err)
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return reportError(err)
	}

	if flagPrintConfig {
		out, err := cfg.YAML()
		if err != nil {
			return reportError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# env: %s, files: %s\n", envService.AppEnv(), strings.Join(envService.LoadedFiles(), ", "))
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, settings.timeout)
	defer cancel()

	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		topic = settings.topic
	}

	container, err := di.NewContainer(cfg, topic)
	if err != nil {
		return reportError(fmt.Errorf("initialization failed: %w", err))
	}
	defer container.Close()

	if topic == "" {
		topic, err = container.Console.AskQuestion(ctx, "Enter a research topic:")
		if err != nil {
			return reportError(err)
		}
	}

	container.Logger.Info("Research requested", "topic", topic, "provider", container.LLMProvider, "appEnv", envService.AppEnv())

	_, err = container.Runner.Execute(ctx, input.ResearchRequest{
		Topic:       topic,
		Context:     flagContext,
		Brief:       flagBrief,
		Interactive: flagInteractive,
	})
	if err != nil {
		container.Logger.Error("Research failed", "error", err)
		return reportError(err)
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-parallel") {
		cfg.Orchestrator.MaxParallelTasks = flagMaxParallel
	}
	if flags.Changed("max-sources") {
		cfg.Search.MaxSources = flagMaxSources
	}
	if flags.Changed("max-subtopics") {
		cfg.Orchestrator.MaxSubtopics = flagMaxSubtopics
	}
}

func reportError(err error) error {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
