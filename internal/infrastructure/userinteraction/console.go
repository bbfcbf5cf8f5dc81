package userinteraction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var (
	_ output.UserInteractionPort = (*Console)(nil)
	_ output.ReporterPort        = (*Console)(nil)
)

type Console struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewConsole() *Console {
	return NewConsoleWith(os.Stdin, os.Stdout)
}

func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (c *Console) AskQuestion(ctx context.Context, question string) (string, error) {
	color.New(color.FgYellow, color.Bold).Fprintf(c.out, "\n❓ %s\n> ", question)

	answer, err := c.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func (c *Console) ShowQuestions(ctx context.Context, questions []string) {
	if len(questions) == 0 {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintln(c.out, "\n━━━ Clarifying questions ━━━")
	for i, q := range questions {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, q)
	}
}

func (c *Console) ShowPlan(ctx context.Context, tasks []entity.Task) {
	color.New(color.FgCyan, color.Bold).Fprintf(c.out, "\n━━━ Research plan: %d task(s) ━━━\n", len(tasks))

	dim := color.New(color.Faint)
	for _, t := range tasks {
		fmt.Fprintf(c.out, "%s %s ", typeIcon(t.Type), t.Description)
		dim.Fprintf(c.out, "[%s, %s]\n", t.Type, t.Priority)
		dim.Fprintf(c.out, "   query: %s\n", truncate(t.Query, 100))
	}
}

func (c *Console) ShowTaskResult(ctx context.Context, result entity.TaskResult) {
	statusColor(result.Status).Fprintf(c.out, "\n%s %s", statusIcon(result.Status), result.TaskDescription)
	color.New(color.Faint).Fprintf(c.out, " (%s, confidence %.2f)\n", result.Status, result.Confidence)

	fmt.Fprintln(c.out, indent(result.Findings, "   "))

	if len(result.Sources) > 0 {
		color.New(color.FgBlue).Fprintln(c.out, "   Sources:")
		for _, s := range result.Sources {
			fmt.Fprintf(c.out, "   - %s\n", s)
		}
	}
	for _, d := range result.Diagnostics {
		color.New(color.Faint).Fprintf(c.out, "   · %s\n", d)
	}
}

// Report prints every result followed by the run summary.
func (c *Console) Report(ctx context.Context, in output.ReportInput) error {
	color.New(color.FgCyan, color.Bold).Fprintf(c.out, "\n━━━ Research: %s ━━━\n", in.Topic)
	if in.Brief != "" {
		color.New(color.Faint).Fprintf(c.out, "Brief: %s\n", in.Brief)
	}

	for _, r := range in.Results {
		c.ShowTaskResult(ctx, r)
	}

	s := in.Summary
	color.New(color.Bold).Fprintln(c.out, "\n━━━ Summary ━━━")
	fmt.Fprintf(c.out, "Tasks: %d  ", s.Total)
	color.New(color.FgGreen).Fprintf(c.out, "completed %d  ", s.Completed)
	color.New(color.FgYellow).Fprintf(c.out, "partial %d  ", s.Partial)
	color.New(color.FgRed).Fprintf(c.out, "failed %d\n", s.Failed)
	fmt.Fprintf(c.out, "Distinct sources: %d\nMean confidence: %.2f\n", s.DistinctSources, s.MeanConfidence)

	return nil
}

func typeIcon(t entity.TaskType) string {
	switch t {
	case entity.TaskTypeWebSearch:
		return "🔎"
	case entity.TaskTypeFactChecking:
		return "✅"
	case entity.TaskTypeCurrentEvents:
		return "📰"
	case entity.TaskTypeBackgroundAnalysis:
		return "📚"
	default:
		return "🔧"
	}
}

func statusIcon(s entity.TaskStatus) string {
	switch s {
	case entity.TaskStatusCompleted:
		return "✓"
	case entity.TaskStatusPartial:
		return "◐"
	default:
		return "❌"
	}
}

func statusColor(s entity.TaskStatus) *color.Color {
	switch s {
	case entity.TaskStatusCompleted:
		return color.New(color.FgGreen, color.Bold)
	case entity.TaskStatusPartial:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
