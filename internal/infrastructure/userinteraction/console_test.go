package userinteraction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	color.NoColor = true
	var out bytes.Buffer
	return NewConsoleWith(strings.NewReader(input), &out), &out
}

func TestAskQuestion(t *testing.T) {
	c, out := newTestConsole("  Europe  \nsecond\n")

	answer, err := c.AskQuestion(context.Background(), "Which region?")
	require.NoError(t, err)
	assert.Equal(t, "Europe", answer)
	assert.Contains(t, out.String(), "Which region?")

	answer, err = c.AskQuestion(context.Background(), "Next?")
	require.NoError(t, err)
	assert.Equal(t, "second", answer)

	_, err = c.AskQuestion(context.Background(), "Again?")
	assert.Error(t, err)
}

func TestAskQuestion_LastLineWithoutNewline(t *testing.T) {
	c, _ := newTestConsole("final")

	answer, err := c.AskQuestion(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "final", answer)
}

func TestShowPlan(t *testing.T) {
	c, out := newTestConsole("")

	c.ShowPlan(context.Background(), []entity.Task{
		{ID: "research_task_1", Type: entity.TaskTypeWebSearch, Description: "Overview", Query: "grid storage", Priority: entity.PriorityHigh},
	})

	assert.Contains(t, out.String(), "Research plan: 1 task(s)")
	assert.Contains(t, out.String(), "Overview")
	assert.Contains(t, out.String(), "[web_search, high]")
	assert.Contains(t, out.String(), "query: grid storage")
}

func TestReport(t *testing.T) {
	c, out := newTestConsole("")

	err := c.Report(context.Background(), output.ReportInput{
		Topic: "grid storage",
		Brief: "two paragraphs",
		Results: []entity.TaskResult{
			{
				TaskDescription: "Overview",
				Findings:        "line one\nline two",
				Sources:         []string{"https://energy.gov/storage"},
				Confidence:      0.62,
				Status:          entity.TaskStatusCompleted,
			},
			{
				TaskDescription: "Claims",
				Findings:        "placeholder",
				Status:          entity.TaskStatusFailed,
				Diagnostics:     []string{"no capable agent"},
			},
		},
		Summary: entity.Summary{Total: 2, Completed: 1, Failed: 1, DistinctSources: 1, MeanConfidence: 0.62},
	})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Research: grid storage")
	assert.Contains(t, s, "Brief: two paragraphs")
	assert.Contains(t, s, "✓ Overview (completed, confidence 0.62)")
	assert.Contains(t, s, "   line one\n   line two")
	assert.Contains(t, s, "- https://energy.gov/storage")
	assert.Contains(t, s, "· no capable agent")
	assert.Contains(t, s, "completed 1  partial 0  failed 1")
	assert.Contains(t, s, "Mean confidence: 0.62")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "éé...", truncate("éééé", 2))
}
