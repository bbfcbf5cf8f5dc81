package planner

import (
	"testing"

	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFollowUps(t *testing.T) {
	qs, explanation, err := ParseFollowUps("```json\n{\"questions\": [\" A? \", \"\", \"B?\"], \"explanation\": \" why \"}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"A?", "B?"}, qs)
	assert.Equal(t, "why", explanation)

	_, _, err = ParseFollowUps(`{"questions": []}`)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)

	_, _, err = ParseFollowUps("I cannot help with that")
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)
}

func TestParseComplexity(t *testing.T) {
	c, err := ParseComplexity(`{"is_complex": true, "main_aspects": ["a", " "], "recommended_subtopics": 0}`, 5)
	require.NoError(t, err)
	assert.True(t, c.IsComplex)
	assert.Equal(t, 1, c.Subtopics)
	assert.Equal(t, []string{"a"}, c.MainAspects)

	c, err = ParseComplexity(`{"is_complex": true, "recommended_subtopics": 12}`, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Subtopics)

	_, err = ParseComplexity(`{"is_complex": true}`, 5)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)

	_, err = ParseComplexity(`{"is_complex": true, "recommended_subtopics": "three"}`, 5)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)
}

func TestParseSubtopics(t *testing.T) {
	subs, err := ParseSubtopics(`{"subtopics": [{"query": "a"}, {"query": "b"}, {"query": "c"}]}`, 2)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "b", subs[1].Query)

	_, err = ParseSubtopics(`{"subtopics": [{"query": "  "}]}`, 3)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)

	_, err = ParseSubtopics(`}{`, 3)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)
}

func TestFallbackComplexity(t *testing.T) {
	assert.False(t, FallbackComplexity("renewable energy storage", 5).IsComplex)
	assert.Equal(t, 1, FallbackComplexity("renewable energy storage", 5).Subtopics)

	c := FallbackComplexity("history of the printing press", 2)
	assert.True(t, c.IsComplex)
	assert.Equal(t, 2, c.Subtopics)
}

func TestFallbackSubtopics_Bounds(t *testing.T) {
	assert.Len(t, FallbackSubtopics("x", 0), 1)
	assert.Len(t, FallbackSubtopics("x", 3), 3)
	assert.Len(t, FallbackSubtopics("x", 10), 5)
	assert.Equal(t, FallbackSubtopics("x", 5), FallbackSubtopics("x", 5))
}

func TestClassifyTaskType(t *testing.T) {
	tests := map[string]entity.TaskType{
		"Is it true that wind turbines kill birds": entity.TaskTypeFactChecking,
		"latest solar panel news":                  entity.TaskTypeCurrentEvents,
		"Storage developments in 2025":             entity.TaskTypeCurrentEvents,
		"how do flow batteries work":               entity.TaskTypeWebSearch,
		"verify the latest claims":                 entity.TaskTypeFactChecking,
	}
	for text, want := range tests {
		assert.Equal(t, want, ClassifyTaskType(text), text)
	}
}

func TestBuildTasks(t *testing.T) {
	tasks := BuildTasks([]Subtopic{
		{Query: "q1", Type: "current_events"},
		{Query: "q2", Description: "d2", Context: "own", Priority: "high"},
	}, "shared")

	require.Len(t, tasks, 2)
	assert.Equal(t, "research_task_1", tasks[0].ID)
	assert.Equal(t, "Research on q1", tasks[0].Description)
	assert.Equal(t, "shared", tasks[0].Context)
	assert.Equal(t, entity.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, entity.TaskTypeCurrentEvents, tasks[0].Type)
	assert.Equal(t, "own", tasks[1].Context)
	assert.Equal(t, entity.PriorityHigh, tasks[1].Priority)
}
