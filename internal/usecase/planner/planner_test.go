package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"
	"research-agent/internal/infrastructure/llm/unavailable"
	"research-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	mu       sync.Mutex
	replies  []string
	requests []output.ChatRequest
}

func (s *scriptedLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: reply}}, nil
}

func newPlanner(llm output.LLMPort, maxSubtopics int) *Planner {
	return New(llm, logger.NewNop(), Config{MaxSubtopics: maxSubtopics, RequestTimeout: time.Second, Temperature: 0.1})
}

func TestPlan_EmptyTopic(t *testing.T) {
	_, err := newPlanner(unavailable.Adapter{}, 5).Plan(context.Background(), "   ", "")
	assert.ErrorIs(t, err, errs.ErrEmptyInput)
}

func TestPlan_ProviderOutageShortTopic(t *testing.T) {
	tasks, err := newPlanner(unavailable.Adapter{}, 5).Plan(context.Background(), "renewable energy storage", "")
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "research_task_1", tasks[0].ID)
	assert.Equal(t, "renewable energy storage", tasks[0].Query)
	assert.Equal(t, entity.TaskTypeWebSearch, tasks[0].Type)
	assert.Contains(t, tasks[0].Context, "What specific aspects of renewable energy storage")
}

func TestPlan_ProviderOutageLongTopic(t *testing.T) {
	topic := "impact of lithium mining on local water supplies"
	tasks, err := newPlanner(unavailable.Adapter{}, 5).Plan(context.Background(), topic, "")
	require.NoError(t, err)

	require.Len(t, tasks, 3)
	assert.Equal(t, entity.TaskTypeWebSearch, tasks[0].Type)
	assert.Equal(t, entity.TaskTypeCurrentEvents, tasks[1].Type)
	assert.Equal(t, entity.TaskTypeFactChecking, tasks[2].Type)
	for i, task := range tasks {
		assert.True(t, strings.HasPrefix(task.Query, topic))
		assert.NotEmpty(t, task.Description)
		assert.Equal(t, "research_task_"+string(rune('1'+i)), task.ID)
	}
}

func TestPlan_TaskCountBoundedUnderOutage(t *testing.T) {
	for limit := 1; limit <= 5; limit++ {
		tasks, err := newPlanner(unavailable.Adapter{}, limit).Plan(context.Background(), "a long topic with many different words", "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(tasks), 1)
		assert.LessOrEqual(t, len(tasks), limit)
	}
}

func TestPlan_StructuredReplies(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		`{"questions": ["Which regions?", "Which time frame?", "Which technologies?", "Extra?"], "explanation": "scope"}`,
		"```json\n{\"is_complex\": true, \"main_aspects\": [\"batteries\", \"hydro\"], \"recommended_subtopics\": 9, \"research_approach\": \"analytical\", \"reasoning\": \"broad\"}\n```",
		`Here you go: {"subtopics": [
			{"query": "grid battery costs", "description": "Cost trends", "priority": "high", "type": "web_search"},
			{"query": "latest battery news", "description": "News", "type": "bogus"},
			{"query": "Grid Battery Costs", "description": "duplicate"},
			{"query": "", "description": "empty"},
			{"query": "is hydrogen storage efficient", "description": "Verify efficiency claims", "type": "fact_checking", "priority": "low"},
			{"query": "storage physics", "description": "Concepts", "type": "background_analysis", "context": "physics"}
		]}`,
	}}

	tasks, err := newPlanner(llm, 5).Plan(context.Background(), "renewable energy storage", "")
	require.NoError(t, err)

	require.Len(t, tasks, 4)
	assert.Equal(t, entity.TaskTypeWebSearch, tasks[0].Type)
	assert.Equal(t, entity.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, entity.TaskTypeCurrentEvents, tasks[1].Type)
	assert.Equal(t, entity.TaskTypeFactChecking, tasks[2].Type)
	assert.Equal(t, entity.PriorityLow, tasks[2].Priority)
	assert.Equal(t, entity.TaskTypeBackgroundAnalysis, tasks[3].Type)
	assert.Equal(t, "physics", tasks[3].Context)
	assert.Contains(t, tasks[0].Context, "3. Which technologies?")
	assert.NotContains(t, tasks[0].Context, "Extra?")

	require.Len(t, llm.requests, 3)
	for _, req := range llm.requests {
		assert.True(t, req.JSONOnly)
		assert.Equal(t, entity.RoleSystem, req.Messages[0].Role)
	}
	assert.Contains(t, llm.requests[2].Messages[1].Content, "Create 5 focused research subtopics")
}

func TestPlan_CallerContextSkipsFollowUps(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		`{"is_complex": false, "recommended_subtopics": 1}`,
	}}

	tasks, err := newPlanner(llm, 5).Plan(context.Background(), "solid state batteries", "Focus on EV use")
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "Focus on EV use", tasks[0].Context)
	assert.Len(t, llm.requests, 1)
}

func TestPlan_MalformedSubtopicsFallBack(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		`{"is_complex": true, "recommended_subtopics": 2}`,
		`not json at all`,
	}}

	tasks, err := newPlanner(llm, 5).Plan(context.Background(), "ocean acidification", "ctx")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, "ocean acidification", tasks[0].Query)
	assert.Equal(t, "ocean acidification latest developments", tasks[1].Query)
}

func TestFollowUpQuestions_Fallback(t *testing.T) {
	questions := newPlanner(unavailable.Adapter{}, 5).FollowUpQuestions(context.Background(), "tidal power")
	assert.Equal(t, FallbackQuestions("tidal power"), questions)
	assert.Len(t, questions, 3)
}

func TestFormatQuestions(t *testing.T) {
	assert.Equal(t, "", FormatQuestions(nil))
	assert.Equal(t, "Additional questions to consider:\n1. A?\n2. B?", FormatQuestions([]string{"A?", "B?"}))
}
