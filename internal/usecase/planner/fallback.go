package planner

import (
	"fmt"
	"strings"

	"research-agent/internal/domain/entity"
)

// FallbackQuestions are used when the provider cannot produce follow-up questions.
func FallbackQuestions(topic string) []string {
	return []string{
		fmt.Sprintf("What specific aspects of %s are you most interested in?", topic),
		fmt.Sprintf("Are there any time constraints or geographic focus for this research on %s?", topic),
		"What is the primary goal or outcome you hope to achieve with this research?",
	}
}

// FallbackComplexity treats topics longer than three words as complex.
func FallbackComplexity(topic string, maxSubtopics int) Complexity {
	isComplex := len(strings.Fields(topic)) > 3
	count := 1
	if isComplex {
		count = clamp(3, 1, maxSubtopics)
	}
	return Complexity{
		IsComplex:   isComplex,
		MainAspects: []string{topic},
		Subtopics:   count,
		Approach:    "exploratory",
		Reasoning:   "heuristic analysis without a text-generation provider",
	}
}

// FallbackSubtopics expands topic into up to count generic facets.
func FallbackSubtopics(topic string, count int) []Subtopic {
	facets := []Subtopic{
		{
			Query:       topic,
			Description: fmt.Sprintf("Overview of %s", topic),
			Context:     "core concepts and background",
			Priority:    string(entity.PriorityHigh),
			Type:        string(entity.TaskTypeWebSearch),
		},
		{
			Query:       topic + " latest developments",
			Description: fmt.Sprintf("Recent developments in %s", topic),
			Context:     "news and current events",
			Priority:    string(entity.PriorityMedium),
			Type:        string(entity.TaskTypeCurrentEvents),
		},
		{
			Query:       topic + " claims and evidence",
			Description: fmt.Sprintf("Evidence behind common claims about %s", topic),
			Context:     "verification of widely repeated claims",
			Priority:    string(entity.PriorityMedium),
			Type:        string(entity.TaskTypeFactChecking),
		},
		{
			Query:       topic + " challenges and limitations",
			Description: fmt.Sprintf("Challenges and limitations of %s", topic),
			Context:     "open problems and criticism",
			Priority:    string(entity.PriorityMedium),
			Type:        string(entity.TaskTypeWebSearch),
		},
		{
			Query:       topic + " future outlook",
			Description: fmt.Sprintf("Future outlook for %s", topic),
			Context:     "forecasts and expected trends",
			Priority:    string(entity.PriorityLow),
			Type:        string(entity.TaskTypeWebSearch),
		},
	}
	return facets[:clamp(count, 1, len(facets))]
}

var (
	factCheckingWords  = []string{"verify", "verified", "claim", "claims", "myth", "myths", "fact", "facts", "evidence", "debunk", "debunked", "accurate", "accuracy", "true", "false"}
	currentEventsWords = []string{"latest", "recent", "recently", "news", "today", "current", "currently", "developments", "update", "updates", "2024", "2025", "2026"}
)

// ClassifyTaskType picks the task type whose keywords appear in text; web search otherwise.
func ClassifyTaskType(text string) entity.TaskType {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		words[w] = struct{}{}
	}
	has := func(list []string) bool {
		for _, k := range list {
			if _, ok := words[k]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case has(factCheckingWords):
		return entity.TaskTypeFactChecking
	case has(currentEventsWords):
		return entity.TaskTypeCurrentEvents
	default:
		return entity.TaskTypeWebSearch
	}
}

// BuildTasks turns subtopics into tasks with run-unique IDs. Subtopics without a context
// inherit planningContext.
func BuildTasks(subtopics []Subtopic, planningContext string) []entity.Task {
	tasks := make([]entity.Task, 0, len(subtopics))
	for i, s := range subtopics {
		taskType, ok := entity.ParseTaskType(s.Type)
		if !ok {
			taskType = ClassifyTaskType(s.Query + " " + s.Description)
		}

		description := s.Description
		if description == "" {
			description = fmt.Sprintf("Research on %s", s.Query)
		}
		taskContext := s.Context
		if taskContext == "" {
			taskContext = planningContext
		}

		tasks = append(tasks, entity.Task{
			ID:          fmt.Sprintf("research_task_%d", i+1),
			Type:        taskType,
			Description: description,
			Query:       s.Query,
			Context:     taskContext,
			Priority:    entity.ParsePriority(s.Priority),
		})
	}
	return tasks
}
