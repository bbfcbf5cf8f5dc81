package entity

import "strings"

type TaskType string

const (
	TaskTypeWebSearch          TaskType = "web_search"
	TaskTypeFactChecking       TaskType = "fact_checking"
	TaskTypeCurrentEvents      TaskType = "current_events"
	TaskTypeBackgroundAnalysis TaskType = "background_analysis"
)

var knownTaskTypes = map[TaskType]struct{}{
	TaskTypeWebSearch:          {},
	TaskTypeFactChecking:       {},
	TaskTypeCurrentEvents:      {},
	TaskTypeBackgroundAnalysis: {},
}

// ParseTaskType reports whether s names a task type the system knows how to plan for.
func ParseTaskType(s string) (TaskType, bool) {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownTaskTypes[t]
	return t, ok
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Rank orders priorities for scheduling; lower runs first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

type Task struct {
	ID          string
	Type        TaskType
	Description string
	Query       string
	Context     string
	Priority    Priority
}

// SearchQuery is the text handed to providers; Description is used when Query is unset.
func (t Task) SearchQuery() string {
	if q := strings.TrimSpace(t.Query); q != "" {
		return q
	}
	return strings.TrimSpace(t.Description)
}
