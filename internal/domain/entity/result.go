package entity

import (
	"fmt"
	"math"
	"strings"
)

type TaskStatus string

const (
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusPartial   TaskStatus = "partial"
	TaskStatusFailed    TaskStatus = "failed"
)

// MaxConfidence is the ceiling for any reported confidence score.
const MaxConfidence = 0.95

type TaskResult struct {
	TaskID          string
	TaskDescription string
	Findings        string
	Sources         []string
	Confidence      float64
	Status          TaskStatus
	Diagnostics     []string
}

func NewFailedResult(task Task, reason string) TaskResult {
	r := TaskResult{
		TaskID:          task.ID,
		TaskDescription: task.Description,
		Status:          TaskStatusFailed,
		Diagnostics:     []string{reason},
	}
	return r.Normalize()
}

// Normalize returns a copy of r with the result invariants applied.
func (r TaskResult) Normalize() TaskResult {
	switch r.Status {
	case TaskStatusCompleted, TaskStatusPartial, TaskStatusFailed:
	default:
		r.Status = TaskStatusFailed
		r.Diagnostics = append(r.Diagnostics, "unknown status reported by agent")
	}

	if r.Confidence < 0 || math.IsNaN(r.Confidence) {
		r.Confidence = 0
	}
	if r.Confidence > MaxConfidence {
		r.Confidence = MaxConfidence
	}

	if r.Status == TaskStatusFailed {
		r.Confidence = 0
	}

	if strings.TrimSpace(r.Findings) == "" {
		r.Findings = placeholderFindings(r)
	}

	if r.Sources == nil {
		r.Sources = []string{}
	}

	return r
}

func placeholderFindings(r TaskResult) string {
	reason := "no findings were produced"
	if len(r.Diagnostics) > 0 {
		reason = r.Diagnostics[len(r.Diagnostics)-1]
	}
	if r.TaskDescription == "" {
		return fmt.Sprintf("Research could not be completed: %s.", reason)
	}
	return fmt.Sprintf("Research on '%s' could not be completed: %s.", r.TaskDescription, reason)
}

type Summary struct {
	Total           int
	Completed       int
	Partial         int
	Failed          int
	DistinctSources int
	MeanConfidence  float64
}
