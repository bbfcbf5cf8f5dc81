package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"research-agent/internal/domain/errs"
)

const maxFollowUps = 3

type Complexity struct {
	IsComplex   bool
	MainAspects []string
	Subtopics   int
	Approach    string
	Reasoning   string
}

type Subtopic struct {
	Query       string `json:"query"`
	Description string `json:"description"`
	Context     string `json:"context"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
}

// extractJSON returns the outermost JSON object in a model reply, tolerating markdown
// fences and surrounding prose.
func extractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", errs.ErrMalformedResponse)
	}
	return response[start : end+1], nil
}

func decode(response string, v any) error {
	raw, err := extractJSON(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrMalformedResponse, err)
	}
	return nil
}

// ParseFollowUps reads {"questions": [...], "explanation": "..."} and keeps at most three
// non-empty questions.
func ParseFollowUps(response string) ([]string, string, error) {
	var payload struct {
		Questions   []string `json:"questions"`
		Explanation string   `json:"explanation"`
	}
	if err := decode(response, &payload); err != nil {
		return nil, "", err
	}

	questions := make([]string, 0, maxFollowUps)
	for _, q := range payload.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == maxFollowUps {
			break
		}
	}
	if len(questions) == 0 {
		return nil, "", fmt.Errorf("%w: no follow-up questions", errs.ErrMalformedResponse)
	}
	return questions, strings.TrimSpace(payload.Explanation), nil
}

// ParseComplexity reads the complexity analysis and clamps the subtopic count to
// [1, maxSubtopics].
func ParseComplexity(response string, maxSubtopics int) (Complexity, error) {
	var payload struct {
		IsComplex   *bool    `json:"is_complex"`
		MainAspects []string `json:"main_aspects"`
		Recommended *int     `json:"recommended_subtopics"`
		Approach    string   `json:"research_approach"`
		Reasoning   string   `json:"reasoning"`
	}
	if err := decode(response, &payload); err != nil {
		return Complexity{}, err
	}
	if payload.IsComplex == nil || payload.Recommended == nil {
		return Complexity{}, fmt.Errorf("%w: is_complex and recommended_subtopics are required", errs.ErrMalformedResponse)
	}

	return Complexity{
		IsComplex:   *payload.IsComplex,
		MainAspects: nonEmpty(payload.MainAspects),
		Subtopics:   clamp(*payload.Recommended, 1, maxSubtopics),
		Approach:    strings.TrimSpace(payload.Approach),
		Reasoning:   strings.TrimSpace(payload.Reasoning),
	}, nil
}

// ParseSubtopics reads {"subtopics": [...]}, dropping entries without a query and
// duplicate queries, and keeps at most limit entries.
func ParseSubtopics(response string, limit int) ([]Subtopic, error) {
	var payload struct {
		Subtopics []Subtopic `json:"subtopics"`
	}
	if err := decode(response, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(payload.Subtopics))
	result := make([]Subtopic, 0, len(payload.Subtopics))
	for _, s := range payload.Subtopics {
		s.Query = strings.TrimSpace(s.Query)
		if s.Query == "" {
			continue
		}
		key := strings.ToLower(s.Query)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		s.Description = strings.TrimSpace(s.Description)
		s.Context = strings.TrimSpace(s.Context)
		result = append(result, s)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no usable subtopics", errs.ErrMalformedResponse)
	}
	return result, nil
}

func nonEmpty(items []string) []string {
	result := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
