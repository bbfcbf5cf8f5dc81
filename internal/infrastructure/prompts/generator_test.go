package prompts

import (
	"strings"
	"testing"
)

func TestRenderSubtopics(t *testing.T) {
	result, err := Render("subtopics", SubtopicsTemplate, SubtopicsData{
		Topic:    "renewable energy storage",
		Context:  "Focus on Europe",
		Count:    3,
		Aspects:  []string{"batteries", "pumped hydro"},
		Approach: "analytical",
		Types:    []string{"web_search", "fact_checking"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		`Create 3 focused research subtopics for: "renewable energy storage"`,
		"Focus on Europe",
		"- batteries",
		"- pumped hydro",
		"web_search, fact_checking",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("prompt should contain %q\n%s", want, result)
		}
	}
}

func TestRenderSynthesisNumbersSources(t *testing.T) {
	result, err := Render("synthesis", SynthesisTemplate, SynthesisData{
		Query: "grid batteries",
		Sources: []SourceExcerpt{
			{Domain: "energy.gov", Title: "Storage", Relevance: 0.8, Excerpt: "DOE text"},
			{Domain: "mit.edu", Title: "Study", Relevance: 0.5, Excerpt: "MIT text"},
		},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(result, "Source 1 - energy.gov") || !strings.Contains(result, "Source 2 - mit.edu") {
		t.Errorf("sources should be numbered from 1:\n%s", result)
	}
	if !strings.Contains(result, "Relevance: 0.80") {
		t.Error("relevance should be formatted with two decimals")
	}
	if strings.Contains(result, "Research context") {
		t.Error("empty context should be omitted")
	}
}

func TestEmbeddedTemplatesRender(t *testing.T) {
	cases := map[string]struct {
		text string
		data any
	}{
		"followups":  {FollowUpsTemplate, FollowUpsData{Topic: "t"}},
		"complexity": {ComplexityTemplate, ComplexityData{Topic: "t", MaxSubtopics: 5}},
		"analysis":   {AnalysisTemplate, AnalysisData{Query: "t"}},
	}

	for name, c := range cases {
		out, err := Render(name, c.text, c.data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if out == "" {
			t.Errorf("%s: empty prompt", name)
		}
	}
}

func TestRenderBadTemplate(t *testing.T) {
	if _, err := Render("bad", "{{.Missing", nil); err == nil {
		t.Error("expected parse error")
	}
}
