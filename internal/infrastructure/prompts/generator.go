package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

type FollowUpsData struct {
	Topic string
}

type ComplexityData struct {
	Topic        string
	Context      string
	MaxSubtopics int
}

type SubtopicsData struct {
	Topic    string
	Context  string
	Count    int
	Aspects  []string
	Approach string
	Types    []string
}

type SourceExcerpt struct {
	Domain    string
	Title     string
	Relevance float64
	Excerpt   string
}

type SynthesisData struct {
	Query       string
	Description string
	Context     string
	Sources     []SourceExcerpt
}

type AnalysisData struct {
	Query       string
	Description string
	Context     string
}

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
}

// Render executes the template text with data.
func Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s prompt: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
