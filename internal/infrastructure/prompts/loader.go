package prompts

import (
	_ "embed"
)

const (
	PlannerSystemPrompt   = "You are a research planning expert. Respond ONLY with valid JSON. No additional text."
	SynthesisSystemPrompt = "You are an expert research analyst who synthesizes information from multiple sources into focused, accurate insights."
	AnalysisSystemPrompt  = "You are a careful research analyst who explains topics from general knowledge."
)

//go:embed followups.tmpl
var FollowUpsTemplate string

//go:embed complexity.tmpl
var ComplexityTemplate string

//go:embed subtopics.tmpl
var SubtopicsTemplate string

//go:embed synthesis.tmpl
var SynthesisTemplate string

//go:embed analysis.tmpl
var AnalysisTemplate string
