package research

import (
	"context"
	"fmt"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"
	"research-agent/internal/infrastructure/prompts"
)

const fallbackExcerptChars = 200

// synthesize asks the provider to summarize the top reliable sources. It reports true when
// the returned text is the extractive fallback.
func (a *Agent) synthesize(ctx context.Context, log output.LoggerPort, task entity.Task, query string, reliable []entity.ExtractedSource) (string, bool) {
	if len(reliable) == 0 {
		return FallbackSummary(query, nil), true
	}

	top := reliable
	if len(top) > a.cfg.SynthesisSources {
		top = top[:a.cfg.SynthesisSources]
	}

	excerpts := make([]prompts.SourceExcerpt, 0, len(top))
	for _, s := range top {
		excerpts = append(excerpts, prompts.SourceExcerpt{
			Domain:    s.Domain,
			Title:     s.Title,
			Relevance: s.Relevance,
			Excerpt:   excerpt(s.Text, a.cfg.SynthesisExcerpt),
		})
	}

	prompt, err := prompts.Render("synthesis", prompts.SynthesisTemplate, prompts.SynthesisData{
		Query:       query,
		Description: task.Description,
		Context:     task.Context,
		Sources:     excerpts,
	})
	if err == nil {
		callCtx, cancel := a.withTimeout(ctx)
		defer cancel()

		var resp *output.ChatResponse
		resp, err = a.llm.Chat(callCtx, output.ChatRequest{
			Messages: []entity.Message{
				{Role: entity.RoleSystem, Content: prompts.SynthesisSystemPrompt},
				{Role: entity.RoleUser, Content: prompt},
			},
			Temperature: a.cfg.Temperature,
			MaxTokens:   a.cfg.MaxTokens,
		})
		if err == nil {
			if text := strings.TrimSpace(resp.Message.Content); text != "" {
				return text, false
			}
			err = fmt.Errorf("%w: empty synthesis", errs.ErrMalformedResponse)
		}
	}

	log.Warn("Synthesis failed, using extractive summary", "error", err, "kind", errs.Kind(err))
	return FallbackSummary(query, reliable), true
}

// FallbackSummary builds a deterministic extractive summary from the two most relevant
// sources.
func FallbackSummary(query string, sources []entity.ExtractedSource) string {
	if len(sources) == 0 {
		return fmt.Sprintf("Unable to find substantial information about '%s'. No reliable sources were accessible.", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Research findings for '%s':\n", query)
	for i, s := range sources {
		if i == 2 {
			break
		}
		fmt.Fprintf(&sb, "\n%d. From %s: %s...", i+1, s.Domain, excerpt(s.Text, fallbackExcerptChars))
	}
	return sb.String()
}

func excerpt(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
