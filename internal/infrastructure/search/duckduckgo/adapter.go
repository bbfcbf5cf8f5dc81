package duckduckgo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

var _ output.SearchPort = (*Adapter)(nil)

// caller is the subset of the langchaingo tool used here.
type caller interface {
	Call(ctx context.Context, input string) (string, error)
}

// Adapter runs searches through the langchaingo DuckDuckGo tool and parses its text output.
type Adapter struct {
	tool   caller
	logger output.LoggerPort
}

func NewAdapter(maxResults int, userAgent string, logger output.LoggerPort) (*Adapter, error) {
	tool, err := duckduckgo.New(maxResults, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo tool: %w", err)
	}
	return &Adapter{tool: tool, logger: logger}, nil
}

func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query", errs.ErrEmptyInput)
	}

	raw, err := a.tool.Call(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: duckduckgo search: %w", errs.ErrProviderUnavailable, err)
	}

	results := parseResults(raw, limit)
	if a.logger != nil {
		a.logger.Debug("DuckDuckGo search completed", "query", query, "results", len(results))
	}
	return results, nil
}

// parseResults reads the tool's "Title: / Description: / URL:" blocks.
func parseResults(raw string, limit int) []entity.SearchResult {
	var results []entity.SearchResult
	var current entity.SearchResult

	flush := func() {
		if current.URL != "" && (limit <= 0 || len(results) < limit) {
			current.Rank = len(results)
			current.Domain = entity.DomainOf(current.URL)
			results = append(results, current)
		}
		current = entity.SearchResult{}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Title:"):
			if current.Title != "" || current.URL != "" {
				flush()
			}
			current.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "Description:"):
			current.Snippet = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		case strings.HasPrefix(line, "URL:"):
			current.URL = normalizeURL(strings.TrimSpace(strings.TrimPrefix(line, "URL:")))
		case line == "":
			if current.URL != "" {
				flush()
			}
		}
	}
	flush()

	return results
}

// normalizeURL unwraps DuckDuckGo redirect links and drops anything that is not http(s).
func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") {
		if target := u.Query().Get("uddg"); target != "" {
			return normalizeURL(target)
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
