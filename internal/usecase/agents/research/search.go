package research

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"
)

var errNoResults = errors.New("search returned no results")

// search queries the provider and substitutes simulated results when it fails or finds
// nothing. The bool reports whether the results are simulated.
func (a *Agent) search(ctx context.Context, log output.LoggerPort, query string) ([]entity.SearchResult, bool, error) {
	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	results, err := a.searcher.Search(callCtx, query, a.cfg.MaxSources)
	if err == nil && len(results) > 0 {
		if len(results) > a.cfg.MaxSources {
			results = results[:a.cfg.MaxSources]
		}
		return results, false, nil
	}
	if err == nil {
		err = errNoResults
	}

	if !a.cfg.SimulateFallback {
		return nil, false, err
	}

	log.Warn("Search unavailable, using simulated results", "error", err, "kind", errs.Kind(err))
	return SimulatedResults(query, a.cfg.MaxSources), true, nil
}

// SimulatedResults derives a fixed result set from query. Identical queries always
// produce identical results.
func SimulatedResults(query string, limit int) []entity.SearchResult {
	results := []entity.SearchResult{
		{
			Title:     fmt.Sprintf("Research on %s", query),
			URL:       "https://example.com/research/" + url.PathEscape(strings.ReplaceAll(query, " ", "-")),
			Snippet:   fmt.Sprintf("Comprehensive information about %s", query),
			Domain:    "example.com",
			Rank:      0,
			Simulated: true,
		},
		{
			Title:     fmt.Sprintf("%s - Academic Study", query),
			URL:       "https://academic.edu/study/" + url.PathEscape(strings.ReplaceAll(query, " ", "_")),
			Snippet:   fmt.Sprintf("Academic research on %s", query),
			Domain:    "academic.edu",
			Rank:      1,
			Simulated: true,
		},
	}
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}
