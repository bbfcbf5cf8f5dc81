package research

import (
	"context"
	"fmt"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// fetchAll fetches every result concurrently, bounded by the fetch ceiling. Failed or thin
// pages are dropped; survivors keep search order.
func (a *Agent) fetchAll(ctx context.Context, log output.LoggerPort, results []entity.SearchResult) []entity.ExtractedSource {
	if len(results) > a.cfg.MaxSources {
		results = results[:a.cfg.MaxSources]
	}

	slots := make([]*entity.ExtractedSource, len(results))

	var g errgroup.Group
	g.SetLimit(a.cfg.FetchConcurrency)

	for i, r := range results {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					log.Error("Fetch panicked", "url", r.URL, "panic", p)
				}
			}()

			src, err := a.fetchOne(ctx, r)
			if err != nil {
				log.Debug("Source dropped", "url", r.URL, "error", err)
				return nil
			}
			slots[i] = src
			return nil
		})
	}
	_ = g.Wait()

	extracted := make([]entity.ExtractedSource, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			extracted = append(extracted, *s)
		}
	}
	return extracted
}

func (a *Agent) fetchOne(ctx context.Context, r entity.SearchResult) (*entity.ExtractedSource, error) {
	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	page, err := a.fetcher.Fetch(callCtx, r.URL)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(page.Text)
	if len([]rune(text)) <= a.cfg.MinContentChars {
		return nil, fmt.Errorf("page %s has too little content (%d chars)", r.URL, len([]rune(text)))
	}

	title := r.Title
	if title == "" {
		title = page.Title
	}
	domain := r.Domain
	if domain == "" {
		domain = entity.DomainOf(r.URL)
	}

	return &entity.ExtractedSource{
		URL:     r.URL,
		Domain:  domain,
		Title:   title,
		Snippet: r.Snippet,
		Text:    text,
		Rank:    r.Rank,
	}, nil
}
