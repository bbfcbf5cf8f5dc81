package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"

	"golang.org/x/time/rate"
)

var _ output.FetchPort = (*Fetcher)(nil)

type Config struct {
	UserAgent       string
	MaxBodyBytes    int64
	MaxContentChars int
	RatePerSecond   float64
	HTTPClient      *http.Client
	Clean           *CleanConfig
}

func DefaultConfig() Config {
	return Config{
		UserAgent:       "Mozilla/5.0 (compatible; research-agent/1.0)",
		MaxBodyBytes:    2 << 20,
		MaxContentChars: 5000,
	}
}

// Fetcher downloads static HTML or plain-text pages and returns their cleaned, length-capped
// text. Timeouts come from the caller's context.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

func NewFetcher(cfg Config) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Fetcher{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*entity.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", errs.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", errs.ErrProviderUnavailable, url, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", errs.ErrProviderUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetch %s: status %d", errs.ErrProviderUnavailable, url, resp.StatusCode)
	}

	mediaType := ""
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ = mime.ParseMediaType(ct)
	}
	if mediaType != "" && !strings.HasPrefix(mediaType, "text/") && mediaType != "application/xhtml+xml" {
		return nil, fmt.Errorf("%w: fetch %s: unsupported content type %q", errs.ErrMalformedResponse, url, mediaType)
	}

	limit := f.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = 2 << 20
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", errs.ErrProviderUnavailable, url, err)
	}

	page := &entity.Page{URL: url}
	if mediaType == "text/plain" {
		page.Text = string(body)
	} else {
		title, text, err := ExtractText(string(body), f.cfg.Clean)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", errs.ErrMalformedResponse, url, err)
		}
		page.Title = title
		page.Text = text
	}

	page.Text = Truncate(CleanText(page.Text), f.cfg.MaxContentChars)
	return page, nil
}
