package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"

	// maxResultsPerCall is the Custom Search API page size limit.
	maxResultsPerCall = 10
)

var _ output.SearchPort = (*Adapter)(nil)

type Config struct {
	APIKey        string
	EngineID      string
	Endpoint      string
	RatePerSecond float64
	HTTPClient    *http.Client
	Logger        output.LoggerPort
}

// Adapter queries the Google Custom Search JSON API. Without credentials every call fails
// with errs.ErrProviderUnavailable.
type Adapter struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

func NewAdapter(cfg Config) *Adapter {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Adapter{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	if a.cfg.APIKey == "" || a.cfg.EngineID == "" {
		return nil, fmt.Errorf("%w: google search credentials not configured", errs.ErrProviderUnavailable)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query", errs.ErrEmptyInput)
	}
	if limit <= 0 || limit > maxResultsPerCall {
		limit = maxResultsPerCall
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", errs.ErrProviderUnavailable, err)
	}

	params := url.Values{}
	params.Set("key", a.cfg.APIKey)
	params.Set("cx", a.cfg.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", errs.ErrProviderUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: google search: %w", errs.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", errs.ErrProviderUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: google search returned status %d", errs.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode google response: %w", errs.ErrMalformedResponse, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: google search error %d: %s", errs.ErrProviderUnavailable, parsed.Error.Code, parsed.Error.Message)
	}

	results := make([]entity.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if !strings.HasPrefix(item.Link, "http://") && !strings.HasPrefix(item.Link, "https://") {
			continue
		}
		results = append(results, entity.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Domain:  entity.DomainOf(item.Link),
			Rank:    len(results),
		})
		if len(results) == limit {
			break
		}
	}

	if a.cfg.Logger != nil {
		a.cfg.Logger.Debug("Google search completed", "query", query, "results", len(results))
	}

	return results, nil
}
