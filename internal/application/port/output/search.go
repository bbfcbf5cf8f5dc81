package output

import (
	"context"

	"research-agent/internal/domain/entity"
)

type SearchPort interface {
	Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error)
}

type FetchPort interface {
	Fetch(ctx context.Context, url string) (*entity.Page, error)
}
