package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of docdex.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
