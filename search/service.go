// Package search provides semantic search over indexed documentation.
package search

import (
	"context"
	"strings"

	"github.com/fwojciec/docdex"
)

// DefaultLimit is the number of results returned when the caller does not
// ask for a specific count.
const DefaultLimit = 5

// sourceOverfetch widens the store query when a source filter is active,
// since the filter is applied after retrieval.
const sourceOverfetch = 4

// Compile-time interface verification.
var _ docdex.SearchService = (*Service)(nil)

// Service implements docdex.SearchService. It embeds the query with the
// same model family used at indexing time and ranks stored chunks by
// similarity.
type Service struct {
	Embedder docdex.Embedder
	Store    docdex.VectorStore
}

// NewService creates a new search Service.
func NewService(embedder docdex.Embedder, store docdex.VectorStore) *Service {
	return &Service{Embedder: embedder, Store: store}
}

// Search embeds the query and returns the nearest chunks. Content type
// filtering happens in the vector store; source filtering is a
// case-insensitive substring match applied to the retrieved results.
func (s *Service) Search(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "search query required")
	}
	if opts.ContentType != "" && !opts.ContentType.Valid() {
		return nil, docdex.Errorf(docdex.EINVALID, "unknown content type %q", opts.ContentType)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	count, err := s.Store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []*docdex.SearchResult{}, nil
	}

	embedding, err := s.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	k := limit
	if opts.Source != "" {
		k = limit * sourceOverfetch
	}

	results, err := s.Store.Query(ctx, embedding, k, docdex.QueryFilter{
		ContentType: opts.ContentType,
	})
	if err != nil {
		return nil, err
	}

	if opts.Source != "" {
		results = filterBySource(results, opts.Source)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// filterBySource keeps results whose source file contains the given
// substring, compared case-insensitively.
func filterBySource(results []*docdex.SearchResult, source string) []*docdex.SearchResult {
	needle := strings.ToLower(source)
	filtered := results[:0]
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Chunk.SourceFile), needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
