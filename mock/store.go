package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of docdex.VectorStore.
type VectorStore struct {
	UpsertFn func(ctx context.Context, chunk *docdex.Chunk) error
	QueryFn  func(ctx context.Context, embedding []float32, k int, filter docdex.QueryFilter) ([]*docdex.SearchResult, error)
	CountFn  func(ctx context.Context) (int, error)
	ResetFn  func(ctx context.Context) error
}

func (s *VectorStore) Upsert(ctx context.Context, chunk *docdex.Chunk) error {
	return s.UpsertFn(ctx, chunk)
}

func (s *VectorStore) Query(ctx context.Context, embedding []float32, k int, filter docdex.QueryFilter) ([]*docdex.SearchResult, error) {
	return s.QueryFn(ctx, embedding, k, filter)
}

func (s *VectorStore) Count(ctx context.Context) (int, error) {
	return s.CountFn(ctx)
}

func (s *VectorStore) Reset(ctx context.Context) error {
	return s.ResetFn(ctx)
}
