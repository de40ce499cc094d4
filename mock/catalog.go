package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of docdex.CatalogService.
type CatalogService struct {
	RecordDocumentFn func(ctx context.Context, rec *docdex.DocumentRecord) error
	RecordChunkFn    func(ctx context.Context, chunk *docdex.Chunk) error
	HasChunkFn       func(ctx context.Context, id string) (bool, error)
	ChunkIDsFn       func(ctx context.Context) ([]string, error)
	DocumentsFn      func(ctx context.Context) ([]*docdex.DocumentRecord, error)
	StatsFn          func(ctx context.Context) (*docdex.CorpusStats, error)
	ResetFn          func(ctx context.Context) error
}

func (s *CatalogService) RecordDocument(ctx context.Context, rec *docdex.DocumentRecord) error {
	return s.RecordDocumentFn(ctx, rec)
}

func (s *CatalogService) RecordChunk(ctx context.Context, chunk *docdex.Chunk) error {
	return s.RecordChunkFn(ctx, chunk)
}

func (s *CatalogService) HasChunk(ctx context.Context, id string) (bool, error) {
	return s.HasChunkFn(ctx, id)
}

func (s *CatalogService) ChunkIDs(ctx context.Context) ([]string, error) {
	return s.ChunkIDsFn(ctx)
}

func (s *CatalogService) Documents(ctx context.Context) ([]*docdex.DocumentRecord, error) {
	return s.DocumentsFn(ctx)
}

func (s *CatalogService) Stats(ctx context.Context) (*docdex.CorpusStats, error) {
	return s.StatsFn(ctx)
}

func (s *CatalogService) Reset(ctx context.Context) error {
	return s.ResetFn(ctx)
}
