package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.Chunker = (*Chunker)(nil)

// Chunker is a mock implementation of docdex.Chunker.
type Chunker struct {
	ChunkFn func(ctx context.Context, doc *docdex.Document) ([]*docdex.Chunk, error)
}

func (c *Chunker) Chunk(ctx context.Context, doc *docdex.Document) ([]*docdex.Chunk, error) {
	return c.ChunkFn(ctx, doc)
}
