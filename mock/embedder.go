// Package mock provides mock implementations of docdex service interfaces
// for testing.
package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docdex.Embedder.
type Embedder struct {
	EmbedDocumentFn func(ctx context.Context, text string) ([]float32, error)
	EmbedQueryFn    func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedDocumentFn(ctx, text)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}
