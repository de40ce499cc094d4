package docdex

import "context"

// Embedder converts text into fixed-length embedding vectors.
//
// Index-time and query-time embeddings must come from the same
// implementation: vectors from different embedding functions are not
// comparable and invalidate all similarity scores.
type Embedder interface {
	// EmbedDocument embeds chunk content for storage.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery embeds a search query in the same embedding space.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
