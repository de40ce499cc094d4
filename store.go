package docdex

import "context"

// QueryFilter restricts a vector store query to chunks with matching
// metadata. The store only supports exact matches; fuzzier filtering
// (e.g. source substrings) happens in the search service.
type QueryFilter struct {
	ContentType ContentType
}

// VectorStore persists embedded chunks and serves nearest-neighbor search
// over them. The store is the sole long-lived owner of indexed chunks: the
// indexer is its only writer, the search path only reads.
type VectorStore interface {
	// Upsert writes a chunk and its embedding, replacing any previous entry
	// with the same ID (last-write-wins).
	Upsert(ctx context.Context, chunk *Chunk) error

	// Query returns up to k chunks nearest to the embedding, ordered by
	// descending similarity. Filters matching nothing yield an empty list.
	Query(ctx context.Context, embedding []float32, k int, filter QueryFilter) ([]*SearchResult, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Reset removes all stored chunks.
	Reset(ctx context.Context) error
}
