package docdex

import (
	"context"
	"time"
)

// Document represents one markdown file from the mirrored documentation
// tree. A document is read once per indexing run and is immutable during
// processing.
type Document struct {
	// Corpus-relative path of the file.
	FilePath string `json:"filePath"`

	// Derived external link for attribution.
	SourceURL string `json:"sourceUrl"`

	// Raw markdown text.
	Content string `json:"content"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.FilePath == "" {
		return Errorf(EINVALID, "document file path required")
	}
	return nil
}

// SourceURLFunc derives the public documentation URL for a corpus-relative
// file path. The mapping rule is owned by the mirroring pipeline; callers
// that have no rule may return the path itself.
type SourceURLFunc func(relPath string) string

// CorpusWalker enumerates documents in a source tree and produces the full
// chunk sequence for one indexing run.
type CorpusWalker interface {
	// Walk enumerates matching files under root in lexicographic path order,
	// chunks each one, and returns the aggregate. Per-file failures are
	// recorded and skipped; only an unreadable root aborts the walk.
	Walk(ctx context.Context, root string) (*WalkResult, error)
}

// WalkResult aggregates the output of one corpus walk.
type WalkResult struct {
	Documents []*Document
	Chunks    []*Chunk
	Failures  []WalkFailure
}

// WalkFailure records a document that could not be processed.
type WalkFailure struct {
	Path string
	Err  error
}

// DocumentRecord is the catalog's manifest entry for an indexed source file.
type DocumentRecord struct {
	ID          string    `json:"id"`
	FilePath    string    `json:"filePath"`
	SourceURL   string    `json:"sourceUrl"`
	ContentHash string    `json:"contentHash"`
	ChunkCount  int       `json:"chunkCount"`
	IndexedAt   time.Time `json:"indexedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *DocumentRecord) Validate() error {
	if r.FilePath == "" {
		return Errorf(EINVALID, "document record file path required")
	}
	return nil
}

// CorpusStats summarizes the indexed corpus for the stats surface.
type CorpusStats struct {
	TotalChunks    int            `json:"totalChunks"`
	TotalDocuments int            `json:"totalDocuments"`
	ContentTypes   map[string]int `json:"contentTypes"`
	Sources        map[string]int `json:"sources"`
}

// CatalogService persists the manifest of indexed documents and chunk
// identifiers. It is the authority for dedup between indexing runs and the
// source of corpus statistics.
type CatalogService interface {
	// RecordDocument upserts a manifest entry keyed by file path.
	RecordDocument(ctx context.Context, rec *DocumentRecord) error

	// RecordChunk marks a chunk as indexed. Called only after the chunk has
	// been committed to the vector store.
	RecordChunk(ctx context.Context, chunk *Chunk) error

	// HasChunk reports whether a chunk ID has been indexed.
	HasChunk(ctx context.Context, id string) (bool, error)

	// ChunkIDs returns all indexed chunk IDs.
	ChunkIDs(ctx context.Context) ([]string, error)

	// Documents lists manifest entries in lexicographic path order.
	Documents(ctx context.Context) ([]*DocumentRecord, error)

	// Stats aggregates chunk counts by content type and source.
	Stats(ctx context.Context) (*CorpusStats, error)

	// Reset removes all manifest entries and chunk records.
	Reset(ctx context.Context) error
}
