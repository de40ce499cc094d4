package docdex

import (
	"context"
	"encoding/hex"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Chunk represents the atomic indexed unit: a section of a markdown document
// optimized for embedding and retrieval.
type Chunk struct {
	// Stable identifier derived from source file, position and content.
	// Identical content at the same logical position always yields the same
	// ID, which is what makes re-indexing idempotent.
	ID string `json:"id"`

	// Corpus-relative path of the source document.
	SourceFile string `json:"sourceFile"`

	// Derived external link for attribution.
	SourceURL string `json:"sourceUrl"`

	// Zero-based position of the chunk within its document.
	Position int `json:"position"`

	// The chunk's text. Never empty for a valid chunk.
	Content string `json:"content"`

	// Ordered list of enclosing header titles (H1 → H2 → H3). Empty for
	// documents without headers.
	HeaderPath []string `json:"headerPath,omitempty"`

	// Dominant content classification.
	ContentType ContentType `json:"contentType"`

	// Estimated model tokens in Content.
	TokenCount int `json:"tokenCount"`

	// Lower-cased keywords from header titles and inline code spans.
	Keywords []string `json:"keywords,omitempty"`

	// Embedding vector, populated by the indexer. Absent before indexing.
	Embedding []float32 `json:"embedding,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.SourceFile == "" {
		return Errorf(EINVALID, "chunk source file required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if !c.ContentType.Valid() {
		return Errorf(EINVALID, "unknown content type %q", c.ContentType)
	}
	return nil
}

// SectionPath returns the header hierarchy joined for display,
// e.g. "API > Auth > Tokens". Chunks outside any header report "Root".
func (c *Chunk) SectionPath() string {
	return SectionPath(c.HeaderPath)
}

// Enrich populates the derived metadata on a chunk: the attribution URL,
// the keyword set and the stable identifier. Enrich is deterministic, so
// re-chunking identical content yields identical IDs on every run.
func (c *Chunk) Enrich(sourceURL string) {
	c.SourceURL = sourceURL
	c.Keywords = ExtractKeywords(c.Content, c.HeaderPath)
	c.ID = ChunkID(c.SourceFile, c.Position, c.Content)
}

// ChunkID computes the stable identifier for a chunk from its source file,
// position within the document, and content.
func ChunkID(sourceFile string, position int, content string) string {
	return hashString(sourceFile + ":" + strconv.Itoa(position) + ":" + content)
}

// HashContent computes a content digest used to detect changed documents
// between indexing runs.
func HashContent(content string) string {
	return hashString(content)
}

// hashString computes xxHash of s and returns it as a hex string.
func hashString(s string) string {
	h := xxhash.Sum64String(s)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// Chunker splits one markdown document into an ordered sequence of chunks
// covering the entire document with no gaps.
type Chunker interface {
	// Chunk produces the chunks for a document. Positions are assigned in
	// document order. Empty documents yield zero chunks and no error.
	Chunk(ctx context.Context, doc *Document) ([]*Chunk, error)
}

// SearchService provides semantic search over indexed chunks.
type SearchService interface {
	// Search embeds the query and returns up to opts.Limit chunks ordered by
	// descending similarity. An empty store or filters matching nothing
	// yield an empty result list, not an error.
	Search(ctx context.Context, query string, opts SearchOptions) ([]*SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return. Defaults to 5.
	Limit int `json:"limit,omitempty"`

	// Restrict results to a single content type. Empty means all types.
	ContentType ContentType `json:"contentType,omitempty"`

	// Restrict results to source files containing this substring
	// (case-insensitive). Empty means all sources.
	Source string `json:"source,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}
