// Package chromem provides a vector store implementation backed by
// chromem-go, an embedded vector database persisted to local disk.
package chromem

import (
	"context"
	"strconv"
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/philippgille/chromem-go"
)

// Metadata keys persisted alongside each chunk.
const (
	metaSourceFile  = "source_file"
	metaSourceURL   = "source_url"
	metaSectionPath = "section_path"
	metaContentType = "content_type"
	metaKeywords    = "keywords"
	metaTokenCount  = "token_count"
)

// Ensure Store implements docdex.VectorStore at compile time.
var _ docdex.VectorStore = (*Store)(nil)

// Store implements docdex.VectorStore using a single chromem-go collection.
// Embeddings are always supplied by the caller; the collection's own
// embedding function is never invoked.
type Store struct {
	db   *chromem.DB
	coll *chromem.Collection
	name string
}

// NewStore opens (or creates) a persistent store in the given directory.
func NewStore(path, collection string) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "cannot open vector store at %q: %v", path, err)
	}
	return newStore(db, collection)
}

// NewMemoryStore creates an ephemeral in-memory store, useful in tests.
func NewMemoryStore(collection string) (*Store, error) {
	return newStore(chromem.NewDB(), collection)
}

func newStore(db *chromem.DB, collection string) (*Store, error) {
	coll, err := db.GetOrCreateCollection(collection, collectionMetadata(), rejectEmbedding)
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "cannot open collection %q: %v", collection, err)
	}
	return &Store{db: db, coll: coll, name: collection}, nil
}

func collectionMetadata() map[string]string {
	return map[string]string{"description": "Technical documentation search"}
}

// rejectEmbedding guards against accidental use of the collection's own
// embedding path: all embeddings come from the indexer or the query service.
func rejectEmbedding(context.Context, string) ([]float32, error) {
	return nil, docdex.Errorf(docdex.EINTERNAL, "embeddings must be supplied by the caller")
}

// Upsert writes a chunk and its embedding, replacing any previous entry
// with the same ID.
func (s *Store) Upsert(ctx context.Context, chunk *docdex.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	if chunk.ID == "" {
		return docdex.Errorf(docdex.EINVALID, "chunk ID required")
	}
	if len(chunk.Embedding) == 0 {
		return docdex.Errorf(docdex.EINVALID, "chunk embedding required")
	}

	doc := chromem.Document{
		ID:        chunk.ID,
		Metadata:  metadataFor(chunk),
		Embedding: chunk.Embedding,
		Content:   chunk.Content,
	}
	if err := s.coll.AddDocument(ctx, doc); err != nil {
		return docdex.Errorf(docdex.EUNAVAILABLE, "vector store write failed: %v", err)
	}
	return nil
}

// Query returns up to k chunks nearest to the embedding, ordered by
// descending similarity. An empty collection or a filter matching nothing
// yields an empty list, not an error.
func (s *Store) Query(ctx context.Context, embedding []float32, k int, filter docdex.QueryFilter) ([]*docdex.SearchResult, error) {
	if k <= 0 {
		return nil, docdex.Errorf(docdex.EINVALID, "result count must be positive")
	}

	count := s.coll.Count()
	if count == 0 {
		return []*docdex.SearchResult{}, nil
	}
	if k > count {
		k = count
	}

	var where map[string]string
	if filter.ContentType != "" {
		where = map[string]string{metaContentType: string(filter.ContentType)}
	}

	found, err := s.coll.QueryEmbedding(ctx, embedding, k, where, nil)
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "vector store query failed: %v", err)
	}

	results := make([]*docdex.SearchResult, 0, len(found))
	for _, r := range found {
		results = append(results, &docdex.SearchResult{
			Chunk: chunkFrom(r),
			Score: r.Similarity,
		})
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.coll.Count(), nil
}

// Reset drops and recreates the collection.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return docdex.Errorf(docdex.EUNAVAILABLE, "vector store reset failed: %v", err)
	}
	coll, err := s.db.GetOrCreateCollection(s.name, collectionMetadata(), rejectEmbedding)
	if err != nil {
		return docdex.Errorf(docdex.EUNAVAILABLE, "cannot recreate collection %q: %v", s.name, err)
	}
	s.coll = coll
	return nil
}

// metadataFor flattens chunk metadata into the string map chromem persists.
func metadataFor(chunk *docdex.Chunk) map[string]string {
	return map[string]string{
		metaSourceFile:  chunk.SourceFile,
		metaSourceURL:   chunk.SourceURL,
		metaSectionPath: chunk.SectionPath(),
		metaContentType: string(chunk.ContentType),
		metaKeywords:    strings.Join(chunk.Keywords, ","),
		metaTokenCount:  strconv.Itoa(chunk.TokenCount),
	}
}

// chunkFrom rebuilds a chunk from a stored result.
func chunkFrom(r chromem.Result) *docdex.Chunk {
	tokenCount, _ := strconv.Atoi(r.Metadata[metaTokenCount])

	var keywords []string
	if kw := r.Metadata[metaKeywords]; kw != "" {
		keywords = strings.Split(kw, ",")
	}

	return &docdex.Chunk{
		ID:          r.ID,
		SourceFile:  r.Metadata[metaSourceFile],
		SourceURL:   r.Metadata[metaSourceURL],
		Content:     r.Content,
		HeaderPath:  docdex.ParseSectionPath(r.Metadata[metaSectionPath]),
		ContentType: docdex.ContentType(r.Metadata[metaContentType]),
		TokenCount:  tokenCount,
		Keywords:    keywords,
	}
}
