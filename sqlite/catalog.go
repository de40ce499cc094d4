package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docdex.CatalogService = (*CatalogService)(nil)

// CatalogService implements docdex.CatalogService using SQLite. It holds the
// manifest of indexed documents and the set of indexed chunk IDs, which
// makes incremental runs cheap: a chunk whose ID is already recorded is
// never re-embedded.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// RecordDocument upserts a manifest entry keyed by file path.
func (s *CatalogService) RecordDocument(ctx context.Context, rec *docdex.DocumentRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.IndexedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, file_path, source_url, content_hash, chunk_count, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			source_url = excluded.source_url,
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count,
			indexed_at = excluded.indexed_at
	`, rec.ID, rec.FilePath, rec.SourceURL, rec.ContentHash, rec.ChunkCount,
		rec.IndexedAt.Format(time.RFC3339))

	return err
}

// RecordChunk marks a chunk as indexed.
func (s *CatalogService) RecordChunk(ctx context.Context, chunk *docdex.Chunk) error {
	if chunk.ID == "" {
		return docdex.Errorf(docdex.EINVALID, "chunk ID required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO chunks (id, source_file, content_type, token_count, indexed_at)
		VALUES (?, ?, ?, ?, ?)
	`, chunk.ID, chunk.SourceFile, string(chunk.ContentType), chunk.TokenCount,
		time.Now().UTC().Format(time.RFC3339))

	return err
}

// HasChunk reports whether a chunk ID has been indexed.
func (s *CatalogService) HasChunk(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM chunks WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ChunkIDs returns all indexed chunk IDs.
func (s *CatalogService) ChunkIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM chunks")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Documents lists manifest entries in lexicographic path order.
func (s *CatalogService) Documents(ctx context.Context) ([]*docdex.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, source_url, content_hash, chunk_count, indexed_at
		FROM documents
		ORDER BY file_path ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*docdex.DocumentRecord
	for rows.Next() {
		var rec docdex.DocumentRecord
		var indexedAt string

		if err := rows.Scan(&rec.ID, &rec.FilePath, &rec.SourceURL, &rec.ContentHash,
			&rec.ChunkCount, &indexedAt); err != nil {
			return nil, err
		}

		var parseErr error
		rec.IndexedAt, parseErr = time.Parse(time.RFC3339, indexedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse indexed_at: %w", parseErr)
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

// Stats aggregates chunk counts by content type and by top-level source
// directory.
func (s *CatalogService) Stats(ctx context.Context) (*docdex.CorpusStats, error) {
	stats := &docdex.CorpusStats{
		ContentTypes: make(map[string]int),
		Sources:      make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents").Scan(&stats.TotalDocuments); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT content_type, COUNT(*) FROM chunks GROUP BY content_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var contentType string
		var count int
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, err
		}
		stats.ContentTypes[contentType] = count
		stats.TotalChunks += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srcRows, err := s.db.QueryContext(ctx,
		"SELECT source_file, COUNT(*) FROM chunks GROUP BY source_file")
	if err != nil {
		return nil, err
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var sourceFile string
		var count int
		if err := srcRows.Scan(&sourceFile, &count); err != nil {
			return nil, err
		}
		stats.Sources[topLevelSource(sourceFile)] += count
	}

	return stats, srcRows.Err()
}

// Reset removes all manifest entries and chunk records.
func (s *CatalogService) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents")
	return err
}

// topLevelSource buckets a corpus-relative path by its first directory
// component. Top-level files bucket under ".".
func topLevelSource(path string) string {
	path = strings.TrimPrefix(path, "./")
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return "."
}
