package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOpenCatalog(t *testing.T) *sqlite.CatalogService {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return sqlite.NewCatalogService(db)
}

func testChunk(id, sourceFile string, contentType docdex.ContentType) *docdex.Chunk {
	return &docdex.Chunk{
		ID:          id,
		SourceFile:  sourceFile,
		Content:     "content",
		ContentType: contentType,
		TokenCount:  10,
	}
}

func TestCatalogService_RecordDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates a manifest entry", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)
		ctx := context.Background()

		rec := &docdex.DocumentRecord{
			FilePath:    "api/users.md",
			SourceURL:   "https://example.com/api/users",
			ContentHash: "abc123",
			ChunkCount:  4,
		}
		require.NoError(t, catalog.RecordDocument(ctx, rec))

		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.IndexedAt.IsZero())

		recs, err := catalog.Documents(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "api/users.md", recs[0].FilePath)
		assert.Equal(t, 4, recs[0].ChunkCount)
	})

	t.Run("upserts by file path", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)
		ctx := context.Background()

		require.NoError(t, catalog.RecordDocument(ctx, &docdex.DocumentRecord{
			FilePath: "a.md", ContentHash: "old", ChunkCount: 1,
		}))
		require.NoError(t, catalog.RecordDocument(ctx, &docdex.DocumentRecord{
			FilePath: "a.md", ContentHash: "new", ChunkCount: 2,
		}))

		recs, err := catalog.Documents(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "new", recs[0].ContentHash)
		assert.Equal(t, 2, recs[0].ChunkCount)
	})

	t.Run("rejects a record without a file path", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)

		err := catalog.RecordDocument(context.Background(), &docdex.DocumentRecord{})
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("lists documents in path order", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)
		ctx := context.Background()

		for _, path := range []string{"c.md", "a.md", "b.md"} {
			require.NoError(t, catalog.RecordDocument(ctx, &docdex.DocumentRecord{FilePath: path}))
		}

		recs, err := catalog.Documents(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "a.md", recs[0].FilePath)
		assert.Equal(t, "b.md", recs[1].FilePath)
		assert.Equal(t, "c.md", recs[2].FilePath)
	})
}

func TestCatalogService_Chunks(t *testing.T) {
	t.Parallel()

	t.Run("records and finds chunk IDs", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)
		ctx := context.Background()

		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c1", "a.md", docdex.ContentTypeParagraph)))
		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c2", "a.md", docdex.ContentTypeCodeBlock)))

		has, err := catalog.HasChunk(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, has)

		has, err = catalog.HasChunk(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, has)

		ids, err := catalog.ChunkIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"c1", "c2"}, ids)
	})

	t.Run("recording the same chunk twice is idempotent", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)
		ctx := context.Background()

		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c1", "a.md", docdex.ContentTypeParagraph)))
		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c1", "a.md", docdex.ContentTypeParagraph)))

		ids, err := catalog.ChunkIDs(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})

	t.Run("rejects a chunk without an ID", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)

		err := catalog.RecordChunk(context.Background(), testChunk("", "a.md", docdex.ContentTypeParagraph))
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

func TestCatalogService_Stats(t *testing.T) {
	t.Parallel()

	t.Run("aggregates by content type and source directory", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)
		ctx := context.Background()

		require.NoError(t, catalog.RecordDocument(ctx, &docdex.DocumentRecord{FilePath: "api/users.md"}))
		require.NoError(t, catalog.RecordDocument(ctx, &docdex.DocumentRecord{FilePath: "guides/intro.md"}))

		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c1", "api/users.md", docdex.ContentTypeParagraph)))
		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c2", "api/users.md", docdex.ContentTypeCodeBlock)))
		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c3", "guides/intro.md", docdex.ContentTypeParagraph)))
		require.NoError(t, catalog.RecordChunk(ctx, testChunk("c4", "readme.md", docdex.ContentTypeParagraph)))

		stats, err := catalog.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.TotalDocuments)
		assert.Equal(t, 4, stats.TotalChunks)
		assert.Equal(t, map[string]int{"paragraph": 3, "code_block": 1}, stats.ContentTypes)
		assert.Equal(t, map[string]int{"api": 2, "guides": 1, ".": 1}, stats.Sources)
	})

	t.Run("empty catalog yields zero stats", func(t *testing.T) {
		t.Parallel()

		catalog := mustOpenCatalog(t)

		stats, err := catalog.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalDocuments)
		assert.Zero(t, stats.TotalChunks)
		assert.Empty(t, stats.ContentTypes)
		assert.Empty(t, stats.Sources)
	})
}

func TestCatalogService_Reset(t *testing.T) {
	t.Parallel()

	catalog := mustOpenCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.RecordDocument(ctx, &docdex.DocumentRecord{FilePath: "a.md"}))
	require.NoError(t, catalog.RecordChunk(ctx, testChunk("c1", "a.md", docdex.ContentTypeParagraph)))

	require.NoError(t, catalog.Reset(ctx))

	recs, err := catalog.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	ids, err := catalog.ChunkIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
