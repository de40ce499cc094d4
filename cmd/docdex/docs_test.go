package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docdex"
	main "github.com/fwojciec/docdex/cmd/docdex"
	"github.com/fwojciec/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsCmd_Run(t *testing.T) {
	t.Parallel()

	records := []*docdex.DocumentRecord{
		{
			ID:          "rec-1",
			FilePath:    "api/users.md",
			SourceURL:   "https://example.com/api/users",
			ContentHash: "abc123",
			ChunkCount:  4,
			IndexedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	t.Run("lists indexed documents", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			DocumentsFn: func(_ context.Context) ([]*docdex.DocumentRecord, error) {
				return records, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Catalog: catalog,
		}

		cmd := &main.DocsCmd{}

		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "api/users.md")
		assert.Contains(t, output, "4 chunks")
		assert.NotContains(t, output, "abc123")
	})

	t.Run("full mode shows URLs and hashes", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			DocumentsFn: func(_ context.Context) ([]*docdex.DocumentRecord, error) {
				return records, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Catalog: catalog,
		}

		cmd := &main.DocsCmd{Full: true}

		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "https://example.com/api/users")
		assert.Contains(t, output, "abc123")
	})

	t.Run("reports an empty catalog", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			DocumentsFn: func(_ context.Context) ([]*docdex.DocumentRecord, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Catalog: catalog,
		}

		cmd := &main.DocsCmd{}

		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No documents indexed.")
	})
}
