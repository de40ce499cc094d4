package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docdex"
	main "github.com/fwojciec/docdex/cmd/docdex"
	"github.com/fwojciec/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	catalog := &mock.CatalogService{
		StatsFn: func(_ context.Context) (*docdex.CorpusStats, error) {
			return &docdex.CorpusStats{
				TotalChunks:    12,
				TotalDocuments: 4,
				ContentTypes:   map[string]int{"paragraph": 9, "code_block": 3},
				Sources:        map[string]int{"api": 7, "guides": 5},
			}, nil
		},
	}

	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  &bytes.Buffer{},
		Catalog: catalog,
	}

	cmd := &main.StatsCmd{}

	require.NoError(t, cmd.Run(deps))

	output := stdout.String()
	assert.Contains(t, output, "Documents: 4")
	assert.Contains(t, output, "Chunks:    12")
	assert.Contains(t, output, "paragraph")
	assert.Contains(t, output, "code_block")
	assert.Contains(t, output, "api")
	assert.Contains(t, output, "guides")
}
