package main_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/docdex/cmd/docdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()

	expectedCommands := []string{"index", "search", "serve", "stats", "docs"}
	for _, cmd := range expectedCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_IndexFlagDefaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"index", "/tmp/corpus"})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/corpus", cli.Index.Root)
	assert.False(t, cli.Index.Reset)
	assert.Equal(t, 100, cli.Index.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cli.Index.Delay)
	assert.Equal(t, "*.md", cli.Index.Glob)
}

func TestCLI_SearchFlagDefaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"search", "how to authenticate"})
	require.NoError(t, err)

	assert.Equal(t, "how to authenticate", cli.Search.Query)
	assert.Equal(t, 5, cli.Search.N)
	assert.Empty(t, cli.Search.ContentType)
	assert.Empty(t, cli.Search.Source)
}
