package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docdex"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   Config
	Logger   *slog.Logger
	Catalog  docdex.CatalogService
	Store    docdex.VectorStore
	Embedder docdex.Embedder
	Chunker  docdex.Chunker
	Searcher docdex.SearchService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Index  IndexCmd  `cmd:"" help:"Index a mirrored documentation corpus"`
	Search SearchCmd `cmd:"" help:"Search indexed documentation"`
	Serve  ServeCmd  `cmd:"" help:"Serve the search HTTP API"`
	Stats  StatsCmd  `cmd:"" help:"Show corpus statistics"`
	Docs   DocsCmd   `cmd:"" help:"List indexed documents"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Root       string        `arg:"" help:"Corpus root directory"`
	Reset      bool          `help:"Clear the index before indexing"`
	TestSearch string        `name:"test-search" help:"Run a test query after indexing"`
	BatchSize  int           `default:"100" help:"Chunks per batch"`
	Delay      time.Duration `default:"500ms" help:"Pause between embedding calls"`
	Glob       string        `default:"*.md" help:"File name pattern to index"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query       string `arg:"" help:"Search query"`
	N           int    `short:"n" default:"5" help:"Number of results"`
	ContentType string `name:"content-type" help:"Filter by content type (paragraph, code_block, table, list, heading)"`
	Source      string `help:"Filter by source file substring"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides DOCDEX_ADDR)"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Full bool `help:"Show source URLs and content hashes"`
}
