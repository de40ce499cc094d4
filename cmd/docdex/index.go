package main

import (
	"fmt"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/fs"
	"github.com/fwojciec/docdex/index"
	"golang.org/x/time/rate"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	walker := &fs.Walker{
		Chunker:   deps.Chunker,
		Glob:      c.Glob,
		SourceURL: fs.SiteURLResolver(deps.Config.SiteURL),
	}

	fmt.Fprintf(deps.Stdout, "Scanning %s\n", c.Root)
	walk, err := walker.Walk(deps.Ctx, c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	for _, f := range walk.Failures {
		fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", f.Path, f.Err)
	}
	fmt.Fprintf(deps.Stdout, "  Found %d documents (%d chunks)\n",
		len(walk.Documents), len(walk.Chunks))

	indexer := &index.Indexer{
		Embedder:  deps.Embedder,
		Store:     deps.Store,
		Catalog:   deps.Catalog,
		BatchSize: c.BatchSize,
		Limiter:   rate.NewLimiter(rate.Every(c.Delay), 1),
	}

	progress := func(event index.ProgressEvent) {
		switch event.Type {
		case index.ProgressStarted:
			if event.Batches > 1 {
				fmt.Fprintf(deps.Stdout, "  Indexing in %d batches\n", event.Batches)
			}
		case index.ProgressBatch:
			fmt.Fprintf(deps.Stdout, "  Batch %d/%d (%d/%d chunks)\n",
				event.Batch, event.Batches, event.Completed, event.Total)
		case index.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip chunk %s (%s): %v\n",
				event.Chunk.ID, event.Chunk.SourceFile, event.Error)
		}
	}

	summary, err := indexer.Index(deps.Ctx, walk, index.Options{Reset: c.Reset}, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error indexing: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Indexed %d chunks (%d skipped, %d failed)\n",
		summary.Indexed, summary.Skipped, summary.Failed)

	if c.TestSearch != "" {
		return c.runTestSearch(deps)
	}
	return nil
}

// runTestSearch issues one query against the freshly built index and prints
// a short preview of each match.
func (c *IndexCmd) runTestSearch(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "\nTest search: %q\n", c.TestSearch)

	results, err := deps.Searcher.Search(deps.Ctx, c.TestSearch, docdex.SearchOptions{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "  No results.")
		return nil
	}

	for i, res := range results {
		fmt.Fprintf(deps.Stdout, "  %d. [%.4f] %s (%s)\n",
			i+1, res.Score, res.Chunk.SectionPath(), res.Chunk.SourceFile)
		fmt.Fprintf(deps.Stdout, "     %s\n", preview(res.Chunk.Content, 120))
	}
	return nil
}

// preview truncates content to a single display line.
func preview(content string, maxLen int) string {
	runes := []rune(content)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > maxLen {
		runes = append(runes[:maxLen-3], '.', '.', '.')
	}
	return string(runes)
}
