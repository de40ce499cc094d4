package main

import (
	"fmt"

	"github.com/fwojciec/docdex"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Searcher.Search(deps.Ctx, c.Query, docdex.SearchOptions{
		Limit:       c.N,
		ContentType: docdex.ContentType(c.ContentType),
		Source:      c.Source,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}

	for i, res := range results {
		fmt.Fprintf(deps.Stdout, "%d. [%.4f] %s\n", i+1, res.Score, res.Chunk.SectionPath())
		fmt.Fprintf(deps.Stdout, "   %s", res.Chunk.SourceFile)
		if res.Chunk.SourceURL != "" && res.Chunk.SourceURL != res.Chunk.SourceFile {
			fmt.Fprintf(deps.Stdout, " (%s)", res.Chunk.SourceURL)
		}
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintf(deps.Stdout, "   %s\n\n", res.Chunk.Content)
	}
	return nil
}
