package main

import (
	"fmt"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	recs, err := deps.Catalog.Documents(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents indexed.")
		return nil
	}

	for _, rec := range recs {
		fmt.Fprintf(deps.Stdout, "%s (%d chunks, indexed %s)\n",
			rec.FilePath, rec.ChunkCount, rec.IndexedAt.Format("2006-01-02 15:04"))
		if c.Full {
			fmt.Fprintf(deps.Stdout, "  url:  %s\n", rec.SourceURL)
			fmt.Fprintf(deps.Stdout, "  hash: %s\n", rec.ContentHash)
		}
	}
	return nil
}
