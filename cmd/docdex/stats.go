package main

import (
	"fmt"
	"sort"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Catalog.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents: %d\n", stats.TotalDocuments)
	fmt.Fprintf(deps.Stdout, "Chunks:    %d\n", stats.TotalChunks)

	if len(stats.ContentTypes) > 0 {
		fmt.Fprintln(deps.Stdout, "\nContent types:")
		for _, key := range sortedKeys(stats.ContentTypes) {
			fmt.Fprintf(deps.Stdout, "  %-12s %d\n", key, stats.ContentTypes[key])
		}
	}

	if len(stats.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, key := range sortedKeys(stats.Sources) {
			fmt.Fprintf(deps.Stdout, "  %-12s %d\n", key, stats.Sources[key])
		}
	}

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
