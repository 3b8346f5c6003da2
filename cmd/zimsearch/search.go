package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/zimsearch"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	hits, err := deps.Searcher.Search(deps.Ctx, c.Query, c.Zim, c.Max)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", c.Query)
		return nil
	}

	for i, hit := range hits {
		fmt.Fprintf(deps.Stdout, "%d. %s  (%s, score %.2f)\n", i+1, hit.Title, hit.SourceArchive, hit.Score)
		fmt.Fprintf(deps.Stdout, "   %s\n", hit.Path)
		if hit.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", hit.Snippet)
		}
	}

	return nil
}
