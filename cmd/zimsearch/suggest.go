package main

import (
	"fmt"

	"github.com/fwojciec/zimsearch"
)

// Run executes the suggest command.
func (c *SuggestCmd) Run(deps *Dependencies) error {
	items, err := deps.Searcher.Suggest(deps.Ctx, c.Query, c.Zim, c.Max)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return err
	}

	if len(items) == 0 {
		fmt.Fprintf(deps.Stdout, "No suggestions for %q.\n", c.Query)
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", item.Title, item.Path, item.SourceArchive)
	}

	return nil
}
