package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/zimsearch"
)

// Run executes the entry command.
func (c *EntryCmd) Run(deps *Dependencies) error {
	entry, err := deps.Searcher.Entry(deps.Ctx, c.Title, c.Zim)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	fmt.Fprintf(deps.Stdout, "# %s\n", entry.Title)
	fmt.Fprintf(deps.Stdout, "(%s, %s)\n\n", entry.SourceArchive, entry.Path)
	fmt.Fprintln(deps.Stdout, entry.Content)

	return nil
}
