package main

import (
	"fmt"

	"github.com/fwojciec/zimsearch"
	"github.com/fwojciec/zimsearch/catalog"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	infos, err := deps.Searcher.Archives(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return err
	}

	if c.XML {
		return catalog.Write(deps.Stdout, infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(deps.Stdout, "No archives found. Use 'zimpack' to build one.")
		return nil
	}

	for _, info := range infos {
		if info.Err != "" {
			fmt.Fprintf(deps.Stdout, "%s  (unreadable: %s)\n", info.Name, info.Err)
			continue
		}
		index := "no index"
		if info.HasIndex {
			index = "indexed"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d entries (%d articles, %d media)  %s\n",
			info.Name, info.Title, info.EntryCount, info.ArticleCount, info.MediaCount, index)
	}

	return nil
}
