package main

import (
	"context"
	"io"

	"github.com/fwojciec/zimsearch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Searcher zimsearch.SearchService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DataDir string `help:"Directory containing archive files"`
	Verbose bool   `short:"v" help:"Log service calls to stderr"`

	Search  SearchCmd  `cmd:"" help:"Search across archives"`
	Entry   EntryCmd   `cmd:"" help:"Retrieve an entry by title or path"`
	Suggest SuggestCmd `cmd:"" help:"Get title suggestions for a query"`
	List    ListCmd    `cmd:"" help:"List available archives"`
	Serve   ServeCmd   `cmd:"" help:"Serve archives over the Model Context Protocol on stdio"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	Zim   string `short:"z" help:"Search a single archive instead of all"`
	Max   int    `short:"n" default:"10" help:"Maximum number of results"`
	JSON  bool   `help:"Emit results as JSON"`
}

// EntryCmd is the "entry" subcommand.
type EntryCmd struct {
	Title string `arg:"" help:"Entry title or path"`
	Zim   string `short:"z" help:"Look only in a single archive"`
	JSON  bool   `help:"Emit the entry as JSON"`
}

// SuggestCmd is the "suggest" subcommand.
type SuggestCmd struct {
	Query string `arg:"" help:"Query to complete"`
	Zim   string `short:"z" help:"Search a single archive instead of all"`
	Max   int    `short:"n" default:"10" help:"Maximum number of suggestions"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	XML bool `help:"Emit a library catalog XML document"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
