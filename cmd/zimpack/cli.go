package main

import (
	"context"
	"io"
)

// Dependencies holds configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Build BuildCmd `cmd:"" help:"Build an archive pack from a directory of pages"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Dir    string `arg:"" help:"Directory of HTML, Markdown and media files"`
	Output string `arg:"" help:"Output pack path"`

	Title       string `help:"Archive title"`
	Description string `help:"Archive description"`
	Creator     string `help:"Archive creator"`
	Publisher   string `help:"Archive publisher"`
	Date        string `help:"Archive date (YYYY-MM-DD)"`

	NoIndex     bool   `help:"Skip building the full-text index"`
	Extract     string `enum:"none,trafilatura,readability" default:"none" help:"Boilerplate removal engine for HTML pages (none, trafilatura, readability)"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent page processing limit"`
}
