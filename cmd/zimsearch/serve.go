package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	zimsearchmcp "github.com/fwojciec/zimsearch/mcp"
)

const serverVersion = "1.0.0"

// Run executes the serve command. It blocks until the client disconnects
// or the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "zimsearch", Version: serverVersion}, nil)
	zimsearchmcp.Register(srv, deps.Searcher)

	return srv.Run(deps.Ctx, &mcp.StdioTransport{})
}
