// Package mcp exposes the search service as MCP tools, so LLM agents
// can query offline archives through the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/zimsearch"
)

// Default result budgets, matching the CLI defaults.
const (
	defaultMaxResults     = 10
	defaultMaxSuggestions = 10
)

// Register registers the zimsearch tools on an MCP server.
func Register(srv *mcp.Server, svc zimsearch.SearchService) {
	registerSearchTool(srv, svc)
	registerEntryTool(srv, svc)
	registerSuggestionsTool(srv, svc)
	registerListTool(srv, svc)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// textResult serializes a payload as a single JSON text content block.
// Failures to marshal surface as tool errors.
func textResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(err)
		return &res, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// --- zim_search ---

type searchReq struct {
	Query      string `json:"query"`
	ZimFile    string `json:"zim_file,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type searchResp struct {
	Error   string                 `json:"error,omitempty"`
	Query   string                 `json:"query"`
	Found   int                    `json:"found"`
	Results []*zimsearch.SearchHit `json:"results"`
}

func registerSearchTool(srv *mcp.Server, svc zimsearch.SearchService) {
	tool := &mcp.Tool{
		Name:        "zim_search",
		Description: "Search for content across offline ZIM archives. Returns ranked hits with content previews.",
		InputSchema: inputSchema(map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search query"},
			"zim_file":    map[string]any{"type": "string", "description": "Optional archive to search; all archives when omitted"},
			"max_results": map[string]any{"type": "integer", "description": "Maximum number of results (default 10)"},
		}, []string{"query"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r searchReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		if r.MaxResults <= 0 {
			r.MaxResults = defaultMaxResults
		}

		hits, err := svc.Search(ctx, r.Query, r.ZimFile, r.MaxResults)
		if err != nil {
			// Structured error with an explicit empty result list; the
			// error never surfaces as a bare exception to the caller.
			return textResult(searchResp{Error: zimsearch.ErrorMessage(err), Query: r.Query, Results: []*zimsearch.SearchHit{}})
		}
		return textResult(searchResp{Query: r.Query, Found: len(hits), Results: hits})
	})
}

// --- zim_get_entry ---

type entryReq struct {
	Title   string `json:"title"`
	ZimFile string `json:"zim_file,omitempty"`
}

type entryResp struct {
	Error string `json:"error,omitempty"`
	*zimsearch.EntryContent
}

func registerEntryTool(srv *mcp.Server, svc zimsearch.SearchService) {
	tool := &mcp.Tool{
		Name:        "zim_get_entry",
		Description: "Retrieve a specific entry from ZIM archives by title or path. Redirects resolve to the target's content.",
		InputSchema: inputSchema(map[string]any{
			"title":    map[string]any{"type": "string", "description": "Entry title or path"},
			"zim_file": map[string]any{"type": "string", "description": "Optional archive to search; all archives when omitted"},
		}, []string{"title"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r entryReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		content, err := svc.Entry(ctx, r.Title, r.ZimFile)
		if err != nil {
			return textResult(entryResp{Error: zimsearch.ErrorMessage(err)})
		}
		return textResult(entryResp{EntryContent: content})
	})
}

// --- zim_suggestions ---

type suggestReq struct {
	Query          string `json:"query"`
	ZimFile        string `json:"zim_file,omitempty"`
	MaxSuggestions int    `json:"max_suggestions,omitempty"`
}

type suggestResp struct {
	Error       string                      `json:"error,omitempty"`
	Query       string                      `json:"query"`
	Found       int                         `json:"found"`
	Suggestions []*zimsearch.SuggestionItem `json:"suggestions"`
}

func registerSuggestionsTool(srv *mcp.Server, svc zimsearch.SearchService) {
	tool := &mcp.Tool{
		Name:        "zim_suggestions",
		Description: "Get title suggestions for a query across ZIM archives.",
		InputSchema: inputSchema(map[string]any{
			"query":           map[string]any{"type": "string", "description": "Query to complete"},
			"zim_file":        map[string]any{"type": "string", "description": "Optional archive to search; all archives when omitted"},
			"max_suggestions": map[string]any{"type": "integer", "description": "Maximum number of suggestions (default 10)"},
		}, []string{"query"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r suggestReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		if r.MaxSuggestions <= 0 {
			r.MaxSuggestions = defaultMaxSuggestions
		}

		items, err := svc.Suggest(ctx, r.Query, r.ZimFile, r.MaxSuggestions)
		if err != nil {
			return textResult(suggestResp{Error: zimsearch.ErrorMessage(err), Query: r.Query, Suggestions: []*zimsearch.SuggestionItem{}})
		}
		return textResult(suggestResp{Query: r.Query, Found: len(items), Suggestions: items})
	})
}

// --- zim_list_archives ---

type listResp struct {
	Error string                   `json:"error,omitempty"`
	Found int                      `json:"found"`
	Files []*zimsearch.ArchiveInfo `json:"files"`
}

func registerListTool(srv *mcp.Server, svc zimsearch.SearchService) {
	tool := &mcp.Tool{
		Name:        "zim_list_archives",
		Description: "List all available ZIM archives with their metadata and entry counts.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos, err := svc.Archives(ctx)
		if err != nil {
			return textResult(listResp{Error: zimsearch.ErrorMessage(err), Files: []*zimsearch.ArchiveInfo{}})
		}
		return textResult(listResp{Found: len(infos), Files: infos})
	})
}
