package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/zimsearch"
	zimsearchmcp "github.com/fwojciec/zimsearch/mcp"
	"github.com/fwojciec/zimsearch/mock"
)

var testImpl = &mcp.Implementation{Name: "zimsearch-test", Version: "0.1.0"}

func session(t *testing.T, svc zimsearch.SearchService) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testImpl, nil)
	zimsearchmcp.Register(srv, svc)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	sess, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

func callTool(t *testing.T, sess *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := sess.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NoError(t, result.GetError())
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text
}

func TestSearchTool(t *testing.T) {
	t.Parallel()

	t.Run("returns hits with source attribution", func(t *testing.T) {
		t.Parallel()
		svc := &mock.SearchService{
			SearchFn: func(ctx context.Context, query, archive string, maxResults int) ([]*zimsearch.SearchHit, error) {
				assert.Equal(t, "systemd", query)
				assert.Equal(t, "", archive)
				assert.Equal(t, 10, maxResults)
				return []*zimsearch.SearchHit{
					{Title: "Systemd", Path: "A/Systemd", URL: "/A/Systemd", Score: 2.5, SourceArchive: "wiki.zim"},
				}, nil
			},
		}

		text := callTool(t, session(t, svc), "zim_search", map[string]any{"query": "systemd"})

		var resp struct {
			Error   string                 `json:"error"`
			Found   int                    `json:"found"`
			Results []*zimsearch.SearchHit `json:"results"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		assert.Empty(t, resp.Error)
		assert.Equal(t, 1, resp.Found)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "wiki.zim", resp.Results[0].SourceArchive)
	})

	t.Run("passes archive and max_results through", func(t *testing.T) {
		t.Parallel()
		svc := &mock.SearchService{
			SearchFn: func(ctx context.Context, query, archive string, maxResults int) ([]*zimsearch.SearchHit, error) {
				assert.Equal(t, "wiki.zim", archive)
				assert.Equal(t, 3, maxResults)
				return []*zimsearch.SearchHit{}, nil
			},
		}

		callTool(t, session(t, svc), "zim_search", map[string]any{
			"query":       "linux",
			"zim_file":    "wiki.zim",
			"max_results": 3,
		})
	})

	t.Run("service error becomes structured payload", func(t *testing.T) {
		t.Parallel()
		svc := &mock.SearchService{
			SearchFn: func(ctx context.Context, query, archive string, maxResults int) ([]*zimsearch.SearchHit, error) {
				return nil, zimsearch.Errorf(zimsearch.EUNAVAILABLE, "data directory not found: /data")
			},
		}

		text := callTool(t, session(t, svc), "zim_search", map[string]any{"query": "linux"})

		var resp struct {
			Error   string                 `json:"error"`
			Results []*zimsearch.SearchHit `json:"results"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		assert.Equal(t, "data directory not found: /data", resp.Error)
		assert.NotNil(t, resp.Results)
		assert.Empty(t, resp.Results)
	})
}

func TestEntryTool(t *testing.T) {
	t.Parallel()

	t.Run("returns entry content", func(t *testing.T) {
		t.Parallel()
		svc := &mock.SearchService{
			EntryFn: func(ctx context.Context, title, archive string) (*zimsearch.EntryContent, error) {
				assert.Equal(t, "Systemd", title)
				return &zimsearch.EntryContent{
					Title:         "Systemd",
					Path:          "A/Systemd",
					Content:       "Systemd is an init system.",
					SourceArchive: "wiki.zim",
				}, nil
			},
		}

		text := callTool(t, session(t, svc), "zim_get_entry", map[string]any{"title": "Systemd"})

		var resp zimsearch.EntryContent
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		assert.Equal(t, "Systemd", resp.Title)
		assert.Equal(t, "wiki.zim", resp.SourceArchive)
		assert.Contains(t, resp.Content, "init system")
	})

	t.Run("missing entry reports error field", func(t *testing.T) {
		t.Parallel()
		svc := &mock.SearchService{
			EntryFn: func(ctx context.Context, title, archive string) (*zimsearch.EntryContent, error) {
				return nil, zimsearch.Errorf(zimsearch.ENOTFOUND, "entry %q not found in any archive", title)
			},
		}

		text := callTool(t, session(t, svc), "zim_get_entry", map[string]any{"title": "Missing"})

		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		assert.Equal(t, `entry "Missing" not found in any archive`, resp.Error)
	})
}

func TestSuggestionsTool(t *testing.T) {
	t.Parallel()

	svc := &mock.SearchService{
		SuggestFn: func(ctx context.Context, query, archive string, maxSuggestions int) ([]*zimsearch.SuggestionItem, error) {
			assert.Equal(t, "sys", query)
			assert.Equal(t, 10, maxSuggestions)
			return []*zimsearch.SuggestionItem{
				{Title: "Systemd", Path: "A/Systemd", URL: "/A/Systemd", SourceArchive: "wiki.zim"},
			}, nil
		},
	}

	text := callTool(t, session(t, svc), "zim_suggestions", map[string]any{"query": "sys"})

	var resp struct {
		Found       int                         `json:"found"`
		Suggestions []*zimsearch.SuggestionItem `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, 1, resp.Found)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Systemd", resp.Suggestions[0].Title)
}

func TestListArchivesTool(t *testing.T) {
	t.Parallel()

	svc := &mock.SearchService{
		ArchivesFn: func(ctx context.Context) ([]*zimsearch.ArchiveInfo, error) {
			return []*zimsearch.ArchiveInfo{
				{Name: "wiki.zim", Title: "Test Wiki", EntryCount: 5, ArticleCount: 3, MediaCount: 1, HasIndex: true},
			}, nil
		},
	}

	text := callTool(t, session(t, svc), "zim_list_archives", map[string]any{})

	var resp struct {
		Found int                      `json:"found"`
		Files []*zimsearch.ArchiveInfo `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, 1, resp.Found)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "Test Wiki", resp.Files[0].Title)
	assert.True(t, resp.Files[0].HasIndex)
}
