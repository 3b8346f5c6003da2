package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/fwojciec/zimsearch"
	"github.com/fwojciec/zimsearch/mock"
	zimslog "github.com/fwojciec/zimsearch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSearchService_Search(t *testing.T) {
	t.Parallel()

	t.Run("logs query and hit count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

		next := &mock.SearchService{
			SearchFn: func(_ context.Context, _, _ string, _ int) ([]*zimsearch.SearchHit, error) {
				return []*zimsearch.SearchHit{{Title: "Systemd", SourceArchive: "wiki.zim"}}, nil
			},
		}

		svc := zimslog.NewLoggingSearchService(next, logger)
		hits, err := svc.Search(context.Background(), "systemd", "", 5)

		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Contains(t, buf.String(), "msg=search")
		assert.Contains(t, buf.String(), "query=systemd")
		assert.Contains(t, buf.String(), "hits=1")
		assert.Contains(t, buf.String(), "archive=(all)")
	})

	t.Run("logs errors from the wrapped service", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

		next := &mock.SearchService{
			SearchFn: func(_ context.Context, _, _ string, _ int) ([]*zimsearch.SearchHit, error) {
				return nil, zimsearch.Errorf(zimsearch.ENOTFOUND, "archive not found: x.zim")
			},
		}

		svc := zimslog.NewLoggingSearchService(next, logger)
		_, err := svc.Search(context.Background(), "systemd", "x.zim", 5)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "not_found")
	})
}

func TestLoggingSearchService_Entry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

	next := &mock.SearchService{
		EntryFn: func(_ context.Context, _, _ string) (*zimsearch.EntryContent, error) {
			return &zimsearch.EntryContent{Title: "Systemd", SourceArchive: "wiki.zim"}, nil
		},
	}

	svc := zimslog.NewLoggingSearchService(next, logger)
	content, err := svc.Entry(context.Background(), "Systemd", "")

	require.NoError(t, err)
	assert.Equal(t, "wiki.zim", content.SourceArchive)
	assert.Contains(t, buf.String(), "msg=entry")
	assert.Contains(t, buf.String(), "source=wiki.zim")
}
