package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/zimsearch"
	"github.com/fwojciec/zimsearch/catalog"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("round trips archive metadata", func(t *testing.T) {
		t.Parallel()
		infos := []*zimsearch.ArchiveInfo{
			{
				Name:         "wiki.zim",
				Path:         "/data/wiki.zim",
				Title:        "Test Wiki",
				Description:  "A small test wiki",
				Creator:      "Wiki Project",
				Publisher:    "Test Publisher",
				Date:         "2024-01-15",
				UUID:         "d5f2a5c0-0000-0000-0000-000000000001",
				ArticleCount: 3,
				MediaCount:   1,
			},
			{
				Name:  "docs.zim",
				Path:  "/data/docs.zim",
				Title: "Docs",
				UUID:  "d5f2a5c0-0000-0000-0000-000000000002",
			},
		}

		var buf bytes.Buffer
		require.NoError(t, catalog.Write(&buf, infos))

		got, err := catalog.Read(&buf)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "wiki.zim", got[0].Name)
		assert.Equal(t, "Test Wiki", got[0].Title)
		assert.Equal(t, "A small test wiki", got[0].Description)
		assert.Equal(t, "Wiki Project", got[0].Creator)
		assert.Equal(t, "2024-01-15", got[0].Date)
		assert.Equal(t, 3, got[0].ArticleCount)
		assert.Equal(t, 1, got[0].MediaCount)
		assert.Equal(t, "docs.zim", got[1].Name)
	})

	t.Run("skips unreadable archives", func(t *testing.T) {
		t.Parallel()
		infos := []*zimsearch.ArchiveInfo{
			{Name: "good.zim", Path: "/data/good.zim", Title: "Good"},
			{Name: "bad.zim", Path: "/data/bad.zim", Err: "not a readable archive pack"},
		}

		var buf bytes.Buffer
		require.NoError(t, catalog.Write(&buf, infos))

		got, err := catalog.Read(&buf)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Good", got[0].Title)
	})

	t.Run("writes a versioned library element", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, catalog.Write(&buf, nil))
		assert.Contains(t, buf.String(), `<library version="20110515"`)
	})
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-catalog documents", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.Read(strings.NewReader(`<urlset><url/></urlset>`))
		require.Error(t, err)
		assert.Equal(t, zimsearch.EINVALID, zimsearch.ErrorCode(err))
	})

	t.Run("rejects malformed XML", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.Read(strings.NewReader(`<library><book`))
		require.Error(t, err)
		assert.Equal(t, zimsearch.EINVALID, zimsearch.ErrorCode(err))
	})

	t.Run("tolerates missing counts", func(t *testing.T) {
		t.Parallel()
		doc := `<library version="20110515"><book id="x" path="/data/a.zim" title="A"/></library>`
		got, err := catalog.Read(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].ArticleCount)
		assert.Equal(t, "a.zim", got[0].Name)
	})
}
