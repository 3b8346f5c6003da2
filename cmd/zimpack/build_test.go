package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	main "github.com/fwojciec/zimsearch/cmd/zimpack"
	"github.com/fwojciec/zimsearch/sqlite"
)

func testContext() context.Context {
	return context.Background()
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("packs a directory of mixed pages", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeFile(t, src, "systemd.html", `<html><head>
			<title>Systemd</title>
			<meta name="description" content="Pages about init systems.">
		</head><body><p>Systemd is an init system and service manager.</p></body></html>`)
		writeFile(t, src, "notes/kernel.md", "# Kernel\n\nThe kernel manages hardware.")
		writeFile(t, src, "logo.png", "\x89PNG fake image bytes")
		writeFile(t, src, "README.nfo", "not packable")

		out := filepath.Join(t.TempDir(), "wiki.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out, "--title", "Test Wiki"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Packed 3 entries")
		assert.Empty(t, stderr.String())

		a, err := sqlite.OpenArchive(out)
		require.NoError(t, err)
		defer a.Close()

		info, err := a.Info(testContext())
		require.NoError(t, err)
		assert.Equal(t, "Test Wiki", info.Title)
		assert.Equal(t, "Pages about init systems.", info.Description)
		assert.Equal(t, 3, info.EntryCount)
		assert.Equal(t, 2, info.ArticleCount)
		assert.Equal(t, 1, info.MediaCount)
		assert.True(t, info.HasIndex)

		// Titles come from page metadata, paths from file layout.
		entry, err := a.EntryByPath(testContext(), "A/systemd")
		require.NoError(t, err)
		assert.Equal(t, "Systemd", entry.Title)

		entry, err = a.EntryByTitle(testContext(), "Kernel")
		require.NoError(t, err)
		assert.Equal(t, "A/notes/kernel", entry.Path)

		// Packed articles are searchable through the index.
		hits, err := a.SearchIndex(testContext(), "init system", 0, 10)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, "A/systemd", hits[0].Path)
	})

	t.Run("builds index-less packs with --no-index", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeFile(t, src, "page.md", "# Page\n\nBody text.")

		out := filepath.Join(t.TempDir(), "plain.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out, "--no-index"}, stdout, stderr)

		require.NoError(t, err)

		a, err := sqlite.OpenArchive(out)
		require.NoError(t, err)
		defer a.Close()
		assert.False(t, a.HasIndex())
	})

	t.Run("skips duplicate entry paths", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		// Both files map to the entry path A/page.
		writeFile(t, src, "page.html", `<html><head><title>From HTML</title></head><body><p>html body</p></body></html>`)
		writeFile(t, src, "page.md", "# From Markdown\n\nmd body")

		out := filepath.Join(t.TempDir(), "dup.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Packed 1 entries")
		assert.Contains(t, stdout.String(), "1 duplicates skipped")
	})

	t.Run("strips boilerplate with --extract", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeFile(t, src, "article.html", `<html><head><title>Article</title></head><body>
			<nav class="main-nav"><a href="/">Home</a><a href="/about">About</a></nav>
			<article><h1>Article</h1><p>The substantive article body that should survive extraction.</p></article>
			<footer>Copyright 2024 Example Corp</footer>
		</body></html>`)

		out := filepath.Join(t.TempDir(), "clean.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out, "--extract", "trafilatura"}, stdout, stderr)

		require.NoError(t, err)

		a, err := sqlite.OpenArchive(out)
		require.NoError(t, err)
		defer a.Close()

		entry, err := a.EntryByPath(testContext(), "A/article")
		require.NoError(t, err)
		assert.Contains(t, string(entry.Content), "substantive article body")
		assert.NotContains(t, string(entry.Content), "Copyright 2024 Example Corp")
	})

	t.Run("supports the readability extraction engine", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeFile(t, src, "article.html", `<html><head><title>Article</title></head><body>
			<nav><a href="/">Home Nav Link</a></nav>
			<article><h1>Article</h1><p>The substantive article body that should survive extraction.</p></article>
		</body></html>`)

		out := filepath.Join(t.TempDir(), "readable.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out, "--extract", "readability"}, stdout, stderr)

		require.NoError(t, err)

		a, err := sqlite.OpenArchive(out)
		require.NoError(t, err)
		defer a.Close()

		entry, err := a.EntryByPath(testContext(), "A/article")
		require.NoError(t, err)
		assert.Contains(t, string(entry.Content), "substantive article body")
		assert.NotContains(t, string(entry.Content), "Home Nav Link")
	})

	t.Run("defaults title to the output filename", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeFile(t, src, "page.txt", "plain text body")

		out := filepath.Join(t.TempDir(), "mypack.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out}, stdout, stderr)

		require.NoError(t, err)

		a, err := sqlite.OpenArchive(out)
		require.NoError(t, err)
		defer a.Close()

		info, err := a.Info(testContext())
		require.NoError(t, err)
		assert.Equal(t, "mypack", info.Title)
	})

	t.Run("errors on missing source directory", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "never.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", "/does/not/exist", out}, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "source directory not found")
	})

	t.Run("errors on directory with no packable files", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeFile(t, src, "data.bin", "binary junk")

		out := filepath.Join(t.TempDir(), "never.zim")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(testContext(), []string{"build", src, out}, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no packable files")
	})
}
