package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/zimsearch"
	"github.com/fwojciec/zimsearch/bloom"
	"github.com/fwojciec/zimsearch/goquery"
	"github.com/fwojciec/zimsearch/htmltomarkdown"
	"github.com/fwojciec/zimsearch/readability"
	"github.com/fwojciec/zimsearch/sqlite"
	"github.com/fwojciec/zimsearch/trafilatura"
)

// expectedEntries sizes the dedup filter. Packs larger than this still
// work, just with a higher false positive rate.
const expectedEntries = 100000

var articleMIME = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".md":   "text/markdown",
	".txt":  "text/plain",
}

var mediaMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// packEntry is one processed source file, ready to be written.
type packEntry struct {
	kind      string // "article" or "media"
	path      string
	title     string
	mime      string
	content   []byte
	indexText string

	// meta description of the page, used as an archive description
	// fallback.
	description string
}

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	if c.Concurrency < 1 {
		return zimsearch.Errorf(zimsearch.EINVALID, "concurrency must be positive")
	}

	files, err := collectFiles(c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return err
	}
	if len(files) == 0 {
		return zimsearch.Errorf(zimsearch.EINVALID, "no packable files found in %q", c.Dir)
	}

	entries, err := c.processFiles(deps, files)
	if err != nil {
		return err
	}

	meta := sqlite.Metadata{
		Title:       c.Title,
		Description: c.Description,
		Creator:     c.Creator,
		Publisher:   c.Publisher,
		Date:        c.Date,
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSuffix(filepath.Base(c.Output), filepath.Ext(c.Output))
	}
	if meta.Description == "" {
		for _, e := range entries {
			if e.description != "" {
				meta.Description = e.description
				break
			}
		}
	}

	builder, err := sqlite.CreateArchive(c.Output, meta, !c.NoIndex)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return err
	}
	defer builder.Close()

	written, skipped, err := writeEntries(builder, entries, deps)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Packed %d entries into %s", written, c.Output)
	if skipped > 0 {
		fmt.Fprintf(deps.Stdout, " (%d duplicates skipped)", skipped)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}

// collectFiles walks dir and returns relative paths of packable files in
// deterministic order.
func collectFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, zimsearch.Errorf(zimsearch.EUNAVAILABLE, "source directory not found: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := articleMIME[ext]; !ok {
			if _, ok := mediaMIME[ext]; !ok {
				return nil
			}
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "walking %q: %v", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// processFiles reads and converts source files concurrently. Results
// keep the input order so pack builds are reproducible.
func (c *BuildCmd) processFiles(deps *Dependencies, files []string) ([]*packEntry, error) {
	converter := htmltomarkdown.NewConverter()
	var extractor zimsearch.Extractor
	switch c.Extract {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	case "readability":
		extractor = readability.NewExtractor()
	}

	entries := make([]*packEntry, len(files))

	g, _ := errgroup.WithContext(deps.Ctx)
	g.SetLimit(c.Concurrency)
	for i, rel := range files {
		g.Go(func() error {
			entry, err := c.processFile(rel, converter, extractor)
			if err != nil {
				return fmt.Errorf("processing %s: %w", rel, err)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
		return nil, err
	}
	return entries, nil
}

func (c *BuildCmd) processFile(rel string, converter zimsearch.Converter, extractor zimsearch.Extractor) (*packEntry, error) {
	raw, err := os.ReadFile(filepath.Join(c.Dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(rel))
	if mime, ok := mediaMIME[ext]; ok {
		return &packEntry{
			kind:    "media",
			path:    "I/" + rel,
			title:   baseTitle(rel),
			mime:    mime,
			content: raw,
		}, nil
	}

	entry := &packEntry{
		kind:    "article",
		path:    "A/" + strings.TrimSuffix(rel, ext),
		title:   baseTitle(rel),
		mime:    articleMIME[ext],
		content: raw,
	}

	switch ext {
	case ".html", ".htm":
		html := string(raw)

		meta, err := goquery.ExtractMeta(html)
		if err != nil {
			return nil, err
		}
		if meta.Title != "" {
			entry.title = meta.Title
		}
		entry.description = meta.Description

		if extractor != nil {
			result, err := extractor.Extract(html)
			if err != nil {
				return nil, err
			}
			if result.ContentHTML != "" {
				entry.content = []byte(result.ContentHTML)
				html = result.ContentHTML
			}
			if result.Title != "" {
				entry.title = result.Title
			}
		}

		text, err := converter.Convert(html)
		if err != nil {
			return nil, err
		}
		entry.indexText = text

	case ".md":
		if title := firstHeading(string(raw)); title != "" {
			entry.title = title
		}
		entry.indexText = string(raw)

	default:
		entry.indexText = string(raw)
	}

	return entry, nil
}

// writeEntries writes processed entries into the pack, skipping
// duplicate paths. A Bloom filter miss means the path is new; only
// filter hits pay for an exact lookup against the pack.
func writeEntries(builder *sqlite.Builder, entries []*packEntry, deps *Dependencies) (written, skipped int, err error) {
	filter := bloom.NewFilter(expectedEntries, 0.01)

	for _, e := range entries {
		if filter.Test(e.path) {
			dup, err := builder.HasPath(e.path)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
				return written, skipped, err
			}
			if dup {
				skipped++
				continue
			}
		}

		switch e.kind {
		case "media":
			err = builder.AddMedia(e.path, e.title, e.mime, e.content)
		default:
			err = builder.AddArticle(e.path, e.title, e.mime, e.content, e.indexText)
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", zimsearch.ErrorMessage(err))
			return written, skipped, err
		}

		filter.Add(e.path)
		written++
	}
	return written, skipped, nil
}

func baseTitle(rel string) string {
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// firstHeading returns the text of the first markdown heading, if any.
func firstHeading(md string) string {
	for line := range strings.Lines(md) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
