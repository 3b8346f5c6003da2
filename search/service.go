// Package search implements the multi-archive search aggregator: it
// fans a query out across archive files, merges and caps results,
// filters out non-English content and falls back from full-text to a
// bounded title scan when an archive has no index.
package search

import (
	"context"
	"strings"

	"github.com/fwojciec/zimsearch"
)

// DefaultSampleBudget caps how many entries the index-less fallback
// draws from an archive. The fallback is intentionally approximate; a
// full scan would change its latency characteristics.
const DefaultSampleBudget = 1000

// previewLimit is the maximum content preview length in characters.
const previewLimit = 500

// Ensure Service implements zimsearch.SearchService at compile time.
var _ zimsearch.SearchService = (*Service)(nil)

// Service aggregates search, suggestions and entry lookup across the
// archives of one data directory. Archives are opened per call and
// searched sequentially; the only state shared between archives is the
// accumulating result list, so concurrent callers are safe.
type Service struct {
	locator   zimsearch.Locator
	opener    zimsearch.Opener
	converter zimsearch.Converter
	languages *zimsearch.LanguageFilter

	// SampleBudget bounds the index-less fallback scan. It must stay a
	// bounded sample; setting it very high degrades fallback latency.
	SampleBudget int
}

// NewService creates a Service with the default language filter and
// sample budget.
func NewService(locator zimsearch.Locator, opener zimsearch.Opener, converter zimsearch.Converter) *Service {
	return &Service{
		locator:      locator,
		opener:       opener,
		converter:    converter,
		languages:    zimsearch.NewLanguageFilter(),
		SampleBudget: DefaultSampleBudget,
	}
}

// archiveResult is the outcome of searching one archive. Failed archives
// carry err and contribute nothing; the aggregator discards them instead
// of aborting, which keeps one archive's failure invisible to the
// aggregate query.
type archiveResult struct {
	ref  zimsearch.ArchiveRef
	hits []*zimsearch.SearchHit
	err  error
}

// Search returns at most maxResults hits for the query. When archive is
// empty every archive in the data directory is searched with a fair
// share of the budget (maxResults / archiveCount, integer division) and
// the concatenation, in archive enumeration order, is truncated to
// maxResults. No re-ranking happens across archives: ordering is
// archive order, then within-archive rank.
func (s *Service) Search(ctx context.Context, query, archive string, maxResults int) ([]*zimsearch.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "search query required")
	}
	if maxResults <= 0 {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "max results must be positive")
	}

	if archive != "" {
		ref, err := s.locator.Resolve(archive)
		if err != nil {
			return nil, err
		}
		res := s.searchArchive(ctx, ref, query, maxResults)
		if res.err != nil {
			return nil, res.err
		}
		return capHits(res.hits, maxResults), nil
	}

	refs, err := s.locator.ListAll()
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []*zimsearch.SearchHit{}, nil
	}

	// Fair share per archive; a large archive count can make this zero.
	budget := maxResults / len(refs)

	hits := []*zimsearch.SearchHit{}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if budget == 0 {
			break
		}
		res := s.searchArchive(ctx, ref, query, budget)
		if res.err != nil {
			// One archive's failure must not abort the aggregate.
			continue
		}
		hits = append(hits, res.hits...)
	}

	return capHits(hits, maxResults), nil
}

// searchArchive runs the query against a single archive with its own
// open/close scope. The handle is released on every exit path.
func (s *Service) searchArchive(ctx context.Context, ref zimsearch.ArchiveRef, query string, maxResults int) archiveResult {
	a, err := s.opener.Open(ref.Path)
	if err != nil {
		return archiveResult{ref: ref, err: err}
	}
	defer a.Close()

	if a.HasIndex() {
		hits, err := s.searchIndexed(ctx, a, ref, query, maxResults)
		if err == nil {
			return archiveResult{ref: ref, hits: hits}
		}
		// Any index failure falls through to the title scan.
	}

	hits, err := s.searchTitleSample(ctx, a, ref, query, maxResults)
	if err != nil {
		return archiveResult{ref: ref, err: err}
	}
	return archiveResult{ref: ref, hits: hits}
}

// searchIndexed takes up to min(maxResults, estimated) ranked hits from
// the archive's full-text index in the index's native order.
func (s *Service) searchIndexed(ctx context.Context, a zimsearch.Archive, ref zimsearch.ArchiveRef, query string, maxResults int) ([]*zimsearch.SearchHit, error) {
	estimated, err := a.EstimatedMatches(ctx, query)
	if err != nil {
		return nil, err
	}
	if estimated == 0 {
		return []*zimsearch.SearchHit{}, nil
	}

	count := min(maxResults, estimated)
	indexHits, err := a.SearchIndex(ctx, query, 0, count)
	if err != nil {
		return nil, err
	}

	hits := []*zimsearch.SearchHit{}
	for _, ih := range indexHits {
		entry, err := a.EntryByPath(ctx, ih.Path)
		if err != nil {
			// Skip entries that can't be resolved.
			continue
		}

		preview, err := s.preview(entry)
		if err != nil {
			// Undecodable content skips the entry, not the search.
			continue
		}
		if !s.languages.IsEnglish(entry.Title, preview) {
			continue
		}

		hits = append(hits, &zimsearch.SearchHit{
			Title:          entry.Title,
			Path:           ih.Path,
			URL:            ih.URL,
			Score:          ih.Score,
			Snippet:        ih.Snippet,
			ContentPreview: preview,
			SourceArchive:  ref.Name,
		})
	}
	return hits, nil
}

// searchTitleSample is the fallback for archives without a usable
// full-text index: draw up to SampleBudget entries pseudo-randomly and
// keep the ones whose title contains the query as a case-insensitive
// substring. Fallback hits get a fixed neutral score of 1.0.
func (s *Service) searchTitleSample(ctx context.Context, a zimsearch.Archive, ref zimsearch.ArchiveRef, query string, maxResults int) ([]*zimsearch.SearchHit, error) {
	budget := s.SampleBudget
	if budget <= 0 {
		budget = DefaultSampleBudget
	}

	sample, err := a.RandomEntries(ctx, budget)
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)

	hits := []*zimsearch.SearchHit{}
	for _, shallow := range sample {
		if len(hits) >= maxResults {
			break
		}
		if !strings.Contains(strings.ToLower(shallow.Title), queryLower) {
			continue
		}

		entry, err := a.EntryByPath(ctx, shallow.Path)
		if err != nil {
			continue
		}
		preview, err := s.preview(entry)
		if err != nil {
			continue
		}
		if !s.languages.IsEnglish(entry.Title, preview) {
			continue
		}

		hits = append(hits, &zimsearch.SearchHit{
			Title:          entry.Title,
			Path:           entry.Path,
			URL:            "/" + strings.TrimPrefix(entry.Path, "/"),
			Score:          1.0,
			Snippet:        truncate(preview, 200),
			ContentPreview: preview,
			SourceArchive:  ref.Name,
		})
	}
	return hits, nil
}

// preview renders an entry's content preview. Redirects get a synthetic
// preview naming the target; the target's content is never fetched
// during search.
func (s *Service) preview(entry *zimsearch.Entry) (string, error) {
	if entry.IsRedirect {
		return "Redirect to: " + entry.RedirectTitle, nil
	}
	text, err := s.render(entry)
	if err != nil {
		return "", err
	}
	return truncate(text, previewLimit), nil
}

// render converts an entry's raw content to readable text. HTML goes
// through the converter, which strips script/style markup; everything
// else is used as-is.
func (s *Service) render(entry *zimsearch.Entry) (string, error) {
	content := string(entry.Content)
	if !isHTML(entry.MIME) {
		return content, nil
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return s.converter.Convert(content)
}

// Suggest returns at most maxSuggestions title suggestions, aggregated
// under the same fair-share rule as Search.
func (s *Service) Suggest(ctx context.Context, query, archive string, maxSuggestions int) ([]*zimsearch.SuggestionItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "suggestion query required")
	}
	if maxSuggestions <= 0 {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "max suggestions must be positive")
	}

	if archive != "" {
		ref, err := s.locator.Resolve(archive)
		if err != nil {
			return nil, err
		}
		items, err := s.suggestArchive(ctx, ref, query, maxSuggestions)
		if err != nil {
			return nil, err
		}
		return capSuggestions(items, maxSuggestions), nil
	}

	refs, err := s.locator.ListAll()
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []*zimsearch.SuggestionItem{}, nil
	}

	budget := maxSuggestions / len(refs)

	items := []*zimsearch.SuggestionItem{}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if budget == 0 {
			break
		}
		archiveItems, err := s.suggestArchive(ctx, ref, query, budget)
		if err != nil {
			continue
		}
		items = append(items, archiveItems...)
	}

	return capSuggestions(items, maxSuggestions), nil
}

func (s *Service) suggestArchive(ctx context.Context, ref zimsearch.ArchiveRef, query string, maxSuggestions int) ([]*zimsearch.SuggestionItem, error) {
	a, err := s.opener.Open(ref.Path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	estimated, err := a.EstimatedSuggestions(ctx, query)
	if err != nil {
		return nil, err
	}
	if estimated == 0 {
		return []*zimsearch.SuggestionItem{}, nil
	}

	matches, err := a.Suggest(ctx, query, 0, min(maxSuggestions, estimated))
	if err != nil {
		return nil, err
	}

	items := []*zimsearch.SuggestionItem{}
	for _, m := range matches {
		items = append(items, &zimsearch.SuggestionItem{
			Title:         m.Title,
			Path:          m.Path,
			URL:           m.URL,
			SourceArchive: ref.Name,
		})
	}
	return items, nil
}

// Entry resolves an entry by exact title first, then by path. In
// all-archive mode archives are tried in enumeration order and the first
// archive producing a readable entry wins; a later archive with a more
// complete version of the same title is never consulted.
func (s *Service) Entry(ctx context.Context, titleOrPath, archive string) (*zimsearch.EntryContent, error) {
	if titleOrPath == "" {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "entry title or path required")
	}

	if archive != "" {
		ref, err := s.locator.Resolve(archive)
		if err != nil {
			return nil, err
		}
		return s.entryFromArchive(ctx, ref, titleOrPath)
	}

	refs, err := s.locator.ListAll()
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := s.entryFromArchive(ctx, ref, titleOrPath)
		if err != nil {
			// First match wins; failures just move on to the next
			// archive in enumeration order.
			continue
		}
		return content, nil
	}

	return nil, zimsearch.Errorf(zimsearch.ENOTFOUND, "entry %q not found in any archive", titleOrPath)
}

// entryFromArchive fetches and renders one entry from one archive,
// resolving redirects exactly one hop.
func (s *Service) entryFromArchive(ctx context.Context, ref zimsearch.ArchiveRef, titleOrPath string) (*zimsearch.EntryContent, error) {
	a, err := s.opener.Open(ref.Path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	entry, err := a.EntryByTitle(ctx, titleOrPath)
	if err != nil {
		// Not found by title: retry by path.
		entry, err = a.EntryByPath(ctx, titleOrPath)
		if err != nil {
			return nil, err
		}
	}

	var content string
	if entry.IsRedirect {
		target, err := a.EntryByPath(ctx, entry.RedirectPath)
		if err != nil {
			return nil, err
		}
		rendered, err := s.render(target)
		if err != nil {
			return nil, err
		}
		content = "This page redirects to: " + target.Title + "\n\nContent:\n" + rendered
	} else {
		content, err = s.render(entry)
		if err != nil {
			return nil, err
		}
	}

	return &zimsearch.EntryContent{
		Title:         entry.Title,
		Path:          entry.Path,
		Content:       content,
		SourceArchive: ref.Name,
	}, nil
}

// Archives lists every archive in the data directory with its metadata.
// Unreadable archives stay in the listing with Err set.
func (s *Service) Archives(ctx context.Context) ([]*zimsearch.ArchiveInfo, error) {
	refs, err := s.locator.ListAll()
	if err != nil {
		return nil, err
	}

	infos := []*zimsearch.ArchiveInfo{}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info := s.archiveInfo(ctx, ref)
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *Service) archiveInfo(ctx context.Context, ref zimsearch.ArchiveRef) *zimsearch.ArchiveInfo {
	a, err := s.opener.Open(ref.Path)
	if err != nil {
		return &zimsearch.ArchiveInfo{Name: ref.Name, Path: ref.Path, Err: zimsearch.ErrorMessage(err)}
	}
	defer a.Close()

	info, err := a.Info(ctx)
	if err != nil {
		return &zimsearch.ArchiveInfo{Name: ref.Name, Path: ref.Path, Err: zimsearch.ErrorMessage(err)}
	}
	return info
}

// isHTML reports whether a MIME type denotes HTML content. An empty MIME
// defaults to HTML, matching how packs store articles.
func isHTML(mime string) bool {
	return mime == "" || strings.HasPrefix(mime, "text/html") || strings.HasPrefix(mime, "application/xhtml")
}

// truncate shortens text to limit characters, appending an ellipsis
// marker when anything was cut. It counts runes so multi-byte content is
// never split mid-character.
func truncate(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit]) + "..."
}

func capHits(hits []*zimsearch.SearchHit, maxResults int) []*zimsearch.SearchHit {
	if len(hits) > maxResults {
		return hits[:maxResults]
	}
	return hits
}

func capSuggestions(items []*zimsearch.SuggestionItem, maxSuggestions int) []*zimsearch.SuggestionItem {
	if len(items) > maxSuggestions {
		return items[:maxSuggestions]
	}
	return items
}
