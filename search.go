package zimsearch

import "context"

// SearchHit is one search result, always attributed to its source
// archive. Scores are only comparable within a single archive.
type SearchHit struct {
	Title          string  `json:"title"`
	Path           string  `json:"path"`
	URL            string  `json:"url"`
	Score          float64 `json:"score"`
	Snippet        string  `json:"snippet"`
	ContentPreview string  `json:"content_preview"`
	SourceArchive  string  `json:"source_zim"`
}

// SuggestionItem is one title suggestion. Unlike hits, suggestions carry
// no score and no content.
type SuggestionItem struct {
	Title         string `json:"title"`
	Path          string `json:"path"`
	URL           string `json:"url"`
	SourceArchive string `json:"source_zim"`
}

// EntryContent is a fully rendered archive entry. Redirect entries
// resolve to the target's content prefixed with a redirect notice naming
// the target title.
type EntryContent struct {
	Title         string `json:"title"`
	Path          string `json:"path"`
	Content       string `json:"content"`
	SourceArchive string `json:"source_zim"`
}

// SearchService aggregates search, suggestions and entry lookup across
// archives. The archive argument selects a single archive by identifier;
// when it is empty the operation spans every archive in the data
// directory, with failures of individual archives absorbed.
type SearchService interface {
	// Search returns at most maxResults hits. In all-archive mode each
	// archive is allotted maxResults/archiveCount results and the
	// concatenation, in archive enumeration order, is truncated to
	// maxResults. No re-ranking happens across archives.
	Search(ctx context.Context, query, archive string, maxResults int) ([]*SearchHit, error)

	// Suggest returns at most maxSuggestions title suggestions,
	// aggregated under the same rule as Search.
	Suggest(ctx context.Context, query, archive string, maxSuggestions int) ([]*SuggestionItem, error)

	// Entry resolves an entry by exact title first, then by path. In
	// all-archive mode archives are tried in enumeration order and the
	// first archive producing a readable entry wins. Returns ENOTFOUND
	// when no archive in scope holds the entry.
	Entry(ctx context.Context, titleOrPath, archive string) (*EntryContent, error)

	// Archives lists every archive in the data directory with its
	// metadata. Unreadable archives are listed with Err set.
	Archives(ctx context.Context) ([]*ArchiveInfo, error)
}

// Converter converts raw HTML content to readable Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. Script and style
	// markup is stripped before conversion.
	Convert(html string) (string, error)
}
