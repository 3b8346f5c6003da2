package zimsearch

import "context"

// ArchiveRef is a lightweight reference to an archive file on disk.
// It is produced by a Locator and opened lazily via an Opener; holding a
// ref does not hold any file handle.
type ArchiveRef struct {
	// Name is the archive's display name, the file's base name
	// (e.g. "wiki.zim"). Every hit and entry is attributed to it.
	Name string

	// Path is the absolute or locator-relative filesystem path.
	Path string
}

// ArchiveInfo describes one archive's metadata and counts.
type ArchiveInfo struct {
	Name        string `json:"filename"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Date        string `json:"date,omitempty"`
	UUID        string `json:"uuid,omitempty"`

	HasIndex     bool `json:"has_index"`
	EntryCount   int  `json:"entry_count"`
	ArticleCount int  `json:"article_count"`
	MediaCount   int  `json:"media_count"`

	// Err is set instead of the fields above when the archive file
	// exists but could not be read. Listings keep unreadable archives
	// so callers can see them.
	Err string `json:"error,omitempty"`
}

// Entry represents one record inside an archive.
type Entry struct {
	Title string
	Path  string
	MIME  string

	// IsRedirect marks an entry that aliases another record instead of
	// holding content. RedirectPath and RedirectTitle identify the
	// target; Content is empty.
	IsRedirect    bool
	RedirectPath  string
	RedirectTitle string

	// Content is the raw stored payload. It is left nil by operations
	// documented as returning shallow entries (RandomEntries).
	Content []byte
}

// IndexHit is one ranked result from an archive's full-text index.
// Score is index-assigned; higher is better and only comparable to other
// scores from the same archive.
type IndexHit struct {
	Path    string
	URL     string
	Score   float64
	Snippet string
}

// TitleMatch is one ranked result from an archive's suggestion search.
type TitleMatch struct {
	Title string
	Path  string
	URL   string
}

// Archive is an opened archive handle. Handles are opened per call and
// must be closed on every exit path; they are not safe for concurrent
// use and must not be shared across calls.
type Archive interface {
	// Info returns the archive's metadata and counts.
	Info(ctx context.Context) (*ArchiveInfo, error)

	// HasIndex reports whether the archive carries a full-text index.
	// Absence triggers the bounded title-scan fallback.
	HasIndex() bool

	// EstimatedMatches returns the index's estimate of how many entries
	// match the query.
	EstimatedMatches(ctx context.Context, query string) (int, error)

	// SearchIndex returns ranked results from the full-text index in
	// the index's native score order. Results are not re-sorted.
	SearchIndex(ctx context.Context, query string, offset, count int) ([]IndexHit, error)

	// EstimatedSuggestions returns the estimated number of title
	// suggestions for the query.
	EstimatedSuggestions(ctx context.Context, query string) (int, error)

	// Suggest returns ranked title suggestions for the query.
	Suggest(ctx context.Context, query string, offset, count int) ([]TitleMatch, error)

	// EntryByTitle resolves an entry by exact title, content included.
	// Returns ENOTFOUND if no entry has that title.
	EntryByTitle(ctx context.Context, title string) (*Entry, error)

	// EntryByPath resolves an entry by path, content included.
	// Returns ENOTFOUND if no entry has that path.
	EntryByPath(ctx context.Context, path string) (*Entry, error)

	// RandomEntries draws up to n entries pseudo-randomly, without
	// content. It backs the index-less search fallback and is
	// intentionally a sample, never a full scan.
	RandomEntries(ctx context.Context, n int) ([]*Entry, error)

	// Close releases the underlying file handle.
	Close() error
}

// Locator resolves archive identifiers against a configured data
// directory. It never opens archives.
type Locator interface {
	// Resolve maps an identifier to an archive ref. The identifier may
	// be an absolute path or a bare filename relative to the data
	// directory; a bare name without the archive extension is retried
	// with the extension appended. Returns ENOTFOUND when neither
	// exists and EUNAVAILABLE when the data directory is missing.
	Resolve(identifier string) (ArchiveRef, error)

	// ListAll enumerates every archive file in the data directory, in
	// directory enumeration order. The order is deterministic within
	// one process run on an unchanged directory but otherwise
	// unspecified. Returns EUNAVAILABLE when the directory is missing.
	ListAll() ([]ArchiveRef, error)
}

// Opener opens an archive file for reading.
type Opener interface {
	// Open opens the archive at path. Returns EINTERNAL when the file
	// exists but cannot be read as an archive.
	Open(path string) (Archive, error)
}
