// Package sqlite reads and writes archive packs: single-file, read-only
// SQLite content stores with an optional FTS5 full-text index. The pack
// is the shipped backing store behind the zimsearch.Archive contract;
// the aggregator never depends on this package directly.
package sqlite

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/fwojciec/zimsearch"
)

// Entry kinds stored in the entries.kind column.
const (
	kindArticle  = "article"
	kindMedia    = "media"
	kindRedirect = "redirect"
)

// Compile-time interface verification.
var _ zimsearch.Archive = (*Archive)(nil)
var _ zimsearch.Opener = (*Opener)(nil)

// Opener opens archive packs.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens the archive pack at path read-only.
func (o *Opener) Open(path string) (zimsearch.Archive, error) {
	return OpenArchive(path)
}

// Archive is an opened archive pack. It holds one read-only database
// connection and is not safe for concurrent use.
type Archive struct {
	db       *sql.DB
	name     string
	path     string
	hasIndex bool
}

// OpenArchive opens the archive pack at path read-only. It fails with
// EINTERNAL when the file is not a readable archive pack.
func OpenArchive(path string) (*Archive, error) {
	dsn := "file:" + path + "?mode=ro&_pragma=query_only(1)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "could not open archive %s: %s", path, err)
	}

	// A single handle per archive; handles are request-scoped anyway.
	db.SetMaxOpenConns(1)

	// Verify the file actually is an archive pack before handing it out.
	var n int
	err = db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('entries', 'metadata')`).Scan(&n)
	if err != nil || n != 2 {
		_ = db.Close()
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "not a readable archive pack: %s", path)
	}

	var indexed int
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'entries_fts'`).Scan(&indexed); err != nil {
		_ = db.Close()
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "could not inspect archive %s: %s", path, err)
	}

	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}

	return &Archive{db: db, name: name, path: path, hasIndex: indexed == 1}, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// HasIndex reports whether the pack was built with a full-text index.
func (a *Archive) HasIndex() bool {
	return a.hasIndex
}

// Info returns the pack's metadata and entry counts.
func (a *Archive) Info(ctx context.Context) (*zimsearch.ArchiveInfo, error) {
	info := &zimsearch.ArchiveInfo{
		Name:     a.name,
		Path:     a.path,
		HasIndex: a.hasIndex,
	}

	rows, err := a.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "could not read archive metadata: %s", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		switch key {
		case "Title":
			info.Title = value
		case "Description":
			info.Description = value
		case "Creator":
			info.Creator = value
		case "Publisher":
			info.Publisher = value
		case "Date":
			info.Date = value
		case "UUID":
			info.UUID = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if info.Title == "" {
		info.Title = strings.TrimSuffix(a.name, ".zim")
	}

	err = a.db.QueryRowContext(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE kind = ?),
		       count(*) FILTER (WHERE kind = ?)
		FROM entries
	`, kindArticle, kindMedia).Scan(&info.EntryCount, &info.ArticleCount, &info.MediaCount)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "could not count archive entries: %s", err)
	}

	return info, nil
}

// EstimatedMatches returns how many entries match the full-text query.
func (a *Archive) EstimatedMatches(ctx context.Context, query string) (int, error) {
	if !a.hasIndex {
		return 0, zimsearch.Errorf(zimsearch.EINTERNAL, "archive %s has no full-text index", a.name)
	}

	var n int
	err := a.db.QueryRowContext(ctx, `SELECT count(*) FROM entries_fts WHERE entries_fts MATCH ?`, query).Scan(&n)
	if err != nil {
		return 0, zimsearch.Errorf(zimsearch.EINTERNAL, "full-text count failed: %s", err)
	}
	return n, nil
}

// SearchIndex returns ranked full-text results in bm25 order. The score
// exposed to callers is the negated bm25 rank so that higher is better.
func (a *Archive) SearchIndex(ctx context.Context, query string, offset, count int) ([]zimsearch.IndexHit, error) {
	if !a.hasIndex {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "archive %s has no full-text index", a.name)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT e.path, snippet(entries_fts, 1, '', '', '…', 16), bm25(entries_fts)
		FROM entries_fts
		JOIN entries e ON e.id = entries_fts.rowid
		WHERE entries_fts MATCH ?
		ORDER BY bm25(entries_fts)
		LIMIT ? OFFSET ?
	`, query, count, offset)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "full-text search failed: %s", err)
	}
	defer rows.Close()

	var hits []zimsearch.IndexHit
	for rows.Next() {
		var hit zimsearch.IndexHit
		var rank float64
		if err := rows.Scan(&hit.Path, &hit.Snippet, &rank); err != nil {
			return nil, err
		}
		hit.Score = -rank
		hit.URL = entryURL(hit.Path)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// EstimatedSuggestions returns how many titles match the suggestion
// query as a prefix.
func (a *Archive) EstimatedSuggestions(ctx context.Context, query string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `
		SELECT count(*) FROM entries
		WHERE kind != ? AND title LIKE ? ESCAPE '\'
	`, kindMedia, likePrefix(query)).Scan(&n)
	if err != nil {
		return 0, zimsearch.Errorf(zimsearch.EINTERNAL, "suggestion count failed: %s", err)
	}
	return n, nil
}

// Suggest returns title suggestions matching the query as a
// case-insensitive prefix, shortest titles first.
func (a *Archive) Suggest(ctx context.Context, query string, offset, count int) ([]zimsearch.TitleMatch, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT title, path FROM entries
		WHERE kind != ? AND title LIKE ? ESCAPE '\'
		ORDER BY length(title), title
		LIMIT ? OFFSET ?
	`, kindMedia, likePrefix(query), count, offset)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "suggestion search failed: %s", err)
	}
	defer rows.Close()

	var matches []zimsearch.TitleMatch
	for rows.Next() {
		var m zimsearch.TitleMatch
		if err := rows.Scan(&m.Title, &m.Path); err != nil {
			return nil, err
		}
		m.URL = entryURL(m.Path)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// entryColumns selects a full entry joined with its redirect target's
// title, if any.
const entryColumns = `
	SELECT e.title, e.path, e.mime, e.kind, e.redirect_path,
	       COALESCE(t.title, ''), e.content
	FROM entries e
	LEFT JOIN entries t ON t.path = e.redirect_path AND e.kind = 'redirect'
`

// EntryByTitle resolves an entry by exact title.
func (a *Archive) EntryByTitle(ctx context.Context, title string) (*zimsearch.Entry, error) {
	row := a.db.QueryRowContext(ctx, entryColumns+` WHERE e.title = ?`, title)
	return a.scanEntry(row, title)
}

// EntryByPath resolves an entry by path.
func (a *Archive) EntryByPath(ctx context.Context, path string) (*zimsearch.Entry, error) {
	row := a.db.QueryRowContext(ctx, entryColumns+` WHERE e.path = ?`, path)
	return a.scanEntry(row, path)
}

func (a *Archive) scanEntry(row *sql.Row, key string) (*zimsearch.Entry, error) {
	var entry zimsearch.Entry
	var kind string
	err := row.Scan(&entry.Title, &entry.Path, &entry.MIME, &kind,
		&entry.RedirectPath, &entry.RedirectTitle, &entry.Content)
	if err == sql.ErrNoRows {
		return nil, zimsearch.Errorf(zimsearch.ENOTFOUND, "entry %q not found in %s", key, a.name)
	}
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "could not read entry %q: %s", key, err)
	}
	entry.IsRedirect = kind == kindRedirect
	return &entry, nil
}

// RandomEntries draws up to n entries pseudo-randomly, without content.
// This backs the index-less search fallback; it is a bounded sample,
// and its cost scales with n instead of the archive size.
func (a *Archive) RandomEntries(ctx context.Context, n int) ([]*zimsearch.Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	var total, maxID int64
	err := a.db.QueryRowContext(ctx, `SELECT count(*), coalesce(max(id), 0) FROM entries`).Scan(&total, &maxID)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "random sample failed: %s", err)
	}
	if total == 0 {
		return nil, nil
	}

	// Small archives are shuffled in memory; the read is still bounded
	// relative to n.
	if total <= int64(4*n) {
		rows, err := a.db.QueryContext(ctx, `
			SELECT title, path, mime, kind, redirect_path
			FROM entries
			LIMIT ?
		`, 4*n)
		if err != nil {
			return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "random sample failed: %s", err)
		}
		entries, err := scanShallowEntries(rows)
		if err != nil {
			return nil, err
		}
		rand.Shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
		if len(entries) > n {
			entries = entries[:n]
		}
		return entries, nil
	}

	// Probe random rowids rather than ordering the whole table by
	// random(). Each probe lands on the next existing row at or above a
	// random id; gaps left by sparse ids only skew the draw, they never
	// miss rows.
	seen := make(map[int64]bool, n)
	entries := make([]*zimsearch.Entry, 0, n)
	for attempts := 0; len(entries) < n && attempts < 4*n; attempts++ {
		target := rand.Int64N(maxID) + 1
		row := a.db.QueryRowContext(ctx, `
			SELECT id, title, path, mime, kind, redirect_path
			FROM entries
			WHERE id >= ?
			ORDER BY id
			LIMIT 1
		`, target)

		var id int64
		var entry zimsearch.Entry
		var kind string
		if err := row.Scan(&id, &entry.Title, &entry.Path, &entry.MIME, &kind, &entry.RedirectPath); err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "random sample failed: %s", err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		entry.IsRedirect = kind == kindRedirect
		entries = append(entries, &entry)
	}
	return entries, nil
}

func scanShallowEntries(rows *sql.Rows) ([]*zimsearch.Entry, error) {
	defer rows.Close()

	var entries []*zimsearch.Entry
	for rows.Next() {
		var entry zimsearch.Entry
		var kind string
		if err := rows.Scan(&entry.Title, &entry.Path, &entry.MIME, &kind, &entry.RedirectPath); err != nil {
			return nil, err
		}
		entry.IsRedirect = kind == kindRedirect
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// entryURL derives the serving URL for an entry path.
func entryURL(path string) string {
	return "/" + strings.TrimPrefix(path, "/")
}

// likePrefix turns a query into a case-insensitive LIKE prefix pattern,
// escaping LIKE metacharacters in the query itself.
func likePrefix(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(query) + "%"
}
