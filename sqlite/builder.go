package sqlite

import (
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/fwojciec/zimsearch"
)

// Metadata describes a pack under construction. Empty fields are
// omitted from the pack; a missing UUID is generated.
type Metadata struct {
	Title       string
	Description string
	Creator     string
	Publisher   string
	Date        string
	UUID        string
}

// Builder writes a new archive pack. Builders are single-writer and not
// safe for concurrent use; callers ingesting concurrently must serialize
// Add calls. Close must be called to finalize the pack.
type Builder struct {
	db        *sql.DB
	withIndex bool
}

// CreateArchive creates a new archive pack at path. When withIndex is
// false the pack is built without a full-text index, which makes readers
// fall back to the bounded title scan.
func CreateArchive(path string, meta Metadata, withIndex bool) (*Builder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive pack: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	db.SetMaxOpenConns(1)

	b := &Builder{db: db, withIndex: withIndex}
	if err := b.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	if err := b.writeMetadata(meta); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to write archive metadata: %w", err)
	}

	return b, nil
}

func (b *Builder) createSchema() error {
	schema := `
		CREATE TABLE metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE entries (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			kind TEXT NOT NULL,
			mime TEXT NOT NULL DEFAULT '',
			redirect_path TEXT NOT NULL DEFAULT '',
			content BLOB,
			content_hash TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX idx_entries_title ON entries(title);
	`
	if _, err := b.db.Exec(schema); err != nil {
		return err
	}

	if b.withIndex {
		_, err := b.db.Exec(`CREATE VIRTUAL TABLE entries_fts USING fts5(title, body)`)
		return err
	}
	return nil
}

func (b *Builder) writeMetadata(meta Metadata) error {
	if meta.UUID == "" {
		meta.UUID = uuid.New().String()
	}

	pairs := map[string]string{
		"Title":       meta.Title,
		"Description": meta.Description,
		"Creator":     meta.Creator,
		"Publisher":   meta.Publisher,
		"Date":        meta.Date,
		"UUID":        meta.UUID,
	}
	for key, value := range pairs {
		if value == "" {
			continue
		}
		if _, err := b.db.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)`, key, value); err != nil {
			return err
		}
	}
	return nil
}

// AddArticle stores an article entry. indexText is the plain-text form
// indexed by the full-text index; it is ignored for index-less packs.
func (b *Builder) AddArticle(path, title, mime string, content []byte, indexText string) error {
	if path == "" || title == "" {
		return zimsearch.Errorf(zimsearch.EINVALID, "article path and title required")
	}
	return b.addEntry(path, title, kindArticle, mime, "", content, indexText)
}

// AddMedia stores a media entry. Media entries are excluded from
// suggestions and never indexed.
func (b *Builder) AddMedia(path, title, mime string, content []byte) error {
	if path == "" {
		return zimsearch.Errorf(zimsearch.EINVALID, "media path required")
	}
	return b.addEntry(path, title, kindMedia, mime, "", content, "")
}

// AddRedirect stores a redirect entry aliasing targetPath. The target
// does not have to exist yet; dangling redirects resolve to ENOTFOUND at
// read time.
func (b *Builder) AddRedirect(path, title, targetPath string) error {
	if path == "" || targetPath == "" {
		return zimsearch.Errorf(zimsearch.EINVALID, "redirect path and target required")
	}
	return b.addEntry(path, title, kindRedirect, "", targetPath, nil, "")
}

func (b *Builder) addEntry(path, title, kind, mime, redirectPath string, content []byte, indexText string) error {
	res, err := b.db.Exec(`
		INSERT INTO entries (path, title, kind, mime, redirect_path, content, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, path, title, kind, mime, redirectPath, content, hashContent(content))
	if err != nil {
		return fmt.Errorf("failed to store entry %q: %w", path, err)
	}

	if b.withIndex && kind == kindArticle {
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if _, err := b.db.Exec(`INSERT INTO entries_fts (rowid, title, body) VALUES (?, ?, ?)`, id, title, indexText); err != nil {
			return fmt.Errorf("failed to index entry %q: %w", path, err)
		}
	}
	return nil
}

// HasPath reports whether the pack already holds an entry at path.
func (b *Builder) HasPath(path string) (bool, error) {
	var exists bool
	err := b.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM entries WHERE path = ?)`, path).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check entry %q: %w", path, err)
	}
	return exists, nil
}

// Close finalizes and closes the pack.
func (b *Builder) Close() error {
	return b.db.Close()
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}
