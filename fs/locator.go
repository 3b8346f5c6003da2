// Package fs locates archive files in a data directory on the local
// filesystem.
package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/zimsearch"
)

// DefaultExt is the archive file extension appended when resolving bare
// names and matched when enumerating the data directory.
const DefaultExt = ".zim"

// Ensure Locator implements zimsearch.Locator at compile time.
var _ zimsearch.Locator = (*Locator)(nil)

// Locator resolves archive identifiers against a data directory. The
// directory is an explicit constructor parameter so tests can point the
// locator at a temporary directory.
type Locator struct {
	dir string
	ext string
}

// NewLocator creates a Locator for the given data directory using
// DefaultExt.
func NewLocator(dir string) *Locator {
	return &Locator{dir: dir, ext: DefaultExt}
}

// NewLocatorExt creates a Locator with a custom archive extension.
// The extension must include the leading dot.
func NewLocatorExt(dir, ext string) *Locator {
	return &Locator{dir: dir, ext: ext}
}

// Dir returns the configured data directory.
func (l *Locator) Dir() string {
	return l.dir
}

// Resolve maps an identifier to an archive ref. Absolute paths are
// checked as-is; bare names are checked relative to the data directory,
// first literally and then with the archive extension appended.
func (l *Locator) Resolve(identifier string) (zimsearch.ArchiveRef, error) {
	if identifier == "" {
		return zimsearch.ArchiveRef{}, zimsearch.Errorf(zimsearch.EINVALID, "archive identifier required")
	}

	if filepath.IsAbs(identifier) {
		if fileExists(identifier) {
			return zimsearch.ArchiveRef{Name: filepath.Base(identifier), Path: identifier}, nil
		}
		return zimsearch.ArchiveRef{}, zimsearch.Errorf(zimsearch.ENOTFOUND, "archive not found: %s", identifier)
	}

	if _, err := os.Stat(l.dir); err != nil {
		return zimsearch.ArchiveRef{}, zimsearch.Errorf(zimsearch.EUNAVAILABLE, "archive data directory not found: %s", l.dir)
	}

	path := filepath.Join(l.dir, identifier)
	if fileExists(path) {
		return zimsearch.ArchiveRef{Name: filepath.Base(path), Path: path}, nil
	}

	// Retry with the archive extension appended.
	pathWithExt := path + l.ext
	if fileExists(pathWithExt) {
		return zimsearch.ArchiveRef{Name: filepath.Base(pathWithExt), Path: pathWithExt}, nil
	}

	return zimsearch.ArchiveRef{}, zimsearch.Errorf(zimsearch.ENOTFOUND, "archive not found: %s", identifier)
}

// ListAll enumerates every archive file in the data directory. The order
// is the directory enumeration order, deterministic within one process
// run on an unchanged directory.
func (l *Locator) ListAll() ([]zimsearch.ArchiveRef, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EUNAVAILABLE, "archive data directory not found: %s", l.dir)
	}

	refs := []zimsearch.ArchiveRef{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != l.ext {
			continue
		}
		refs = append(refs, zimsearch.ArchiveRef{
			Name: e.Name(),
			Path: filepath.Join(l.dir, e.Name()),
		})
	}

	return refs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
