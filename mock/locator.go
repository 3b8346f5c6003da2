package mock

import "github.com/fwojciec/zimsearch"

var _ zimsearch.Locator = (*Locator)(nil)

// Locator is a mock implementation of zimsearch.Locator.
type Locator struct {
	ResolveFn func(identifier string) (zimsearch.ArchiveRef, error)
	ListAllFn func() ([]zimsearch.ArchiveRef, error)
}

func (l *Locator) Resolve(identifier string) (zimsearch.ArchiveRef, error) {
	return l.ResolveFn(identifier)
}

func (l *Locator) ListAll() ([]zimsearch.ArchiveRef, error) {
	return l.ListAllFn()
}

var _ zimsearch.Opener = (*Opener)(nil)

// Opener is a mock implementation of zimsearch.Opener.
type Opener struct {
	OpenFn func(path string) (zimsearch.Archive, error)
}

func (o *Opener) Open(path string) (zimsearch.Archive, error) {
	return o.OpenFn(path)
}
