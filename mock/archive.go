// Package mock provides mock implementations of zimsearch interfaces
// for testing.
package mock

import (
	"context"

	"github.com/fwojciec/zimsearch"
)

var _ zimsearch.Archive = (*Archive)(nil)

// Archive is a mock implementation of zimsearch.Archive.
type Archive struct {
	InfoFn                 func(ctx context.Context) (*zimsearch.ArchiveInfo, error)
	HasIndexFn             func() bool
	EstimatedMatchesFn     func(ctx context.Context, query string) (int, error)
	SearchIndexFn          func(ctx context.Context, query string, offset, count int) ([]zimsearch.IndexHit, error)
	EstimatedSuggestionsFn func(ctx context.Context, query string) (int, error)
	SuggestFn              func(ctx context.Context, query string, offset, count int) ([]zimsearch.TitleMatch, error)
	EntryByTitleFn         func(ctx context.Context, title string) (*zimsearch.Entry, error)
	EntryByPathFn          func(ctx context.Context, path string) (*zimsearch.Entry, error)
	RandomEntriesFn        func(ctx context.Context, n int) ([]*zimsearch.Entry, error)
	CloseFn                func() error

	// CloseCount tracks Close calls so tests can assert handles are
	// released on every exit path.
	CloseCount int
}

func (a *Archive) Info(ctx context.Context) (*zimsearch.ArchiveInfo, error) {
	return a.InfoFn(ctx)
}

func (a *Archive) HasIndex() bool {
	return a.HasIndexFn()
}

func (a *Archive) EstimatedMatches(ctx context.Context, query string) (int, error) {
	return a.EstimatedMatchesFn(ctx, query)
}

func (a *Archive) SearchIndex(ctx context.Context, query string, offset, count int) ([]zimsearch.IndexHit, error) {
	return a.SearchIndexFn(ctx, query, offset, count)
}

func (a *Archive) EstimatedSuggestions(ctx context.Context, query string) (int, error) {
	return a.EstimatedSuggestionsFn(ctx, query)
}

func (a *Archive) Suggest(ctx context.Context, query string, offset, count int) ([]zimsearch.TitleMatch, error) {
	return a.SuggestFn(ctx, query, offset, count)
}

func (a *Archive) EntryByTitle(ctx context.Context, title string) (*zimsearch.Entry, error) {
	return a.EntryByTitleFn(ctx, title)
}

func (a *Archive) EntryByPath(ctx context.Context, path string) (*zimsearch.Entry, error) {
	return a.EntryByPathFn(ctx, path)
}

func (a *Archive) RandomEntries(ctx context.Context, n int) ([]*zimsearch.Entry, error) {
	return a.RandomEntriesFn(ctx, n)
}

func (a *Archive) Close() error {
	a.CloseCount++
	if a.CloseFn != nil {
		return a.CloseFn()
	}
	return nil
}
