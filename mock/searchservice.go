package mock

import (
	"context"

	"github.com/fwojciec/zimsearch"
)

var _ zimsearch.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of zimsearch.SearchService.
type SearchService struct {
	SearchFn   func(ctx context.Context, query, archive string, maxResults int) ([]*zimsearch.SearchHit, error)
	SuggestFn  func(ctx context.Context, query, archive string, maxSuggestions int) ([]*zimsearch.SuggestionItem, error)
	EntryFn    func(ctx context.Context, titleOrPath, archive string) (*zimsearch.EntryContent, error)
	ArchivesFn func(ctx context.Context) ([]*zimsearch.ArchiveInfo, error)
}

func (s *SearchService) Search(ctx context.Context, query, archive string, maxResults int) ([]*zimsearch.SearchHit, error) {
	return s.SearchFn(ctx, query, archive, maxResults)
}

func (s *SearchService) Suggest(ctx context.Context, query, archive string, maxSuggestions int) ([]*zimsearch.SuggestionItem, error) {
	return s.SuggestFn(ctx, query, archive, maxSuggestions)
}

func (s *SearchService) Entry(ctx context.Context, titleOrPath, archive string) (*zimsearch.EntryContent, error) {
	return s.EntryFn(ctx, titleOrPath, archive)
}

func (s *SearchService) Archives(ctx context.Context) ([]*zimsearch.ArchiveInfo, error) {
	return s.ArchivesFn(ctx)
}
