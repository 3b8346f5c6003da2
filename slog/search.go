// Package slog provides logging decorators for zimsearch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/zimsearch"
)

// Ensure LoggingSearchService implements zimsearch.SearchService.
var _ zimsearch.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with operation logging.
type LoggingSearchService struct {
	next   zimsearch.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next zimsearch.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Search(ctx context.Context, query, archive string, maxResults int) (hits []*zimsearch.SearchHit, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"archive", archiveLabel(archive),
			"max_results", maxResults,
			"hits", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, archive, maxResults)
}

// Suggest delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Suggest(ctx context.Context, query, archive string, maxSuggestions int) (items []*zimsearch.SuggestionItem, err error) {
	defer func(begin time.Time) {
		s.logger.Info("suggest",
			"query", query,
			"archive", archiveLabel(archive),
			"max_suggestions", maxSuggestions,
			"suggestions", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Suggest(ctx, query, archive, maxSuggestions)
}

// Entry delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Entry(ctx context.Context, titleOrPath, archive string) (content *zimsearch.EntryContent, err error) {
	defer func(begin time.Time) {
		source := ""
		if content != nil {
			source = content.SourceArchive
		}
		s.logger.Info("entry",
			"key", titleOrPath,
			"archive", archiveLabel(archive),
			"source", source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Entry(ctx, titleOrPath, archive)
}

// Archives delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Archives(ctx context.Context) (infos []*zimsearch.ArchiveInfo, err error) {
	defer func(begin time.Time) {
		s.logger.Info("archives",
			"count", len(infos),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Archives(ctx)
}

func archiveLabel(archive string) string {
	if archive == "" {
		return "(all)"
	}
	return archive
}
