package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// SummaryService caches single-document summaries on the document record.
type SummaryService struct {
	summarizer *Summarizer
	docs       driven.DocumentStore
}

// NewSummaryService creates a summary service. docs may be nil, which
// disables caching.
func NewSummaryService(summarizer *Summarizer, docs driven.DocumentStore) *SummaryService {
	return &SummaryService{summarizer: summarizer, docs: docs}
}

// Summarize returns the cached summary of docID, computing and caching it on
// a miss. Documents without a record are summarised but not cached.
func (s *SummaryService) Summarize(
	ctx context.Context,
	docID string,
	summaryType domain.SummaryType,
) (*domain.SummaryResult, error) {
	if !summaryType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSummaryType, summaryType)
	}

	record := s.record(ctx, docID)
	if record != nil {
		if cached, ok := record.Summary(summaryType); ok {
			logger.Debug("Summary cache hit for %s (%s)", docID, summaryType)
			return &domain.SummaryResult{
				DocIDs:  []string{docID},
				Type:    summaryType,
				Summary: cached,
				Cached:  true,
			}, nil
		}
	}

	summary, err := s.summarizer.Summarize(ctx, docID, summaryType)
	if err != nil {
		return nil, fmt.Errorf("summarize document %s: %w", docID, err)
	}

	if record != nil {
		if err := s.docs.SetSummary(ctx, docID, summaryType, summary); err != nil {
			logger.Warn("Failed to cache %s summary for %s: %v", summaryType, docID, err)
		}
	}

	return &domain.SummaryResult{
		DocIDs:  []string{docID},
		Type:    summaryType,
		Summary: summary,
	}, nil
}

// SummarizeMany summarises several documents together. Combined summaries
// are never cached.
func (s *SummaryService) SummarizeMany(
	ctx context.Context,
	docIDs []string,
	summaryType domain.SummaryType,
) (*domain.SummaryResult, error) {
	ids := dedupe(docIDs)

	summary, err := s.summarizer.SummarizeMany(ctx, ids, summaryType)
	if err != nil {
		return nil, fmt.Errorf("summarize %d documents: %w", len(ids), err)
	}

	return &domain.SummaryResult{
		DocIDs:  ids,
		Type:    summaryType,
		Summary: summary,
	}, nil
}

// Invalidate drops every cached summary of docID.
func (s *SummaryService) Invalidate(ctx context.Context, docID string) error {
	if s.docs == nil {
		return nil
	}
	return s.docs.ClearSummaries(ctx, docID)
}

// record returns docID's record, or nil when caching is unavailable for it.
func (s *SummaryService) record(ctx context.Context, docID string) *domain.DocumentRecord {
	if s.docs == nil {
		return nil
	}
	record, err := s.docs.Get(ctx, docID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to read record for %s: %v", docID, err)
		}
		return nil
	}
	return record
}
