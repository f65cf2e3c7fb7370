package driving

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// SummaryService produces and caches document summaries.
type SummaryService interface {
	// Summarize returns the cached summary for the document and type,
	// generating and caching it on a miss.
	Summarize(ctx context.Context, docID string, summaryType domain.SummaryType) (*domain.SummaryResult, error)

	// SummarizeMany produces one summary spanning every document. Not cached.
	SummarizeMany(ctx context.Context, docIDs []string, summaryType domain.SummaryType) (*domain.SummaryResult, error)

	// Invalidate drops every cached summary of the document.
	Invalidate(ctx context.Context, docID string) error
}
