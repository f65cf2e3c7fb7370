package driven

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// DocumentStore persists document records and their cached summaries.
// Backed by SQLite by default, MongoDB optionally.
type DocumentStore interface {
	// Save stores or replaces a record.
	Save(ctx context.Context, record *domain.DocumentRecord) error

	// Get retrieves a record by ID.
	// Returns domain.ErrNotFound when no record exists.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// List returns records newest first, filtered by case when caseID is non-empty.
	List(ctx context.Context, caseID string) ([]domain.DocumentRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// SetSummary caches a summary on the record.
	// Returns domain.ErrNotFound when no record exists.
	SetSummary(ctx context.Context, id string, summaryType domain.SummaryType, summary string) error

	// ClearSummaries drops every cached summary of the record.
	ClearSummaries(ctx context.Context, id string) error
}
