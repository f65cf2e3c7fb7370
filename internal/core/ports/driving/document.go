package driving

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// DocumentService manages uploaded documents and their records.
type DocumentService interface {
	// Upload stores a copy of the file, records it and indexes it.
	// On indexing failure the copy and the record are removed again.
	Upload(ctx context.Context, srcPath, filename, caseID string) (*domain.DocumentRecord, error)

	// Get retrieves a document record by ID.
	Get(ctx context.Context, docID string) (*domain.DocumentRecord, error)

	// List returns records newest first, filtered by case when caseID is non-empty.
	List(ctx context.Context, caseID string) ([]domain.DocumentRecord, error)

	// Delete removes the stored file, the index and the record.
	Delete(ctx context.Context, docID string) error

	// Supports reports whether Upload accepts a file with this name.
	Supports(filename string) bool
}
