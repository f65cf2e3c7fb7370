package driving

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// QueryService answers questions from indexed documents.
type QueryService interface {
	// Ask answers a question about one document.
	// Returns domain.ErrDocumentNotIndexed before any provider call when the document has no index.
	Ask(ctx context.Context, question, docID string) (*domain.AskResult, error)

	// AskMany answers one question across several documents.
	// The result's PrimaryDocID is the first requested id.
	AskMany(ctx context.Context, question string, docIDs []string) (*domain.AskResult, error)
}
