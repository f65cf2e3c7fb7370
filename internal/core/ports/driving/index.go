package driving

import "context"

// IndexService exposes index lifecycle operations.
type IndexService interface {
	// Exists reports whether docID has an index.
	Exists(ctx context.Context, docID string) (bool, error)

	// Delete removes the index of docID. Returns false when there was none.
	Delete(ctx context.Context, docID string) (bool, error)
}
