package services

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService exposes index lifecycle checks.
type IndexService struct {
	indexes *IndexStore
}

// NewIndexService creates an index service.
func NewIndexService(indexes *IndexStore) *IndexService {
	return &IndexService{indexes: indexes}
}

// Exists reports whether docID has an index.
func (s *IndexService) Exists(ctx context.Context, docID string) (bool, error) {
	return s.indexes.Exists(ctx, docID)
}

// Delete removes docID's index. Returns false when there was none.
func (s *IndexService) Delete(ctx context.Context, docID string) (bool, error) {
	return s.indexes.Delete(ctx, docID)
}
