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

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns a document file into a searchable index.
type IngestService struct {
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	indexes    *IndexStore
	docs       driven.DocumentStore
}

// NewIngestService creates an ingest service. docs may be nil, in which case
// cached summaries are not touched.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	indexes *IndexStore,
	docs driven.DocumentStore,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunker:    chunker,
		indexes:    indexes,
		docs:       docs,
	}
}

// IndexDocument extracts, chunks and indexes the file at path under docID,
// replacing any previous index and dropping summaries cached for it.
// Nothing is written when any stage fails.
func (s *IngestService) IndexDocument(ctx context.Context, path, docID, caseID string) (bool, error) {
	if docID == "" {
		return false, fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}

	ext := domain.FileExtension(path)
	if !s.extractors.Supports(ext) {
		return false, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}

	logger.Section("Indexing document " + docID)

	blocks, err := s.extractors.Extract(ctx, path, ext)
	if err != nil {
		return false, fmt.Errorf("extract %s: %w", path, err)
	}
	logger.Debug("Extracted %d blocks from %s", len(blocks), path)

	passages, err := s.chunker.Chunk(blocks, docID, caseID)
	if err != nil {
		return false, fmt.Errorf("chunk document %s: %w", docID, err)
	}
	if len(passages) == 0 {
		return false, fmt.Errorf("%w: %s", domain.ErrEmptyExtraction, path)
	}

	if err := s.indexes.Create(ctx, passages, docID); err != nil {
		return false, err
	}

	if s.docs != nil {
		if err := s.docs.ClearSummaries(ctx, docID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to clear cached summaries for %s: %v", docID, err)
		}
	}

	return true, nil
}
