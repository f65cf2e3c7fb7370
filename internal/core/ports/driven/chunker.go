package driven

import "github.com/custodia-labs/lexrag/internal/core/domain"

// Chunker splits extracted text into overlapping passages.
type Chunker interface {
	// Chunk splits blocks into passages for docID. Ordinals start at zero and
	// run continuously across blocks. caseID may be empty.
	Chunk(blocks []domain.TextBlock, docID, caseID string) ([]domain.Passage, error)
}
