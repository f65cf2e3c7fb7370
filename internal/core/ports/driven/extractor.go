package driven

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// Extractor turns one file format into plain text blocks.
// Implementations only read the file.
type Extractor interface {
	// Extensions returns the lower-case extensions, with dot, this extractor handles.
	Extensions() []string

	// Extract reads the file at path and returns its text blocks in document order.
	Extract(ctx context.Context, path string) ([]domain.TextBlock, error)
}

// ExtractorRegistry dispatches extraction by declared extension.
type ExtractorRegistry interface {
	// Supports reports whether an extractor is registered for ext.
	Supports(ext string) bool

	// Extract runs the extractor registered for ext.
	// Returns domain.ErrUnsupportedFileType before touching the file when none is.
	Extract(ctx context.Context, path, ext string) ([]domain.TextBlock, error)

	// Extensions returns every supported extension, sorted.
	Extensions() []string
}
