package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/extractors/docx"
	"github.com/custodia-labs/lexrag/internal/extractors/html"
	"github.com/custodia-labs/lexrag/internal/extractors/markdown"
	"github.com/custodia-labs/lexrag/internal/extractors/msword"
	"github.com/custodia-labs/lexrag/internal/extractors/pdf"
	"github.com/custodia-labs/lexrag/internal/extractors/plaintext"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file extension.
// It is built once at startup and is read-only afterwards.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
// A later extractor claiming an extension replaces an earlier one.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[normaliseExt(ext)] = e
		}
	}
	return r
}

// DefaultRegistry returns a registry with every built-in extractor.
func DefaultRegistry() *Registry {
	return NewRegistry(
		pdf.New(),
		docx.New(),
		msword.New(),
		plaintext.New(),
		markdown.New(),
		html.New(),
	)
}

// Supports reports whether an extractor is registered for ext.
func (r *Registry) Supports(ext string) bool {
	_, ok := r.byExt[normaliseExt(ext)]
	return ok
}

// Extensions returns every supported extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract runs the extractor registered for ext.
func (r *Registry) Extract(ctx context.Context, path, ext string) ([]domain.TextBlock, error) {
	e, ok := r.byExt[normaliseExt(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}

	logger.Debug("extracting %s with %T", path, e)
	blocks, err := e.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", ext, err)
	}
	logger.Debug("extracted %d blocks from %s", len(blocks), path)
	return blocks, nil
}

// normaliseExt lower-cases ext and ensures a leading dot.
func normaliseExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
