// Package pdf extracts page text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Format is the source format recorded on every block.
const Format = "pdf"

// pageSource is the subset of a PDF reader the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(n int) (text string, ok bool, err error)
}

// openFunc opens path as a page source. The returned closer releases the file.
type openFunc func(path string) (pageSource, func() error, error)

// Extractor handles PDF documents, one block per page.
type Extractor struct {
	open openFunc
}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{open: openReader}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads every page and returns one block per page that has text.
// Blank pages are skipped; page numbers stay one-based.
func (e *Extractor) Extract(ctx context.Context, path string) (blocks []domain.TextBlock, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			blocks = nil
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	src, closeFn, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, err)
	}
	defer closeFn()

	total := src.NumPage()
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, ok, err := src.PageText(n)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", n, err)
		}
		if !ok {
			logger.Debug("pdf %s: page %d is null", path, n)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		blocks = append(blocks, domain.TextBlock{
			Text: text,
			Source: map[string]string{
				"page":   strconv.Itoa(n),
				"format": Format,
				"path":   path,
			},
		})
	}

	return blocks, nil
}

// readerSource adapts a pdf.Reader to pageSource.
type readerSource struct {
	r *pdf.Reader
}

func (s readerSource) NumPage() int {
	return s.r.NumPage()
}

func (s readerSource) PageText(n int) (string, bool, error) {
	p := s.r.Page(n)
	if p.V.IsNull() {
		return "", false, nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func openReader(path string) (pageSource, func() error, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, nil, err
	}
	return readerSource{r: r}, f.Close, nil
}
