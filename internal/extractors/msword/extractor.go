// Package msword extracts text from legacy Word (.doc) documents.
// Conversion shells out through docconv, which needs antiword on PATH.
package msword

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Format is the source format recorded on the block.
const Format = "doc"

// MIMEType is the content type handed to the converter.
const MIMEType = "application/msword"

// convertFunc converts a document stream to plain text.
type convertFunc func(r io.Reader, mimeType string) (string, error)

// Extractor handles .doc files as a single block.
type Extractor struct {
	convert convertFunc
}

// New creates a new .doc extractor.
func New() *Extractor {
	return &Extractor{convert: docconvConvert}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".doc"}
}

// Extract converts the file and drops blank lines from the result.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open doc file: %w", err)
	}
	defer f.Close()

	body, err := e.convert(f, MIMEType)
	if err != nil {
		return nil, fmt.Errorf("%w: convert doc: %v", domain.ErrInvalidInput, err)
	}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	return []domain.TextBlock{{
		Text: strings.Join(lines, "\n"),
		Source: map[string]string{
			"format": Format,
			"path":   path,
		},
	}}, nil
}

func docconvConvert(r io.Reader, mimeType string) (string, error) {
	res, err := docconv.Convert(r, mimeType, false)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}
