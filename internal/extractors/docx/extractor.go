// Package docx extracts paragraph text from Word (.docx) documents.
package docx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Format is the source format recorded on the block.
const Format = "docx"

// Extractor handles DOCX documents. All paragraphs form a single block.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract reads word/document.xml and joins its non-blank paragraphs
// with line breaks.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open docx: %v", domain.ErrInvalidInput, err)
	}
	defer r.Close()

	paragraphs, err := parseDocumentXML(r.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx: %v", domain.ErrInvalidInput, err)
	}
	if len(paragraphs) == 0 {
		return nil, nil
	}

	return []domain.TextBlock{{
		Text: strings.Join(paragraphs, "\n"),
		Source: map[string]string{
			"format":     Format,
			"path":       path,
			"paragraphs": fmt.Sprint(len(paragraphs)),
		},
	}}, nil
}

// parseDocumentXML walks the document body and returns the text of every
// non-blank paragraph, including paragraphs nested in tables.
func parseDocumentXML(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
	)

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					flush()
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && depth > 0 {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
