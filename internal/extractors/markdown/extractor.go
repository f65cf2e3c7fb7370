// Package markdown extracts readable text from Markdown files.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Format is the source format recorded on the block.
const Format = "markdown"

// Extractor handles Markdown documents. Markup is stripped and each
// leaf block becomes one paragraph of a single text block.
type Extractor struct {
	md goldmark.Markdown
}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Extract parses the file and returns its plain text as one block.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown file: %w", err)
	}

	paragraphs, title := e.plainText(src)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	source := map[string]string{
		"format": Format,
		"path":   path,
	}
	if title != "" {
		source["title"] = title
	}

	return []domain.TextBlock{{
		Text:   strings.Join(paragraphs, "\n\n"),
		Source: source,
	}}, nil
}

// plainText returns the text of every non-empty leaf block in document
// order, plus the first heading.
func (e *Extractor) plainText(src []byte) ([]string, string) {
	doc := e.md.Parser().Parse(text.NewReader(src))

	var (
		paragraphs []string
		title      string
	)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || !isLeafBlock(n) {
			return ast.WalkContinue, nil
		}

		var s string
		switch n.Kind() {
		case ast.KindHTMLBlock, ast.KindThematicBreak:
			return ast.WalkSkipChildren, nil
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			s = linesText(n, src)
		default:
			s = inlineText(n, src)
		}

		s = strings.TrimSpace(s)
		if s == "" {
			return ast.WalkSkipChildren, nil
		}
		if title == "" && n.Kind() == ast.KindHeading {
			title = s
		}
		paragraphs = append(paragraphs, s)
		return ast.WalkSkipChildren, nil
	})

	return paragraphs, title
}

// isLeafBlock reports whether n is a block with no block children.
func isLeafBlock(n ast.Node) bool {
	if n.Type() != ast.TypeBlock {
		return false
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			return false
		}
	}
	return true
}

func linesText(n ast.Node, src []byte) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

func inlineText(n ast.Node, src []byte) string {
	var b bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.HardLineBreak() || v.SoftLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
