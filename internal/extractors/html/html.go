// Package html extracts readable text from saved HTML pages such as published opinions.
package html

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Format is the source format recorded on the block.
const Format = "html"

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".html", ".htm"}
}

// Extract returns the visible text of the page as one block, one line per
// block element. The page title, when present, is recorded on the block source.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrInvalidInput, err)
	}

	title := pageTitle(doc)
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, nil
	}
	body.Attr = nil
	simplify(body)

	var markup bytes.Buffer
	if err := html.Render(&markup, body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	converted, err := docconv.HTMLToText(&markup)
	if err != nil {
		return nil, fmt.Errorf("%w: convert html: %v", domain.ErrInvalidInput, err)
	}

	text := tidyLines(converted)
	if text == "" {
		return nil, nil
	}

	source := map[string]string{
		"format": Format,
		"path":   path,
	}
	if title != "" {
		source["title"] = title
	}
	return []domain.TextBlock{{Text: text, Source: source}}, nil
}

// droppedElements never carry visible text.
var droppedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Template: true, atom.Svg: true, atom.Math: true, atom.Iframe: true,
	atom.Object: true, atom.Noembed: true, atom.Noframes: true,
}

// blockElements are rendered as paragraphs so the converter breaks a line on them.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Caption: true, atom.Dd: true, atom.Details: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Plaintext: true,
	atom.Pre: true, atom.Section: true, atom.Summary: true, atom.Table: true,
	atom.Tbody: true, atom.Tfoot: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true, atom.Xmp: true,
}

// simplify strips n down to markup the converter reads as text: invisible
// elements and comments go, attributes go, block elements become paragraphs
// and table cells end with a space.
func simplify(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode, html.DoctypeNode:
			n.RemoveChild(c)
		case html.ElementNode:
			if droppedElements[c.DataAtom] {
				n.RemoveChild(c)
				break
			}
			c.Attr = nil
			c.Namespace = ""
			simplify(c)
			switch {
			case c.DataAtom == atom.Td || c.DataAtom == atom.Th:
				c.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
			case blockElements[c.DataAtom]:
				c.Data, c.DataAtom = "p", atom.P
			}
		}
		c = next
	}
}

func pageTitle(doc *html.Node) string {
	t := findElement(doc, atom.Title)
	if t == nil {
		return ""
	}
	var sb strings.Builder
	for c := t.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// findElement returns the first element of kind a in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// tidyLines collapses runs of white space, non-breaking spaces included,
// and drops blank lines.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
