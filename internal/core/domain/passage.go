package domain

import (
	"strings"
	"time"
)

// Passage is a bounded slice of a document's text.
// It is the unit of embedding and retrieval.
type Passage struct {
	// ID is the unique identifier for the passage.
	ID string

	// DocID links to the owning document.
	DocID string

	// CaseID is the owning document's case, empty when none.
	CaseID string

	// Ordinal is the zero-based position within the document.
	Ordinal int

	// Text is the passage content.
	Text string

	// Overlap is the number of leading characters shared with the previous
	// passage of the same block. Zero for the first passage of a block.
	Overlap int

	// Source is the provenance of the block the passage came from.
	Source map[string]string

	// Embedding is the vector representation, set once the passage is indexed.
	Embedding []float32
}

// Fresh returns the part of the passage text not shared with its predecessor.
func (p Passage) Fresh() string {
	if p.Overlap <= 0 {
		return p.Text
	}
	runes := []rune(p.Text)
	if p.Overlap >= len(runes) {
		return ""
	}
	return string(runes[p.Overlap:])
}

// ScoredPassage is a passage returned by a similarity search.
type ScoredPassage struct {
	Passage

	// Similarity is the cosine similarity to the query, higher is closer.
	Similarity float32
}

// IndexData is the persisted form of a per-document index.
// It holds every passage with its embedding so a query never needs the source file.
type IndexData struct {
	// DocID is the document the index belongs to.
	DocID string

	// CaseID is copied from the passages for listing.
	CaseID string

	// Model is the embedding model that produced the vectors.
	Model string

	// Dimensions is the length of every embedding.
	Dimensions int

	// CreatedAt is when the index was built.
	CreatedAt time.Time

	// Passages are the indexed passages in ordinal order.
	Passages []Passage
}

// IndexKey returns the storage key for a document's index.
func IndexKey(docID string) string {
	return "doc_" + docID
}

// NormaliseWhitespace collapses every run of whitespace to one space and trims the ends.
func NormaliseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
