// Package chromem provides an in-memory vector engine backed by chromem-go.
// A vector set is built per loaded document index and discarded with it.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.VectorEngine = (*Engine)(nil)

// errMissingEmbedding is returned when chromem asks to embed a passage
// that arrived without a vector.
var errMissingEmbedding = errors.New("passage has no embedding")

// Engine builds chromem collections from pre-embedded passages.
type Engine struct {
	concurrency int
}

// New creates a new engine that inserts with one goroutine per CPU.
func New() *Engine {
	return &Engine{concurrency: runtime.NumCPU()}
}

// Build creates a collection holding every passage embedding.
func (e *Engine) Build(ctx context.Context, name string, passages []domain.Passage) (driven.VectorSet, error) {
	db := chromem.NewDB()
	col, err := db.CreateCollection(name, nil, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	if len(passages) == 0 {
		return &Set{col: col}, nil
	}

	dims := len(passages[0].Embedding)
	docs := make([]chromem.Document, len(passages))
	for i, p := range passages {
		if len(p.Embedding) == 0 || len(p.Embedding) != dims {
			return nil, fmt.Errorf("%w: passage %d has %d dimensions, want %d",
				domain.ErrInvalidInput, p.Ordinal, len(p.Embedding), dims)
		}
		docs[i] = chromem.Document{
			ID:      p.ID,
			Content: p.Text,
			Metadata: map[string]string{
				"doc_id":  p.DocID,
				"ordinal": strconv.Itoa(p.Ordinal),
			},
			// chromem normalises vectors in place, so hand it a copy.
			Embedding: append([]float32(nil), p.Embedding...),
		}
	}

	if err := col.AddDocuments(ctx, docs, max(e.concurrency, 1)); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}

	return &Set{col: col}, nil
}

func refuseEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errMissingEmbedding
}

// Set is a read-only chromem collection.
type Set struct {
	col *chromem.Collection
}

// Len returns the number of vectors in the set.
func (s *Set) Len() int {
	return s.col.Count()
}

// Nearest returns up to k hits ordered by descending cosine similarity.
func (s *Set) Nearest(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	n := min(k, s.col.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := s.col.QueryEmbedding(ctx, append([]float32(nil), query...), n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = driven.VectorHit{ID: r.ID, Similarity: r.Similarity}
	}
	return hits, nil
}
