package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Index store defaults.
const (
	DefaultEmbedBatchSize   = 32
	DefaultEmbedParallelism = 4
)

// IndexStore owns the lifecycle of per-document indexes: embedding passages,
// persisting them as one blob and loading them back for search.
type IndexStore struct {
	blobs       driven.IndexBlobStore
	codec       driven.IndexCodec
	engine      driven.VectorEngine
	embedder    driven.EmbeddingService
	batchSize   int
	parallelism int
	limiter     *rate.Limiter
	now         func() time.Time
}

// IndexOption configures an IndexStore.
type IndexOption func(*IndexStore)

// WithEmbedBatchSize sets how many passages are embedded per provider call.
func WithEmbedBatchSize(n int) IndexOption {
	return func(s *IndexStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithEmbedRate limits embedding calls to rps per second. Zero disables the limit.
func WithEmbedRate(rps int) IndexOption {
	return func(s *IndexStore) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithEmbedParallelism bounds concurrent embedding calls.
func WithEmbedParallelism(n int) IndexOption {
	return func(s *IndexStore) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// NewIndexStore creates an index store. The embedder may be nil, in which
// case Create fails and Load, Exists and Delete still work.
func NewIndexStore(
	blobs driven.IndexBlobStore,
	codec driven.IndexCodec,
	engine driven.VectorEngine,
	embedder driven.EmbeddingService,
	opts ...IndexOption,
) *IndexStore {
	s := &IndexStore{
		blobs:       blobs,
		codec:       codec,
		engine:      engine,
		embedder:    embedder,
		batchSize:   DefaultEmbedBatchSize,
		parallelism: DefaultEmbedParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of docID's index.
func (s *IndexStore) Key(docID string) string {
	return domain.IndexKey(docID)
}

// Create embeds every passage and stores the index under docID, replacing
// any previous index. Nothing is written unless every passage was embedded.
func (s *IndexStore) Create(ctx context.Context, passages []domain.Passage, docID string) error {
	if len(passages) == 0 {
		return domain.ErrEmptyExtraction
	}
	if s.embedder == nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexCreation, domain.ErrEmbeddingUnavailable)
	}

	logger.Debug("Indexing %d passages for document %s", len(passages), docID)

	indexed := make([]domain.Passage, len(passages))
	copy(indexed, passages)

	if err := s.embedAll(ctx, indexed); err != nil {
		return classify(domain.ErrIndexCreation, "embed passages", err)
	}

	// Building the set validates that every vector has the same length.
	if _, err := s.engine.Build(ctx, s.Key(docID), indexed); err != nil {
		return fmt.Errorf("%w: build vector set: %w", domain.ErrIndexCreation, err)
	}

	blob, err := s.codec.Encode(&domain.IndexData{
		DocID:      docID,
		CaseID:     indexed[0].CaseID,
		Model:      s.embedder.ModelName(),
		Dimensions: len(indexed[0].Embedding),
		CreatedAt:  s.now().UTC(),
		Passages:   indexed,
	})
	if err != nil {
		return fmt.Errorf("%w: encode index: %w", domain.ErrIndexCreation, err)
	}

	if err := s.blobs.Put(ctx, s.Key(docID), blob); err != nil {
		return fmt.Errorf("%w: store index: %w", domain.ErrIndexCreation, err)
	}

	logger.Info("Indexed document %s: %d passages, %d bytes", docID, len(indexed), len(blob))
	return nil
}

// embedAll fills in embeddings batch by batch.
func (s *IndexStore) embedAll(ctx context.Context, passages []domain.Passage) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for start := 0; start < len(passages); start += s.batchSize {
		batch := passages[start:min(start+s.batchSize, len(passages))]
		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Text
			}

			vectors, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("got %d embeddings for %d passages", len(vectors), len(batch))
			}
			for i := range batch {
				if len(vectors[i]) == 0 {
					return fmt.Errorf("empty embedding for passage %d", batch[i].Ordinal)
				}
				batch[i].Embedding = vectors[i]
			}
			return nil
		})
	}

	return g.Wait()
}

// Load returns docID's index, or nil when none exists.
func (s *IndexStore) Load(ctx context.Context, docID string) (*LoadedIndex, error) {
	blob, err := s.blobs.Get(ctx, s.Key(docID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", docID, err)
	}

	data, err := s.codec.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("decode index %s: %w", docID, err)
	}

	set, err := s.engine.Build(ctx, s.Key(docID), data.Passages)
	if err != nil {
		return nil, fmt.Errorf("build vector set %s: %w", docID, err)
	}

	return newLoadedIndex(data, set), nil
}

// Exists reports whether docID has an index without reading it.
func (s *IndexStore) Exists(ctx context.Context, docID string) (bool, error) {
	ok, err := s.blobs.Exists(ctx, s.Key(docID))
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", docID, err)
	}
	return ok, nil
}

// Delete removes docID's index. Returns true only if one was removed.
func (s *IndexStore) Delete(ctx context.Context, docID string) (bool, error) {
	removed, err := s.blobs.Delete(ctx, s.Key(docID))
	if err != nil {
		return false, fmt.Errorf("delete index %s: %w", docID, err)
	}
	if removed {
		logger.Debug("Deleted index for document %s", docID)
	}
	return removed, nil
}

// LoadedIndex is a read-only, searchable index. It is safe for concurrent use.
type LoadedIndex struct {
	DocID      string
	Model      string
	Dimensions int

	passages []domain.Passage
	byID     map[string]int
	set      driven.VectorSet
}

func newLoadedIndex(data *domain.IndexData, set driven.VectorSet) *LoadedIndex {
	byID := make(map[string]int, len(data.Passages))
	for i, p := range data.Passages {
		byID[p.ID] = i
	}
	return &LoadedIndex{
		DocID:      data.DocID,
		Model:      data.Model,
		Dimensions: data.Dimensions,
		passages:   data.Passages,
		byID:       byID,
		set:        set,
	}
}

// Len returns the number of indexed passages.
func (l *LoadedIndex) Len() int {
	return len(l.passages)
}

// Passages returns the indexed passages in ordinal order.
func (l *LoadedIndex) Passages() []domain.Passage {
	out := make([]domain.Passage, len(l.passages))
	copy(out, l.passages)
	return out
}

// Search returns up to k passages most similar to query, closest first.
// A query whose length differs from the indexed vectors fails with
// domain.ErrIndexOutdated.
func (l *LoadedIndex) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredPassage, error) {
	if l.Dimensions > 0 && len(query) != l.Dimensions {
		return nil, fmt.Errorf("%w: document %s has %d-dimension vectors from model %q, query has %d",
			domain.ErrIndexOutdated, l.DocID, l.Dimensions, l.Model, len(query))
	}

	hits, err := l.set.Nearest(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", l.DocID, err)
	}

	results := make([]domain.ScoredPassage, 0, len(hits))
	for _, h := range hits {
		i, ok := l.byID[h.ID]
		if !ok {
			continue
		}
		results = append(results, domain.ScoredPassage{Passage: l.passages[i], Similarity: h.Similarity})
	}
	return results, nil
}
