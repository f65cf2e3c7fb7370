package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Retrieval defaults.
const (
	DefaultK                = 4
	DefaultKPerDoc          = 3
	DefaultRetrievalTimeout = 30 * time.Second
)

// Retriever finds the passages most similar to a question.
type Retriever struct {
	indexes  *IndexStore
	embedder driven.EmbeddingService
	timeout  time.Duration
}

// NewRetriever creates a retriever. A zero timeout uses DefaultRetrievalTimeout.
func NewRetriever(indexes *IndexStore, embedder driven.EmbeddingService, timeout time.Duration) *Retriever {
	if timeout <= 0 {
		timeout = DefaultRetrievalTimeout
	}
	return &Retriever{indexes: indexes, embedder: embedder, timeout: timeout}
}

// Retrieve returns up to k passages of docID, most similar first.
// An absent index yields no passages and no error.
func (r *Retriever) Retrieve(ctx context.Context, question, docID string, k int) ([]domain.ScoredPassage, error) {
	if k <= 0 {
		k = DefaultK
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	idx, err := r.indexes.Load(ctx, docID)
	if err != nil {
		return nil, retrievalError(ctx, err)
	}
	if idx == nil {
		logger.Debug("No index for document %s", docID)
		return []domain.ScoredPassage{}, nil
	}

	query, err := r.embedQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	passages, err := idx.Search(ctx, query, k)
	if err != nil {
		return nil, retrievalError(ctx, err)
	}

	logger.Debug("Retrieved %d passages from document %s", len(passages), docID)
	return passages, nil
}

// RetrieveMany returns up to kPerDoc passages from each document, grouped
// by document in docIDs order. Absent indexes contribute nothing.
func (r *Retriever) RetrieveMany(
	ctx context.Context,
	question string,
	docIDs []string,
	kPerDoc int,
) ([]domain.ScoredPassage, error) {
	if kPerDoc <= 0 {
		kPerDoc = DefaultKPerDoc
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	loaded := make([]*LoadedIndex, len(docIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range docIDs {
		g.Go(func() error {
			idx, err := r.indexes.Load(gctx, id)
			if err != nil {
				return err
			}
			loaded[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, retrievalError(ctx, err)
	}

	present := 0
	for _, idx := range loaded {
		if idx != nil {
			present++
		}
	}
	if present == 0 {
		return []domain.ScoredPassage{}, nil
	}

	query, err := r.embedQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	groups := make([][]domain.ScoredPassage, len(loaded))
	g, gctx = errgroup.WithContext(ctx)
	for i, idx := range loaded {
		if idx == nil {
			continue
		}
		g.Go(func() error {
			found, err := idx.Search(gctx, query, kPerDoc)
			if err != nil {
				return err
			}
			groups[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, retrievalError(ctx, err)
	}

	var passages []domain.ScoredPassage
	for _, group := range groups {
		passages = append(passages, group...)
	}

	logger.Debug("Retrieved %d passages from %d of %d documents", len(passages), present, len(docIDs))
	return passages, nil
}

func (r *Retriever) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query, err := r.embedder.Embed(ctx, question)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return nil, classify(domain.ErrEmbeddingUnavailable, "embed question", err)
	}
	return query, nil
}

// retrievalError marks err as a timeout when the retrieval deadline passed.
func retrievalError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: retrieve: %w", domain.ErrProviderTimeout, err)
	}
	return fmt.Errorf("retrieve: %w", err)
}
