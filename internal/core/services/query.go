package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers questions about indexed documents.
type QueryService struct {
	indexes      *IndexStore
	orchestrator *Orchestrator
}

// NewQueryService creates a query service.
func NewQueryService(indexes *IndexStore, orchestrator *Orchestrator) *QueryService {
	return &QueryService{indexes: indexes, orchestrator: orchestrator}
}

// Ask answers question from docID. It fails with domain.ErrDocumentNotIndexed
// before any provider call when docID has no index.
func (s *QueryService) Ask(ctx context.Context, question, docID string) (*domain.AskResult, error) {
	if err := s.requireIndexed(ctx, docID); err != nil {
		return nil, err
	}

	logger.Section("Ask " + docID)

	state, err := s.orchestrator.Run(ctx, question, docID)
	if err != nil {
		return nil, fmt.Errorf("ask document %s: %w", docID, err)
	}

	return &domain.AskResult{
		Answer:  state.Answer,
		Sources: countSources(state.Passages),
	}, nil
}

// AskMany answers question from several documents. Duplicate ids are
// ignored and the first id is reported as the primary document.
func (s *QueryService) AskMany(ctx context.Context, question string, docIDs []string) (*domain.AskResult, error) {
	ids := dedupe(docIDs)
	if len(ids) == 0 {
		return nil, domain.ErrEmptyInput
	}
	for _, id := range ids {
		if err := s.requireIndexed(ctx, id); err != nil {
			return nil, err
		}
	}

	logger.Section(fmt.Sprintf("Ask %d documents", len(ids)))

	state, err := s.orchestrator.RunMany(ctx, question, ids)
	if err != nil {
		return nil, fmt.Errorf("ask %d documents: %w", len(ids), err)
	}

	return &domain.AskResult{
		Answer:       state.Answer,
		PrimaryDocID: ids[0],
		Sources:      countSources(state.Passages),
	}, nil
}

func (s *QueryService) requireIndexed(ctx context.Context, docID string) error {
	ok, err := s.indexes.Exists(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotIndexed, docID)
	}
	return nil
}

func countSources(passages []domain.ScoredPassage) map[string]int {
	if len(passages) == 0 {
		return nil
	}
	sources := make(map[string]int)
	for _, p := range passages {
		sources[p.DocID]++
	}
	return sources
}

// dedupe drops empty and repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
