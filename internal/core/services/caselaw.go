package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Ensure CaseRankingService implements the interface.
var _ driving.CaseRankingService = (*CaseRankingService)(nil)

// CaseRankingService orders candidate cases by similarity to a text.
type CaseRankingService struct {
	embedder driven.EmbeddingService
	engine   driven.VectorEngine
}

// NewCaseRankingService creates a case ranking service. embedder may be nil,
// in which case rankings degrade to the candidates' given order.
func NewCaseRankingService(embedder driven.EmbeddingService, engine driven.VectorEngine) *CaseRankingService {
	return &CaseRankingService{embedder: embedder, engine: engine}
}

// Rank returns up to limit candidates most similar to text. When similarity
// cannot be computed it returns the first limit candidates unranked with a warning.
func (s *CaseRankingService) Rank(
	ctx context.Context,
	text string,
	candidates []domain.CaseCandidate,
	limit int,
) (*domain.CaseRanking, error) {
	if limit <= 0 {
		limit = domain.DefaultCaseRankLimit
	}
	if len(candidates) == 0 {
		return &domain.CaseRanking{Cases: []domain.RankedCase{}, Ranked: true}, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty query text", domain.ErrInvalidInput)
	}

	ranked, err := s.rank(ctx, text, candidates, limit)
	if err != nil {
		logger.Warn("Case ranking unavailable, returning candidates unranked: %v", err)
		return unranked(candidates, limit), nil
	}
	return &domain.CaseRanking{Cases: ranked, Ranked: true}, nil
}

func (s *CaseRankingService) rank(
	ctx context.Context,
	text string,
	candidates []domain.CaseCandidate,
	limit int,
) ([]domain.RankedCase, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = strings.TrimSpace(c.Title + "\n" + c.Summary)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(vectors) != len(candidates) {
		return nil, fmt.Errorf("got %d embeddings for %d candidates", len(vectors), len(candidates))
	}

	passages := make([]domain.Passage, len(candidates))
	for i := range candidates {
		passages[i] = domain.Passage{
			ID:        strconv.Itoa(i),
			Ordinal:   i,
			Text:      texts[i],
			Embedding: vectors[i],
		}
	}

	set, err := s.engine.Build(ctx, "cases", passages)
	if err != nil {
		return nil, fmt.Errorf("build case set: %w", err)
	}
	hits, err := set.Nearest(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("rank cases: %w", err)
	}

	ranked := make([]domain.RankedCase, 0, len(hits))
	for _, h := range hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(candidates) {
			continue
		}
		ranked = append(ranked, domain.RankedCase{CaseCandidate: candidates[i], Similarity: h.Similarity})
	}
	return ranked, nil
}

// UnrankedWarning is set on rankings that fell back to the given order.
const UnrankedWarning = "Similarity ranking is unavailable; cases are listed in their original order."

func unranked(candidates []domain.CaseCandidate, limit int) *domain.CaseRanking {
	n := min(limit, len(candidates))
	cases := make([]domain.RankedCase, n)
	for i := range n {
		cases[i] = domain.RankedCase{CaseCandidate: candidates[i]}
	}
	return &domain.CaseRanking{
		Cases:   cases,
		Ranked:  false,
		Warning: UnrankedWarning,
	}
}
