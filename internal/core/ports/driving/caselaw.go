package driving

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// CaseRankingService ranks candidate precedents by similarity to a text.
type CaseRankingService interface {
	// Rank returns up to limit candidates most similar to text.
	// When ranking is impossible the leading candidates are returned unranked.
	Rank(ctx context.Context, text string, candidates []domain.CaseCandidate, limit int) (*domain.CaseRanking, error)
}
