package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestSummaryService_CachesPerType(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	require.NoError(t, s.docs.Save(ctx, &domain.DocumentRecord{ID: "1", Filename: "a.txt"}))
	s.index(t, "1", contractText)
	s.llm.response = "A contract dispute."

	first, err := s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "A contract dispute.", first.Summary)

	second, err := s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 1, s.llm.callCount(), "second request is served from the cache")

	_, err = s.summary.Summarize(ctx, "1", domain.SummaryDetailed)
	require.NoError(t, err)
	assert.Equal(t, 2, s.llm.callCount(), "each type is cached separately")

	record, err := s.docs.Get(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, record.Summaries, 2)
}

func TestSummaryService_Invalidate(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	require.NoError(t, s.docs.Save(ctx, &domain.DocumentRecord{ID: "1", Filename: "a.txt"}))
	s.index(t, "1", contractText)

	_, err := s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	require.NoError(t, err)
	require.NoError(t, s.summary.Invalidate(ctx, "1"))

	result, err := s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, s.llm.callCount())
}

func TestSummaryService_NoRecordIsNotCached(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	s.index(t, "1", contractText)

	_, err := s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	require.NoError(t, err)
	_, err = s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	require.NoError(t, err)

	assert.Equal(t, 2, s.llm.callCount())
}

func TestSummaryService_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)

	_, err := s.summary.Summarize(ctx, "1", "verbose")
	assert.ErrorIs(t, err, domain.ErrInvalidSummaryType)

	_, err = s.summary.Summarize(ctx, "1", domain.SummaryBrief)
	assert.ErrorIs(t, err, domain.ErrDocumentNotIndexed)
}

func TestSummaryService_SummarizeMany_NotCached(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	require.NoError(t, s.docs.Save(ctx, &domain.DocumentRecord{ID: "A", Filename: "a.txt"}))
	s.index(t, "A", contractText)
	s.index(t, "B", hearingText)

	for range 2 {
		result, err := s.summary.SummarizeMany(ctx, []string{"A", "B", "A"}, domain.SummaryBrief)
		require.NoError(t, err)
		assert.False(t, result.Cached)
		assert.Equal(t, []string{"A", "B"}, result.DocIDs)
	}
	assert.Equal(t, 2, s.llm.callCount())

	record, err := s.docs.Get(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, record.Summaries)
}
