package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

func TestSummarizer_Summarize(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "1", contractText)
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptSummaryBrief: "BRIEF:\n%s\nEND",
	}}
	summarizer := NewSummarizer(s.indexes, s.retriever, s.llm, prompts)

	summary, err := summarizer.Summarize(context.Background(), "1", domain.SummaryBrief)

	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	require.Equal(t, 1, s.llm.callCount())

	prompt := s.llm.lastMessages()[0].Content
	assert.True(t, strings.HasPrefix(prompt, "BRIEF:\n"))
	assert.True(t, strings.HasSuffix(prompt, "\nEND"))

	// Sampled passages keep reading order.
	first := strings.Index(prompt, "plaintiff alleges")
	last := strings.Index(prompt, "court awarded")
	assert.Greater(t, first, 0)
	assert.Greater(t, last, first)
}

func TestSummarizer_Summarize_UsesTypeTemplate(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "1", contractText)
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptSummaryBrief:     "brief %s",
		driven.PromptSummaryDetailed:  "detailed %s",
		driven.PromptSummaryKeyPoints: "points %s",
	}}
	summarizer := NewSummarizer(s.indexes, s.retriever, s.llm, prompts)

	for _, st := range domain.SummaryTypes() {
		_, err := summarizer.Summarize(context.Background(), "1", st)
		require.NoError(t, err)
	}

	require.Len(t, s.llm.messages, 3)
	assert.True(t, strings.HasPrefix(s.llm.messages[0][0].Content, "brief "))
	assert.True(t, strings.HasPrefix(s.llm.messages[1][0].Content, "detailed "))
	assert.True(t, strings.HasPrefix(s.llm.messages[2][0].Content, "points "))
}

func TestSummarizer_Summarize_Errors(t *testing.T) {
	s := newTestStack(t)

	_, err := s.summarizer.Summarize(context.Background(), "1", "long")
	assert.ErrorIs(t, err, domain.ErrInvalidSummaryType)

	_, err = s.summarizer.Summarize(context.Background(), "1", domain.SummaryBrief)
	assert.ErrorIs(t, err, domain.ErrDocumentNotIndexed)

	assert.Zero(t, s.llm.callCount())
}

func TestSummarizer_SummarizeMany(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "A", contractText)
	s.index(t, "B", hearingText)
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptSummaryCombined:  "Across %d documents.",
		driven.PromptSummaryKeyPoints: "Points:\n%s",
	}}
	summarizer := NewSummarizer(s.indexes, s.retriever, s.llm, prompts)

	summary, err := summarizer.SummarizeMany(context.Background(), []string{"A", "B"}, domain.SummaryKeyPoints)

	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	prompt := s.llm.lastMessages()[0].Content
	assert.True(t, strings.HasPrefix(prompt, "Across 2 documents.\n\nPoints:\n"))
	assert.Less(t, strings.Index(prompt, "=== Document A ==="), strings.Index(prompt, "=== Document B ==="))
	assert.Contains(t, prompt, "joint custody")
	assert.Contains(t, prompt, "breach of contract")
}

func TestSummarizer_SummarizeMany_Errors(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "A", contractText)

	_, err := s.summarizer.SummarizeMany(context.Background(), nil, domain.SummaryBrief)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = s.summarizer.SummarizeMany(context.Background(), []string{"A"}, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidSummaryType)

	_, err = s.summarizer.SummarizeMany(context.Background(), []string{"A", "B"}, domain.SummaryBrief)
	assert.ErrorIs(t, err, domain.ErrDocumentNotIndexed)

	assert.Zero(t, s.llm.callCount())
}

func TestJoinInDocumentOrder(t *testing.T) {
	passages := []domain.ScoredPassage{
		{Passage: domain.Passage{Ordinal: 2, Text: "c"}, Similarity: 0.9},
		{Passage: domain.Passage{Ordinal: 0, Text: "a"}, Similarity: 0.5},
		{Passage: domain.Passage{Ordinal: 1, Text: "b"}, Similarity: 0.7},
	}

	assert.Equal(t, "a\n\nb\n\nc", joinInDocumentOrder(passages))
	assert.Equal(t, 2, passages[0].Ordinal, "input is not reordered")
}
