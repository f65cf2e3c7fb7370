package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Summary sampling. Long documents are summarised from the SummarySampleK
// passages closest to SummaryQuery rather than from their full text.
const (
	SummaryQuery           = "document content"
	SummarySampleK         = 30
	MinSummarySamplePerDoc = 5
)

var summaryPrompts = map[domain.SummaryType]string{
	domain.SummaryBrief:     driven.PromptSummaryBrief,
	domain.SummaryDetailed:  driven.PromptSummaryDetailed,
	domain.SummaryKeyPoints: driven.PromptSummaryKeyPoints,
}

// Summarizer produces summaries of one or several indexed documents.
// It does not cache; see SummaryService.
type Summarizer struct {
	indexes     *IndexStore
	retriever   *Retriever
	llm         driven.LLMService
	prompts     driven.PromptStore
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewSummarizer creates a summarizer. prompts may be nil.
func NewSummarizer(
	indexes *IndexStore,
	retriever *Retriever,
	llm driven.LLMService,
	prompts driven.PromptStore,
	opts ...GeneratorOption,
) *Summarizer {
	cfg := newGenerationConfig(opts)
	return &Summarizer{
		indexes:     indexes,
		retriever:   retriever,
		llm:         llm,
		prompts:     prompts,
		temperature: cfg.temperature,
		maxTokens:   cfg.maxTokens,
		timeout:     cfg.timeout,
	}
}

// Summarize summarises one document.
func (s *Summarizer) Summarize(ctx context.Context, docID string, summaryType domain.SummaryType) (string, error) {
	if !summaryType.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSummaryType, summaryType)
	}
	if err := s.requireIndexed(ctx, docID); err != nil {
		return "", err
	}

	passages, err := s.retriever.Retrieve(ctx, SummaryQuery, docID, SummarySampleK)
	if err != nil {
		return "", err
	}
	if len(passages) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotIndexed, docID)
	}

	text := joinInDocumentOrder(passages)
	prompt := fill(s.template(summaryType), "%s", text)

	logger.Debug("Summarising document %s (%s) from %d passages", docID, summaryType, len(passages))
	return s.generate(ctx, prompt)
}

// SummarizeMany summarises several documents as one body of material.
func (s *Summarizer) SummarizeMany(ctx context.Context, docIDs []string, summaryType domain.SummaryType) (string, error) {
	if len(docIDs) == 0 {
		return "", domain.ErrEmptyInput
	}
	if !summaryType.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSummaryType, summaryType)
	}
	for _, id := range docIDs {
		if err := s.requireIndexed(ctx, id); err != nil {
			return "", err
		}
	}

	perDoc := max(MinSummarySamplePerDoc, SummarySampleK/len(docIDs))
	passages, err := s.retriever.RetrieveMany(ctx, SummaryQuery, docIDs, perDoc)
	if err != nil {
		return "", err
	}

	byDoc := make(map[string][]domain.ScoredPassage, len(docIDs))
	for _, p := range passages {
		byDoc[p.DocID] = append(byDoc[p.DocID], p)
	}

	var sb strings.Builder
	for _, id := range docIDs {
		group := byDoc[id]
		if len(group) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("=== Document " + id + " ===\n")
		sb.WriteString(joinInDocumentOrder(group))
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no passages in %d documents", domain.ErrDocumentNotIndexed, len(docIDs))
	}

	header := loadPrompt(s.prompts, driven.PromptSummaryCombined, fallbackCombinedPrompt)
	header = strings.Replace(header, "%d", strconv.Itoa(len(docIDs)), 1)
	prompt := header + "\n\n" + fill(s.template(summaryType), "%s", sb.String())

	logger.Debug("Summarising %d documents (%s) from %d passages", len(docIDs), summaryType, len(passages))
	return s.generate(ctx, prompt)
}

func (s *Summarizer) requireIndexed(ctx context.Context, docID string) error {
	ok, err := s.indexes.Exists(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotIndexed, docID)
	}
	return nil
}

func (s *Summarizer) template(summaryType domain.SummaryType) string {
	return loadPrompt(s.prompts, summaryPrompts[summaryType], fallbackSummaryPrompt)
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	return chat(ctx, s.llm, s.timeout, []driven.ChatMessage{
		{Role: driven.RoleUser, Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
}

// joinInDocumentOrder joins sampled passages in reading order.
func joinInDocumentOrder(passages []domain.ScoredPassage) string {
	ordered := slices.Clone(passages)
	slices.SortFunc(ordered, func(a, b domain.ScoredPassage) int {
		return a.Ordinal - b.Ordinal
	})

	texts := make([]string, len(ordered))
	for i, p := range ordered {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
