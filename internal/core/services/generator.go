package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// FallbackAnswer is returned when no passages were retrieved.
const FallbackAnswer = "I couldn't find relevant information in the document to answer your question. " +
	"Please try rephrasing or ask a different question."

// Generation defaults.
const (
	DefaultTemperature       = 0.3
	DefaultGenerationTimeout = 120 * time.Second
)

// AnswerGenerator turns retrieved passages and a question into an answer.
type AnswerGenerator struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// GeneratorOption configures an AnswerGenerator or Summarizer.
type GeneratorOption func(*generationConfig)

type generationConfig struct {
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func newGenerationConfig(opts []GeneratorOption) generationConfig {
	cfg := generationConfig{
		temperature: DefaultTemperature,
		timeout:     DefaultGenerationTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GeneratorOption {
	return func(c *generationConfig) {
		if t >= 0 {
			c.temperature = t
		}
	}
}

// WithMaxTokens caps the generated length. Zero keeps the provider default.
func WithMaxTokens(n int) GeneratorOption {
	return func(c *generationConfig) {
		if n >= 0 {
			c.maxTokens = n
		}
	}
}

// WithGenerationTimeout bounds each LLM call.
func WithGenerationTimeout(d time.Duration) GeneratorOption {
	return func(c *generationConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewAnswerGenerator creates an answer generator. prompts may be nil.
func NewAnswerGenerator(llm driven.LLMService, prompts driven.PromptStore, opts ...GeneratorOption) *AnswerGenerator {
	cfg := newGenerationConfig(opts)
	return &AnswerGenerator{
		llm:         llm,
		prompts:     prompts,
		temperature: cfg.temperature,
		maxTokens:   cfg.maxTokens,
		timeout:     cfg.timeout,
	}
}

// Generate answers question from passages only. With no passages it returns
// FallbackAnswer without calling the model.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, passages []domain.Passage) (string, error) {
	if len(passages) == 0 {
		logger.Debug("No passages retrieved, returning fallback answer")
		return FallbackAnswer, nil
	}

	multi := spansDocuments(passages)
	system := fill(loadPrompt(g.prompts, driven.PromptAnswerSystem, fallbackAnswerPrompt), "%s", buildContext(passages, multi))
	if multi {
		system += "\n\n" + loadPrompt(g.prompts, driven.PromptAnswerMultiDoc, fallbackMultiDocPrompt)
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: question},
	}

	logger.Debug("Generating answer from %d passages (multi-document: %t)", len(passages), multi)
	return chat(ctx, g.llm, g.timeout, messages, driven.ChatOptions{
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
}

// buildContext joins passage texts with blank lines in retrieval order.
// Passages are labelled with their document when labelled is set.
func buildContext(passages []domain.Passage, labelled bool) string {
	var sb strings.Builder
	for i, p := range passages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if labelled {
			sb.WriteString("[Document ")
			sb.WriteString(p.DocID)
			sb.WriteString("]\n")
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func spansDocuments(passages []domain.Passage) bool {
	for _, p := range passages[1:] {
		if p.DocID != passages[0].DocID {
			return true
		}
	}
	return false
}
