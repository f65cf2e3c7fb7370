package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// classify wraps a provider failure in class and, when the provider ran out
// of time, in domain.ErrProviderTimeout as well.
func classify(class error, what string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %s: %w", class, domain.ErrProviderTimeout, what, err)
	}
	return fmt.Errorf("%w: %s: %w", class, what, err)
}

// chat runs one LLM call under timeout and classifies failures as
// generation errors. Empty responses are failures too.
func chat(
	ctx context.Context,
	llm driven.LLMService,
	timeout time.Duration,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (string, error) {
	if llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrLLMUnavailable)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := llm.Chat(ctx, messages, opts)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return "", classify(domain.ErrGeneration, "chat", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty response from %s", domain.ErrGeneration, llm.ModelName())
	}
	return out, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// fill substitutes the first verb in tmpl with value. Templates edited by
// users may lose the verb, in which case value is appended.
func fill(tmpl, verb, value string) string {
	if strings.Contains(tmpl, verb) {
		return strings.Replace(tmpl, verb, value, 1)
	}
	return tmpl + "\n\n" + value
}

// Fallback prompts used when no PromptStore is configured.
const (
	fallbackAnswerPrompt = `You are a helpful legal assistant analysing court documents.
Answer the question based ONLY on the provided context. If the context is not
enough, say so clearly. Be precise, cite specific details and keep a
professional tone.

Context from document:
%s`

	fallbackMultiDocPrompt = `The context comes from several documents. Each passage is labelled with the document it came from.
When a fact comes from a specific document, name that document in your answer.`

	fallbackSummaryPrompt = `Summarise the following legal document text.

Text to summarise:
%s`

	fallbackCombinedPrompt = `The following text is drawn from %d related documents of the same matter.`
)
