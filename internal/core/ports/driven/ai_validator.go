package driven

import "github.com/custodia-labs/lexrag/internal/core/domain"

// AIConfigValidator checks that configured providers are reachable.
// Unconfigured providers pass; failures wrap ErrEmbeddingUnavailable or
// ErrLLMUnavailable.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}
