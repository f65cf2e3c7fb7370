package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini through its OpenAI-compatible endpoint.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or a compatible gateway).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or a compatible gateway).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Temperature controls randomness of answers and summaries.
	Temperature float64

	// MaxTokens caps the generated length, zero leaves the provider default.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls passage size.
type ChunkingSettings struct {
	// Size is the maximum passage length in characters.
	Size int

	// Overlap is the maximum number of characters shared by consecutive passages.
	Overlap int
}

// RetrievalSettings controls how many passages feed an answer.
type RetrievalSettings struct {
	// K is the number of passages for single-document questions.
	K int

	// KPerDoc is the number of passages per document for multi-document questions.
	KPerDoc int

	// Timeout bounds retrieval including the query embedding.
	Timeout time.Duration
}

// GenerationSettings bounds calls to the LLM.
type GenerationSettings struct {
	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// IndexBackend selects where index blobs are stored.
type IndexBackend string

// Available index backends.
const (
	IndexBackendFile   IndexBackend = "file"
	IndexBackendSQLite IndexBackend = "sqlite"
	IndexBackendS3     IndexBackend = "s3"
	IndexBackendRedis  IndexBackend = "redis"
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendFile, IndexBackendSQLite, IndexBackendS3, IndexBackendRedis, IndexBackendMemory:
		return true
	default:
		return false
	}
}

// S3Settings locates index blobs in an S3-compatible bucket.
type S3Settings struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// IndexSettings holds index storage configuration.
type IndexSettings struct {
	// Backend selects the blob store.
	Backend IndexBackend

	// Dir is the directory used by the file backend.
	Dir string

	// EmbedBatchSize is how many passages are embedded per provider call.
	EmbedBatchSize int

	// EmbedRPS limits embedding requests per second, zero means unlimited.
	EmbedRPS int

	// S3 configures the s3 backend.
	S3 S3Settings

	// RedisURL configures the redis backend.
	RedisURL string
}

// MetadataBackend selects where document records are stored.
type MetadataBackend string

// Available metadata backends.
const (
	MetadataBackendSQLite MetadataBackend = "sqlite"
	MetadataBackendMongo  MetadataBackend = "mongo"
	MetadataBackendMemory MetadataBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b MetadataBackend) IsValid() bool {
	switch b {
	case MetadataBackendSQLite, MetadataBackendMongo, MetadataBackendMemory:
		return true
	default:
		return false
	}
}

// MetadataSettings holds document record storage configuration.
type MetadataSettings struct {
	Backend       MetadataBackend
	MongoURI      string
	MongoDatabase string
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Chunking   ChunkingSettings
	Retrieval  RetrievalSettings
	Generation GenerationSettings
	Index      IndexSettings
	Metadata   MetadataSettings

	// UploadDir is where uploaded files are kept.
	UploadDir string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       "llama3.2",
			Temperature: 0.3,
		},
		Chunking: ChunkingSettings{
			Size:    1200,
			Overlap: 200,
		},
		Retrieval: RetrievalSettings{
			K:       4,
			KPerDoc: 3,
			Timeout: 30 * time.Second,
		},
		Generation: GenerationSettings{
			Timeout: 120 * time.Second,
		},
		Index: IndexSettings{
			Backend:        IndexBackendFile,
			EmbedBatchSize: 32,
		},
		Metadata: MetadataSettings{
			Backend:       MetadataBackendSQLite,
			MongoDatabase: "court_docs_db",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}
