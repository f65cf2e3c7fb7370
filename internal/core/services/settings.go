package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTemperature    = "llm.temperature"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyRetrievalK        = "retrieval.k"
	keyRetrievalKPerDoc  = "retrieval.k_per_doc"
	keyRetrievalTimeout  = "retrieval.timeout_seconds"
	keyGenerationTimeout = "generation.timeout_seconds"
	keyIndexBackend      = "index.backend"
	keyIndexDir          = "index.dir"
	keyIndexBatchSize    = "index.embed_batch_size"
	keyIndexEmbedRPS     = "index.embed_rps"
	keyS3Bucket          = "index.s3.bucket"
	keyS3Region          = "index.s3.region"
	keyS3Endpoint        = "index.s3.endpoint"
	keyS3AccessKey       = "index.s3.access_key"
	keyS3SecretKey       = "index.s3.secret_key"
	keyS3Prefix          = "index.s3.prefix"
	keyRedisURL          = "index.redis.url"
	keyMetadataBackend   = "metadata.backend"
	keyMongoURI          = "metadata.mongo_uri"
	keyMongoDatabase     = "metadata.mongo_database"
	keyUploadDir         = "storage.upload_dir"
)

// APIKeyEnv returns the environment variable holding provider's API key.
func APIKeyEnv(provider domain.AIProvider) string {
	return "LEXRAG_" + strings.ToUpper(provider.String()) + "_API_KEY"
}

type setting struct {
	key   string
	value any
}

// parser validates a raw value and converts it to the stored type.
type parser func(string) (any, error)

var settingParsers = map[string]parser{
	keyEmbedProvider:     parseEmbeddingProvider,
	keyEmbedModel:        parseString,
	keyEmbedBaseURL:      parseString,
	keyEmbedAPIKey:       parseString,
	keyLLMProvider:       parseLLMProvider,
	keyLLMModel:          parseString,
	keyLLMBaseURL:        parseString,
	keyLLMAPIKey:         parseString,
	keyLLMTemperature:    parseTemperature,
	keyLLMMaxTokens:      parseNonNegativeInt,
	keyChunkSize:         parsePositiveInt,
	keyChunkOverlap:      parseNonNegativeInt,
	keyRetrievalK:        parsePositiveInt,
	keyRetrievalKPerDoc:  parsePositiveInt,
	keyRetrievalTimeout:  parsePositiveInt,
	keyGenerationTimeout: parsePositiveInt,
	keyIndexBackend:      parseIndexBackend,
	keyIndexDir:          parseString,
	keyIndexBatchSize:    parsePositiveInt,
	keyIndexEmbedRPS:     parseNonNegativeInt,
	keyS3Bucket:          parseString,
	keyS3Region:          parseString,
	keyS3Endpoint:        parseString,
	keyS3AccessKey:       parseString,
	keyS3SecretKey:       parseString,
	keyS3Prefix:          parseString,
	keyRedisURL:          parseString,
	keyMetadataBackend:   parseMetadataBackend,
	keyMongoURI:          parseString,
	keyMongoDatabase:     parseString,
	keyUploadDir:         parseString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Empty API keys are filled
// from the provider's environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: embedProvider,
			Model:    s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.apiKey(keyEmbedAPIKey, embedProvider),
		},
		LLM: domain.LLMSettings{
			Provider:    llmProvider,
			Model:       s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.apiKey(keyLLMAPIKey, llmProvider),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			K:       s.getInt(keyRetrievalK, defaults.Retrieval.K),
			KPerDoc: s.getInt(keyRetrievalKPerDoc, defaults.Retrieval.KPerDoc),
			Timeout: s.getSeconds(keyRetrievalTimeout, defaults.Retrieval.Timeout),
		},
		Generation: domain.GenerationSettings{
			Timeout: s.getSeconds(keyGenerationTimeout, defaults.Generation.Timeout),
		},
		Index: domain.IndexSettings{
			Backend:        s.getIndexBackend(defaults.Index.Backend),
			Dir:            s.configStore.GetString(keyIndexDir),
			EmbedBatchSize: s.getInt(keyIndexBatchSize, defaults.Index.EmbedBatchSize),
			EmbedRPS:       s.configStore.GetInt(keyIndexEmbedRPS),
			S3: domain.S3Settings{
				Bucket:    s.configStore.GetString(keyS3Bucket),
				Region:    s.configStore.GetString(keyS3Region),
				Endpoint:  s.configStore.GetString(keyS3Endpoint),
				AccessKey: s.configStore.GetString(keyS3AccessKey),
				SecretKey: s.configStore.GetString(keyS3SecretKey),
				Prefix:    s.configStore.GetString(keyS3Prefix),
			},
			RedisURL: s.configStore.GetString(keyRedisURL),
		},
		Metadata: domain.MetadataSettings{
			Backend:       s.getMetadataBackend(defaults.Metadata.Backend),
			MongoURI:      s.configStore.GetString(keyMongoURI),
			MongoDatabase: s.getString(keyMongoDatabase, defaults.Metadata.MongoDatabase),
		},
		UploadDir: s.configStore.GetString(keyUploadDir),
	}

	return settings, nil
}

// Save persists application settings. Empty API keys and secrets are not
// written so that keys held in the environment never reach the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []setting{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyRetrievalK, settings.Retrieval.K},
		{keyRetrievalKPerDoc, settings.Retrieval.KPerDoc},
		{keyRetrievalTimeout, int(settings.Retrieval.Timeout / time.Second)},
		{keyGenerationTimeout, int(settings.Generation.Timeout / time.Second)},
		{keyIndexBackend, string(settings.Index.Backend)},
		{keyIndexDir, settings.Index.Dir},
		{keyIndexBatchSize, settings.Index.EmbedBatchSize},
		{keyIndexEmbedRPS, settings.Index.EmbedRPS},
		{keyS3Bucket, settings.Index.S3.Bucket},
		{keyS3Region, settings.Index.S3.Region},
		{keyS3Endpoint, settings.Index.S3.Endpoint},
		{keyS3Prefix, settings.Index.S3.Prefix},
		{keyRedisURL, settings.Index.RedisURL},
		{keyMetadataBackend, string(settings.Metadata.Backend)},
		{keyMongoURI, settings.Metadata.MongoURI},
		{keyMongoDatabase, settings.Metadata.MongoDatabase},
		{keyUploadDir, settings.UploadDir},
	}

	for _, secret := range []setting{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyS3AccessKey, settings.Index.S3.AccessKey},
		{keyS3SecretKey, settings.Index.S3.SecretKey},
	} {
		if secret.value != "" {
			values = append(values, secret)
		}
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set validates and stores a single setting given in its text form.
func (s *SettingsService) Set(key, value string) error {
	parse, ok := settingParsers[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingParsers))
	for k := range settingParsers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ValidateProviders checks both providers are configured and, when a
// validator is set, reachable.
func (s *SettingsService) ValidateProviders() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured", domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured", domain.ErrLLMUnavailable, settings.LLM.Provider)
	}

	if s.aiValidator == nil {
		return nil
	}
	if err := s.aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat treats an explicit zero as a value, not as unset.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getIndexBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	backend := domain.IndexBackend(s.configStore.GetString(keyIndexBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getMetadataBackend(defaultVal domain.MetadataBackend) domain.MetadataBackend {
	backend := domain.MetadataBackend(s.configStore.GetString(keyMetadataBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	if !provider.RequiresAPIKey() || s.getenv == nil {
		return ""
	}
	return s.getenv(APIKeyEnv(provider))
}

// Value parsers for Set.

func parseString(v string) (any, error) {
	return v, nil
}

func parsePositiveInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", v)
	}
	if n <= 0 {
		return nil, fmt.Errorf("must be greater than zero, got %d", n)
	}
	return n, nil
}

func parseNonNegativeInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", v)
	}
	if n < 0 {
		return nil, fmt.Errorf("must not be negative, got %d", n)
	}
	return n, nil
}

func parseTemperature(v string) (any, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", v)
	}
	if f < 0 || f > 2 {
		return nil, fmt.Errorf("must be between 0 and 2, got %g", f)
	}
	return f, nil
}

func parseEmbeddingProvider(v string) (any, error) {
	p := domain.AIProvider(v)
	if !slices.Contains(domain.AllEmbeddingProviders(), p) {
		return nil, fmt.Errorf("unsupported embedding provider %q", v)
	}
	return v, nil
}

func parseLLMProvider(v string) (any, error) {
	p := domain.AIProvider(v)
	if !slices.Contains(domain.AllLLMProviders(), p) {
		return nil, fmt.Errorf("unsupported llm provider %q", v)
	}
	return v, nil
}

func parseIndexBackend(v string) (any, error) {
	if !domain.IndexBackend(v).IsValid() {
		return nil, fmt.Errorf("unknown index backend %q", v)
	}
	return v, nil
}

func parseMetadataBackend(v string) (any, error) {
	if !domain.MetadataBackend(v).IsValid() {
		return nil, fmt.Errorf("unknown metadata backend %q", v)
	}
	return v, nil
}
