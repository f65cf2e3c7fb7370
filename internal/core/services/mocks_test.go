package services

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/adapters/driven/codec/msgpack"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/lexrag/internal/chunker"
	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/extractors"
)

// --- Mock implementations ---

const mockDims = 64

// mockEmbeddingService implements driven.EmbeddingService with bag-of-words
// vectors, so texts sharing words are similar.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	batchErr   error
	short      bool
	embedCalls int
	batchCalls int
	batchSizes []int
}

func embedText(text string) []float32 {
	v := make([]float32, mockDims)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%(mockDims-1)]++
	}
	// Bias dimension keeps every vector non-zero.
	v[mockDims-1] = 0.1
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return embedText(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	m.mu.Unlock()
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	n := len(texts)
	if m.short && n > 0 {
		n--
	}
	result := make([][]float32, n)
	for i := range result {
		result[i] = embedText(texts[i])
	}
	return result, nil
}

func (m *mockEmbeddingService) calls() (embed, batch int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls, m.batchCalls
}

func (m *mockEmbeddingService) Dimensions() int {
	return mockDims
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService and records every call.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	chatErr  error
	block    bool
	calls    int
	messages [][]driven.ChatMessage
	options  []driven.ChatOptions
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions(opts))
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = append(m.messages, messages)
	m.options = append(m.options, opts)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if m.response != "" {
		return m.response, nil
	}
	return "The court granted the motion.", nil
}

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockLLMService) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore from a map.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", os.ErrNotExist
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockExtractorRegistry implements driven.ExtractorRegistry with fixed blocks.
type mockExtractorRegistry struct {
	blocks     []domain.TextBlock
	extractErr error
	calls      int
}

func (m *mockExtractorRegistry) Supports(ext string) bool {
	return ext == ".pdf" || ext == ".txt"
}

func (m *mockExtractorRegistry) Extract(_ context.Context, _, _ string) ([]domain.TextBlock, error) {
	m.calls++
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.blocks, nil
}

func (m *mockExtractorRegistry) Extensions() []string {
	return []string{".pdf", ".txt"}
}

// mockBlobStore wraps the memory store and can fail on demand.
type mockBlobStore struct {
	*memory.BlobStore
	putErr    error
	getErr    error
	existsErr error
	puts      int
}

func (m *mockBlobStore) Put(ctx context.Context, key string, blob []byte) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	return m.BlobStore.Put(ctx, key, blob)
}

func (m *mockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.BlobStore.Get(ctx, key)
}

func (m *mockBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.BlobStore.Exists(ctx, key)
}

// mockConfigStore implements driven.ConfigStore over a map.
type mockConfigStore struct {
	data   map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	s, _ := m.data[key].([]string)
	return s
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "mock://config.toml" }

// mockAIValidator implements driven.AIConfigValidator.
type mockAIValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

// --- Test helpers ---

// testStack wires every service over in-memory adapters and mock providers.
type testStack struct {
	blobs    *mockBlobStore
	docs     *memory.DocumentStore
	embedder *mockEmbeddingService
	llm      *mockLLMService

	indexes    *IndexStore
	retriever  *Retriever
	generator  *AnswerGenerator
	summarizer *Summarizer
	ingest     *IngestService
	query      *QueryService
	summary    *SummaryService
	documents  *DocumentService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	s := &testStack{
		blobs:    &mockBlobStore{BlobStore: memory.NewBlobStore()},
		docs:     memory.NewDocumentStore(),
		embedder: &mockEmbeddingService{},
		llm:      &mockLLMService{},
	}

	s.indexes = NewIndexStore(s.blobs, msgpack.New(), chromem.New(), s.embedder, WithEmbedBatchSize(4))
	s.retriever = NewRetriever(s.indexes, s.embedder, 0)
	s.generator = NewAnswerGenerator(s.llm, nil)
	s.summarizer = NewSummarizer(s.indexes, s.retriever, s.llm, nil)
	s.ingest = NewIngestService(extractors.DefaultRegistry(),
		chunker.New(chunker.WithChunkSize(100), chunker.WithOverlap(20)), s.indexes, s.docs)
	s.query = NewQueryService(s.indexes, NewOrchestrator(s.retriever, s.generator, 0, 0))
	s.summary = NewSummaryService(s.summarizer, s.docs)
	s.documents = NewDocumentService(extractors.DefaultRegistry(), s.docs, s.ingest, s.indexes, filepath.Join(t.TempDir(), "uploads"))
	return s
}

// index ingests text as a .txt document under docID.
func (s *testStack) index(t *testing.T, docID, text string) {
	t.Helper()
	path := writeFile(t, docID+".txt", text)
	ok, err := s.ingest.IndexDocument(context.Background(), path, docID, "")
	require.NoError(t, err)
	require.True(t, ok)
}

// writeFile writes content to a new file in a temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// testPassages returns n embedded-ready passages of docID.
func testPassages(docID string, texts ...string) []domain.Passage {
	passages := make([]domain.Passage, len(texts))
	for i, text := range texts {
		passages[i] = domain.Passage{
			ID:      docID + "-" + string(rune('a'+i)),
			DocID:   docID,
			Ordinal: i,
			Text:    text,
		}
	}
	return passages
}

const contractText = `The plaintiff alleges breach of contract by the defendant.

The contract required delivery of goods by March 2021. Delivery never happened.

The court awarded damages of fifty thousand dollars to the plaintiff.`

const hearingText = `The hearing concerned custody of two children.

The judge ordered joint custody and scheduled a review hearing in six months.`
