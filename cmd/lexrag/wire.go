package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/lexrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/codec/msgpack"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/config/file"
	fileblob "github.com/custodia-labs/lexrag/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/s3"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexrag/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexrag/internal/chunker"
	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/core/services"
	"github.com/custodia-labs/lexrag/internal/extractors"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// connectTimeout bounds connecting to remote stores at startup.
const connectTimeout = 10 * time.Second

// app holds the wired services and the resources to release on exit.
// Only the settings service exists until load runs.
type app struct {
	dataDir  string
	settings *services.SettingsService
	prompts  driven.PromptStore
	services cli.Services
	loaded   bool
	closers  []func() error
	aiResult *ai.InitResult
}

// Close releases every resource in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
	if a.aiResult != nil {
		a.aiResult.Close()
		a.aiResult = nil
	}
}

// newApp reads the settings in dataDir without touching any store or
// provider. An empty dataDir means ~/.lexrag.
func newApp(dataDir string) (*app, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexrag")
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	prompts, err := file.NewPromptStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	return &app{
		dataDir:  dataDir,
		settings: settingsService,
		prompts:  prompts,
		services: cli.Services{Settings: settingsService},
	}, nil
}

// load opens the stores and providers selected by the current settings
// and wires every service. Later calls return the same services.
func (a *app) load(ctx context.Context) (cli.Services, error) {
	if a.loaded {
		return a.services, nil
	}

	settings, err := a.settings.Get()
	if err != nil {
		return cli.Services{}, fmt.Errorf("load settings: %w", err)
	}

	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	blobs, docs, err := a.openStores(ctx, settings)
	if err != nil {
		return cli.Services{}, err
	}

	a.aiResult = ai.Init(settings)
	for _, w := range a.aiResult.Warnings {
		logger.Debug("%s", w)
	}
	embedder := a.aiResult.EmbeddingService
	llm := a.aiResult.LLMService

	engine := chromem.New()
	registry := extractors.DefaultRegistry()
	splitter := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	indexes := services.NewIndexStore(blobs, msgpack.New(), engine, embedder,
		services.WithEmbedBatchSize(settings.Index.EmbedBatchSize),
		services.WithEmbedRate(settings.Index.EmbedRPS),
	)
	genOpts := []services.GeneratorOption{
		services.WithTemperature(settings.LLM.Temperature),
		services.WithMaxTokens(settings.LLM.MaxTokens),
		services.WithGenerationTimeout(settings.Generation.Timeout),
	}
	retriever := services.NewRetriever(indexes, embedder, settings.Retrieval.Timeout)
	generator := services.NewAnswerGenerator(llm, a.prompts, genOpts...)
	orchestrator := services.NewOrchestrator(retriever, generator, settings.Retrieval.K, settings.Retrieval.KPerDoc)
	summarizer := services.NewSummarizer(indexes, retriever, llm, a.prompts, genOpts...)

	uploadDir := settings.UploadDir
	if uploadDir == "" {
		uploadDir = filepath.Join(a.dataDir, "uploads")
	}

	ingest := services.NewIngestService(registry, splitter, indexes, docs)
	a.services = cli.Services{
		Ingest:      ingest,
		Query:       services.NewQueryService(indexes, orchestrator),
		Summary:     services.NewSummaryService(summarizer, docs),
		Index:       services.NewIndexService(indexes),
		Document:    services.NewDocumentService(registry, docs, ingest, indexes, uploadDir),
		CaseRanking: services.NewCaseRankingService(embedder, engine),
		Settings:    a.settings,
	}

	ok = true
	a.loaded = true
	return a.services, nil
}

// openStores opens the index blob store and the document store selected by settings.
func (a *app) openStores(ctx context.Context, settings *domain.AppSettings) (driven.IndexBlobStore, driven.DocumentStore, error) {
	var sqliteStore *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if sqliteStore != nil {
			return sqliteStore, nil
		}
		store, err := sqlite.NewStore(a.dataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		sqliteStore = store
		return store, nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var docs driven.DocumentStore
	switch settings.Metadata.Backend {
	case domain.MetadataBackendMemory:
		docs = memory.NewDocumentStore()
	case domain.MetadataBackendMongo:
		store, err := mongo.Connect(ctx, settings.Metadata.MongoURI, settings.Metadata.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() error { return store.Close(context.Background()) })
		docs = store
	default:
		store, err := openSQLite()
		if err != nil {
			return nil, nil, err
		}
		docs = store.DocumentStore()
	}

	var blobs driven.IndexBlobStore
	switch settings.Index.Backend {
	case domain.IndexBackendMemory:
		blobs = memory.NewBlobStore()
	case domain.IndexBackendSQLite:
		store, err := openSQLite()
		if err != nil {
			return nil, nil, err
		}
		blobs = store.IndexBlobStore()
	case domain.IndexBackendS3:
		store, err := s3.NewBlobStore(settings.Index.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 store: %w", err)
		}
		blobs = store
	case domain.IndexBackendRedis:
		store, err := redis.Connect(ctx, settings.Index.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		blobs = store
	default:
		dir := settings.Index.Dir
		if dir == "" {
			dir = filepath.Join(a.dataDir, "indexes")
		}
		store, err := fileblob.NewBlobStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open index dir: %w", err)
		}
		blobs = store
	}

	return blobs, docs, nil
}
