// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor / ExtractorRegistry: Turns a file into text blocks
//   - Chunker: Splits text blocks into passages
//   - EmbeddingService: Generates vector embeddings
//   - VectorEngine: Nearest-neighbour search over passage vectors (chromem-go)
//   - IndexCodec: Serialises a per-document index
//   - IndexBlobStore: Persists index blobs (file, SQLite, S3, Redis)
//   - DocumentStore: Document records and the summary cache
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - operations that need them fail with a domain error:
//
//   - LLMService: Answer and summary generation. Without it, ask and summarize fail with ErrLLMUnavailable.
//   - PromptStore: Overrides for prompt templates. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
