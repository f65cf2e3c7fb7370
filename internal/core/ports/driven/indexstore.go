package driven

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// IndexBlobStore persists opaque index blobs by key.
// Backends include the local filesystem, SQLite, S3 and Redis.
type IndexBlobStore interface {
	// Get returns the blob stored under key.
	// Returns domain.ErrNotFound when nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores blob under key, replacing any previous blob.
	// Readers observe either the old or the new blob, never a partial write.
	Put(ctx context.Context, key string, blob []byte) error

	// Delete removes the blob. Returns true if something was removed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether a blob is stored under key without reading it.
	Exists(ctx context.Context, key string) (bool, error)
}

// IndexCodec serialises per-document indexes.
type IndexCodec interface {
	// Encode serialises an index.
	Encode(data *domain.IndexData) ([]byte, error)

	// Decode parses a blob produced by Encode.
	Decode(blob []byte) (*domain.IndexData, error)
}

// VectorEngine builds searchable vector sets.
// Backed by chromem-go.
type VectorEngine interface {
	// Build creates a searchable set over the passages' embeddings.
	// Every passage must carry an embedding of the same length.
	Build(ctx context.Context, name string, passages []domain.Passage) (VectorSet, error)
}

// VectorSet answers nearest-neighbour queries. It is read-only and safe
// for concurrent use.
type VectorSet interface {
	// Nearest returns up to k passage IDs ordered by descending cosine similarity.
	Nearest(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of vectors in the set.
	Len() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched passage.
	ID string

	// Similarity is the cosine similarity score.
	Similarity float32
}
