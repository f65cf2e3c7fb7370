// Package redis stores index blobs in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.IndexBlobStore = (*BlobStore)(nil)

// KeyPrefix namespaces index keys in a shared database.
const KeyPrefix = "lexrag:index:"

// commands is the subset of the go-redis client used by the store.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// BlobStore keeps each index blob under a single key without expiry.
// SET replaces the value atomically.
type BlobStore struct {
	rdb   commands
	close func() error
}

// Connect creates a Redis-backed store and verifies connectivity.
func Connect(ctx context.Context, url string) (*BlobStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis url: %v", domain.ErrInvalidInput, err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &BlobStore{rdb: rdb, close: rdb.Close}, nil
}

// Close releases the connection pool.
func (s *BlobStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Get returns the blob stored under key.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting index blob: %w", err)
	}
	return data, nil
}

// Put stores blob under key.
func (s *BlobStore) Put(ctx context.Context, key string, blob []byte) error {
	if err := s.rdb.Set(ctx, KeyPrefix+key, blob, 0).Err(); err != nil {
		return fmt.Errorf("putting index blob: %w", err)
	}
	return nil
}

// Delete removes key and reports whether it existed.
func (s *BlobStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, KeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("deleting index blob: %w", err)
	}
	return n > 0, nil
}

// Exists reports whether key is present.
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, KeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("checking index blob: %w", err)
	}
	return n > 0, nil
}
