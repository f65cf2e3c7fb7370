package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// fakeS3 serves the four object calls for path-style requests.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	paths   []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paths = append(f.paths, r.URL.Path)
	key := strings.TrimPrefix(r.URL.Path, "/")

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func setupTestStore(t *testing.T, prefix string) (*BlobStore, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewBlobStore(domain.S3Settings{
		Bucket:    "indexes",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "secret",
		Prefix:    prefix,
	})
	require.NoError(t, err)
	return store, fake
}

func TestNewBlobStore_RequiresBucket(t *testing.T) {
	_, err := NewBlobStore(domain.S3Settings{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlobStore_PutGetExistsDelete(t *testing.T) {
	store, _ := setupTestStore(t, "")
	ctx := context.Background()
	key := domain.IndexKey("3")

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Put(ctx, key, []byte("blob")))

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "blob", string(got))

	removed, err := store.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestBlobStore_Prefix(t *testing.T) {
	store, fake := setupTestStore(t, "lexrag/indexes")

	require.NoError(t, store.Put(context.Background(), "doc_1", []byte("x")))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	_, ok := fake.objects["indexes/lexrag/indexes/doc_1"]
	assert.True(t, ok, "objects: %v", fake.paths)
}
