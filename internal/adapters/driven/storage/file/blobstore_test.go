package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestNewBlobStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "indexes")

	store, err := NewBlobStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
	assert.DirExists(t, dir)
}

func TestNewBlobStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewBlobStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lexrag", "indexes"), store.Dir())
}

func TestBlobStore_Lifecycle(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	key := domain.IndexKey("12")

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Put(ctx, key, []byte("first")))
	assert.FileExists(t, filepath.Join(store.Dir(), "doc_12.idx"))

	require.NoError(t, store.Put(ctx, key, []byte("second")))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := store.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestBlobStore_PutLeavesNoTempFiles(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "doc_1", []byte("x")))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc_1.idx", entries[0].Name())
}

func TestBlobStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "..", "../doc_1", "a/b", `a\b`} {
		assert.ErrorIs(t, store.Put(ctx, key, nil), domain.ErrInvalidInput, key)
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, key)
	}
}

func TestBlobStore_CancelledContext(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "doc_1", []byte("x")), context.Canceled)
	_, err = store.Exists(ctx, "doc_1")
	assert.ErrorIs(t, err, context.Canceled)
}
