package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Equal(t, "", store.Get(ctx, SessionTokenKey))

	store.Save(ctx, SessionTokenKey, "tok-123")
	assert.Equal(t, "tok-123", store.Get(ctx, SessionTokenKey))

	store.Delete(ctx, SessionTokenKey)
	assert.Equal(t, "", store.Get(ctx, SessionTokenKey))

	// deleting again is a no-op
	store.Delete(ctx, SessionTokenKey)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip survives reopen", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewFileStoreAt(dir)
		require.NoError(t, err)
		store.Save(ctx, SessionTokenKey, "tok-abc")
		assert.Equal(t, "tok-abc", store.Get(ctx, SessionTokenKey))

		reopened, err := NewFileStoreAt(dir)
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", reopened.Get(ctx, SessionTokenKey))
	})

	t.Run("token never stored in the clear", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewFileStoreAt(dir)
		require.NoError(t, err)
		store.Save(ctx, SessionTokenKey, "super-secret-token")

		data, err := os.ReadFile(filepath.Join(dir, SessionTokenKey+".token"))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "super-secret-token")
	})

	t.Run("missing key reads empty", func(t *testing.T) {
		store, err := NewFileStoreAt(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "", store.Get(ctx, "no_such_key"))
	})

	t.Run("delete removes entry", func(t *testing.T) {
		store, err := NewFileStoreAt(t.TempDir())
		require.NoError(t, err)

		store.Save(ctx, SessionTokenKey, "tok")
		store.Delete(ctx, SessionTokenKey)
		assert.Equal(t, "", store.Get(ctx, SessionTokenKey))
		store.Delete(ctx, SessionTokenKey)
	})

	t.Run("corrupt entry discarded", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFileStoreAt(dir)
		require.NoError(t, err)

		path := filepath.Join(dir, SessionTokenKey+".token")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

		assert.Equal(t, "", store.Get(ctx, SessionTokenKey))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("hostile key stays inside dir", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFileStoreAt(dir)
		require.NoError(t, err)

		store.Save(ctx, "../escape", "v")
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.Contains(e.Name(), ".."))
		}
	})
}
