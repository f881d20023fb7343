package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-worktrack/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := storage.NewLocal(root, "http://localhost:3000/storage/")

	t.Run("put and delete", func(t *testing.T) {
		obj, err := store.Put(ctx, "progress_updates/1_abc_notes.txt", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, "progress_updates/1_abc_notes.txt", obj.Path)
		assert.Equal(t, "http://localhost:3000/storage/progress_updates/1_abc_notes.txt", obj.URL)
		assert.Equal(t, int64(5), obj.Size)

		body, err := os.ReadFile(filepath.Join(root, "progress_updates", "1_abc_notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))

		require.NoError(t, store.Delete(ctx, obj.Path))
		_, err = os.Stat(filepath.Join(root, "progress_updates", "1_abc_notes.txt"))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, store.Delete(ctx, obj.Path))
	})

	t.Run("negative existing file kept", func(t *testing.T) {
		_, err := store.Put(ctx, "dup.txt", strings.NewReader("a"))
		require.NoError(t, err)
		_, err = store.Put(ctx, "dup.txt", strings.NewReader("b"))
		assert.Error(t, err)

		body, _ := os.ReadFile(filepath.Join(root, "dup.txt"))
		assert.Equal(t, "a", string(body))
	})

	t.Run("negative escaping root", func(t *testing.T) {
		for _, p := range []string{"", "../secret", "/etc/passwd", "a/../../b"} {
			_, err := store.Put(ctx, p, strings.NewReader("x"))
			assert.ErrorIs(t, err, storage.ErrInvalidPath, p)
		}
	})
}
