package filestorages

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPut_ValidKey(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	validKeys := []string{
		"file.txt",
		"dead-letter/logs-default/01J9.ndjson.gz",
		"nested/deep/path/file.txt",
		"file-with-dashes.txt",
		"file_with_underscores.txt",
		"file.with.dots.txt",
		"subdir/file",
	}

	for _, key := range validKeys {
		t.Run(key, func(t *testing.T) {
			data := "test data"
			result, err := storage.Put(ctx, key, strings.NewReader(data), PutOptions{})
			require.NoError(t, err, "key %q should be valid", key)
			assert.Equal(t, key, result.FileKey)

			content, err := os.ReadFile(filepath.Join(storage.(*localFileStorage).dir, key))
			require.NoError(t, err)
			assert.Equal(t, data, string(content))
		})
	}
}

func TestLocalPut_AllowOverwriteFalse_FileExists(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	key := "test.txt"
	_, err := storage.Put(ctx, key, strings.NewReader("initial data"), PutOptions{AllowOverwrite: false})
	require.NoError(t, err)

	_, err = storage.Put(ctx, key, strings.NewReader("new data"), PutOptions{AllowOverwrite: false})
	assert.ErrorIs(t, err, ErrFileAlreadyExists)

	content, err := os.ReadFile(filepath.Join(storage.(*localFileStorage).dir, key))
	require.NoError(t, err)
	assert.Equal(t, "initial data", string(content))
}

func TestLocalPut_AllowOverwriteTrue_FileExists(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	key := "test.txt"
	_, err := storage.Put(ctx, key, strings.NewReader("initial data"), PutOptions{})
	require.NoError(t, err)

	result, err := storage.Put(ctx, key, strings.NewReader("new data"), PutOptions{AllowOverwrite: true})
	require.NoError(t, err)
	assert.Equal(t, key, result.FileKey)

	content, err := os.ReadFile(filepath.Join(storage.(*localFileStorage).dir, key))
	require.NoError(t, err)
	assert.Equal(t, "new data", string(content))
}

func TestLocalPut_InvalidKey(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	invalidKeys := []string{
		"",
		"/absolute/path",
		"..",
		"../file.txt",
		"../../etc/passwd",
		"batches/../../etc/passwd",
		"../",
		"a/../..",
		".",
	}

	for _, key := range invalidKeys {
		t.Run(key, func(t *testing.T) {
			_, err := storage.Put(ctx, key, strings.NewReader("data"), PutOptions{})
			assert.ErrorIs(t, err, ErrInvalidKey, "key %q should be invalid", key)
		})
	}
}

func TestLocalPut_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.Put(ctx, "dir/a.txt", strings.NewReader("a"), PutOptions{})
	require.NoError(t, err)
	_, err = storage.Put(ctx, "dir/a.txt", strings.NewReader("b"), PutOptions{})
	require.ErrorIs(t, err, ErrFileAlreadyExists)

	entries, err := os.ReadDir(filepath.Join(storage.(*localFileStorage).dir, "dir"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestNewLocalFileStorage_EmptyRootDir(t *testing.T) {
	t.Parallel()

	storage, err := NewLocalFileStorage("")
	assert.Nil(t, storage)
	assert.ErrorIs(t, err, ErrInvalidRootDir)
}

func newTestStorage(t *testing.T) FileStorage {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}
