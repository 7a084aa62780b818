package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewLocalFileStorage(t.TempDir())

	path, err := s.Store(ctx, []byte("a,b\n1,2\n"), "data.csv")
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "data_"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))

	ok, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, path))
	ok, err = s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is fine.
	assert.NoError(t, s.Delete(ctx, path))
}

func TestStoreUniqueNames(t *testing.T) {
	ctx := context.Background()
	s := NewLocalFileStorage(t.TempDir())

	p1, err := s.Store(ctx, []byte("x"), "data.csv")
	require.NoError(t, err)
	p2, err := s.Store(ctx, []byte("y"), "data.csv")
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestStoreStripsDirectoryFromName(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalFileStorage(dir)

	path, err := s.Store(ctx, []byte("x"), "../escape.csv")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}
