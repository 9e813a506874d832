package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/storage"
	"github.com/mcoot/apollo/internal/storage/storagetest"
)

func TestStorageContract(t *testing.T) {
	storagetest.RunContract(t, func(t *testing.T) storage.Storage {
		s, err := New(filepath.Join(t.TempDir(), "state.bin"))
		require.NoError(t, err)
		return s
	})
}

func TestNewCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.bin")
	s, err := New(path)
	require.NoError(t, err)

	require.NoError(t, s.SaveSnapshot(context.Background(), []byte("x")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "state.bin"))
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, s.SaveSnapshot(context.Background(), []byte("payload")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.bin", entries[0].Name())
}

func TestLoadUnreadablePathIsNotNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.LoadSnapshot(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestCancelledContext(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "state.bin"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.SaveSnapshot(ctx, []byte("x")), context.Canceled)
	_, err = s.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
