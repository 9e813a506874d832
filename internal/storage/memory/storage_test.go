package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/storage"
	"github.com/mcoot/apollo/internal/storage/storagetest"
)

func TestStorageContract(t *testing.T) {
	storagetest.RunContract(t, func(t *testing.T) storage.Storage {
		return New()
	})
}

func TestSavesCounter(t *testing.T) {
	s := New()
	ctx := context.Background()

	assert.Equal(t, 0, s.Saves())
	require.NoError(t, s.SaveSnapshot(ctx, []byte("a")))
	require.NoError(t, s.SaveSnapshot(ctx, []byte("b")))
	assert.Equal(t, 2, s.Saves())
}

func TestSaveEmptyBlobIsFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, nil))
	got, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
