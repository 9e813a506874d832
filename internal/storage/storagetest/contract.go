// Package storagetest holds behaviour shared by every storage backend's tests.
package storagetest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/storage"
)

// Factory returns a fresh, empty backend. It is responsible for cleanup.
type Factory func(t *testing.T) storage.Storage

// RunContract checks the behaviour every Storage implementation must share
func RunContract(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("load before save is not found", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.LoadSnapshot(ctx)
		assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		s := newStorage(t)
		blob := []byte{0x00, 0x01, 0xfe, 0xff}
		require.NoError(t, s.SaveSnapshot(ctx, blob))

		got, err := s.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("latest save wins", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.SaveSnapshot(ctx, []byte("first")))
		require.NoError(t, s.SaveSnapshot(ctx, []byte("second")))

		got, err := s.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("saved blob is not aliased", func(t *testing.T) {
		s := newStorage(t)
		blob := []byte("abc")
		require.NoError(t, s.SaveSnapshot(ctx, blob))
		blob[0] = 'x'

		got, err := s.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("large blob", func(t *testing.T) {
		s := newStorage(t)
		blob := bytes.Repeat([]byte{0x5a}, 1<<20)
		require.NoError(t, s.SaveSnapshot(ctx, blob))

		got, err := s.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})
}
