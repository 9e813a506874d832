package storage

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by LoadSnapshot when nothing has been saved yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Storage persists the sealed snapshot blob.
// Blobs are opaque: backends never inspect or decrypt them.
type Storage interface {
	// LoadSnapshot returns the most recently saved blob
	LoadSnapshot(ctx context.Context) ([]byte, error)

	// SaveSnapshot replaces the current blob. A failed save must leave
	// the previous blob readable.
	SaveSnapshot(ctx context.Context, blob []byte) error

	// Close releases backend resources
	Close() error
}
