package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/mcoot/apollo/internal/storage"
)

// Storage keeps the snapshot blob in memory. Nothing survives a restart.
type Storage struct {
	mu    sync.RWMutex
	blob  []byte
	saves int
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

func (s *Storage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.blob == nil {
		return nil, storage.ErrSnapshotNotFound
	}
	return bytes.Clone(s.blob), nil
}

func (s *Storage) SaveSnapshot(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blob = bytes.Clone(blob)
	if s.blob == nil {
		s.blob = []byte{}
	}
	s.saves++
	return nil
}

// Saves returns how many times SaveSnapshot has been called
func (s *Storage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func (s *Storage) Close() error {
	return nil
}
