// Package file stores the sealed snapshot in a single file on local disk.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/mcoot/apollo/internal/storage"
)

// DefaultPath is where the snapshot lives when no path is configured
const DefaultPath = "apollo-state.cbor.encrypted"

// Storage writes the blob with write-to-temp-then-rename, so a crash
// mid-save leaves the previous snapshot intact.
type Storage struct {
	path string
	mu   sync.Mutex
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New creates a file storage at path. The parent directory is created if missing.
func New(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	return &Storage{path: clean}, nil
}

// Path returns the snapshot file location
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

func (s *Storage) SaveSnapshot(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomic.WriteFile(s.path, bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}
