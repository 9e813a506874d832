// Package sqlite stores sealed snapshots in a SQLite database, keeping a
// bounded history of previous saves for manual recovery.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/apollo/internal/dependencies/clock"
	"github.com/mcoot/apollo/internal/storage"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	saved_at TEXT    NOT NULL,
	blob     BLOB    NOT NULL
);`

// DefaultKeep is the default number of snapshots retained
const DefaultKeep = 10

// Entry describes one stored snapshot
type Entry struct {
	ID      int64
	SavedAt time.Time
	Size    int
}

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db    *sql.DB
	keep  int
	clock clock.Clock
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens (or creates) the database at path, retaining keep snapshots
func Open(path string, keep int, clk clock.Clock) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if keep < 1 {
		keep = 1
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Storage{db: db, keep: keep, clock: clk}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if blob == nil {
		blob = []byte{}
	}
	return blob, nil
}

// SaveSnapshot inserts a new row and prunes rows beyond the retention limit
// in the same transaction.
func (s *Storage) SaveSnapshot(ctx context.Context, blob []byte) error {
	if blob == nil {
		blob = []byte{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (saved_at, blob) VALUES (?, ?)`,
		s.clock.Now().UTC().Format(timeFormat), blob,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		s.keep,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// List returns metadata for the retained snapshots, newest first
func (s *Storage) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, saved_at, length(blob) FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			savedAt string
		)
		if err := rows.Scan(&e.ID, &savedAt, &e.Size); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		e.SavedAt, err = time.Parse(timeFormat, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
