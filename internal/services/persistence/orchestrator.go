// Package persistence snapshots the competition store into sealed blobs and
// restores it at startup.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/apollo/internal/services/competition"
	"github.com/mcoot/apollo/internal/snapshot"
	"github.com/mcoot/apollo/internal/storage"
	"github.com/mcoot/apollo/internal/vault"
)

// ErrPasswordRequired is returned by Restore when a snapshot exists but no
// password was given to open it
var ErrPasswordRequired = errors.New("a saved snapshot exists but no admin password was provided")

// Orchestrator saves the store after every change on a single background
// worker. Bursts of changes collapse into one pending save.
type Orchestrator struct {
	store   *competition.Store
	storage storage.Storage
	deriver *vault.Deriver
	logger  *slog.Logger

	pending chan struct{}
	saveMu  sync.Mutex
}

// Ensure Orchestrator observes the store
var _ competition.Observer = (*Orchestrator)(nil)

// New creates an Orchestrator. Call Run to start saving.
func New(store *competition.Store, st storage.Storage, deriver *vault.Deriver, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		storage: st,
		deriver: deriver,
		logger:  logger.With(slog.String("component", "persistence")),
		pending: make(chan struct{}, 1),
	}
}

// Restore loads the last snapshot into the store. A missing snapshot leaves
// the store empty; one that cannot be decrypted is an error.
func (o *Orchestrator) Restore(ctx context.Context, password string) error {
	blob, err := o.storage.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		o.logger.Warn("no saved snapshot, starting with empty state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if password == "" {
		return ErrPasswordRequired
	}

	plaintext, err := vault.Open(blob, []byte(password), o.deriver)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	state, err := snapshot.Decode(plaintext)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	o.store.Restore(state)
	o.logger.Info("state restored",
		slog.Int("teams", len(state.Teams)),
		slog.Int("puzzles", len(state.Puzzles)),
		slog.Int("sessions", len(state.Sessions)),
		slog.Int("bytes", len(blob)),
	)
	return nil
}

// StateChanged requests a save without blocking
func (o *Orchestrator) StateChanged() {
	select {
	case o.pending <- struct{}{}:
	default:
	}
}

// Run saves on request until ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) {
	o.logger.Info("persistence worker started")
	for {
		select {
		case <-ctx.Done():
			o.logger.Info("persistence worker stopped")
			return
		case <-o.pending:
			if err := o.save(ctx); err != nil {
				o.logger.Error("failed to save snapshot", slog.String("error", err.Error()))
			}
		}
	}
}

// SaveNow saves synchronously
func (o *Orchestrator) SaveNow(ctx context.Context) error {
	return o.save(ctx)
}

func (o *Orchestrator) save(ctx context.Context) error {
	o.saveMu.Lock()
	defer o.saveMu.Unlock()

	cred := o.store.Credential()
	if cred == nil {
		o.logger.Debug("admin password not set, skipping save")
		return nil
	}

	plaintext, err := snapshot.Encode(o.store.Export())
	if err != nil {
		return err
	}
	blob, err := vault.Seal(plaintext, cred)
	if err != nil {
		return fmt.Errorf("seal snapshot: %w", err)
	}
	if err := o.storage.SaveSnapshot(ctx, blob); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	o.logger.Debug("snapshot saved", slog.Int("bytes", len(blob)))
	return nil
}
