package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/apollo/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, snapshotKey(s.cfg.KeyPrefix)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

// SaveSnapshot replaces the current blob and pushes it onto the bounded
// history list in one MULTI/EXEC transaction.
func (s *Storage) SaveSnapshot(ctx context.Context, blob []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(s.cfg.KeyPrefix), blob, 0)
	if s.cfg.History > 0 {
		pipe.LPush(ctx, historyKey(s.cfg.KeyPrefix), blob)
		pipe.LTrim(ctx, historyKey(s.cfg.KeyPrefix), 0, int64(s.cfg.History-1))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// History returns up to History previous blobs, newest first
func (s *Storage) History(ctx context.Context) ([][]byte, error) {
	items, err := s.client.LRange(ctx, historyKey(s.cfg.KeyPrefix), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(items))
	for _, item := range items {
		out = append(out, []byte(item))
	}
	return out, nil
}
