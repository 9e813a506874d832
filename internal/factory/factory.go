package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/apollo/internal/config"
	"github.com/mcoot/apollo/internal/dependencies/clock"
	"github.com/mcoot/apollo/internal/dependencies/random"
	"github.com/mcoot/apollo/internal/services/auth"
	"github.com/mcoot/apollo/internal/services/competition"
	"github.com/mcoot/apollo/internal/services/persistence"
	"github.com/mcoot/apollo/internal/storage"
	filestorage "github.com/mcoot/apollo/internal/storage/file"
	"github.com/mcoot/apollo/internal/storage/memory"
	redisstorage "github.com/mcoot/apollo/internal/storage/redis"
	sqlitestorage "github.com/mcoot/apollo/internal/storage/sqlite"
	"github.com/mcoot/apollo/internal/vault"
	"github.com/mcoot/apollo/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeFile   = config.StorageFile
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQLite = config.StorageSQLite
)

// DefaultPushInterval is how often the scoreboard is pushed when nothing changes
const DefaultPushInterval = 5 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Deriver *vault.Deriver

	// Services
	Sessions    *auth.Authority
	Store       *competition.Store
	Persister   *persistence.Orchestrator
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the snapshot backend ("file", "memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// StatePath is the snapshot file for the file backend
	StatePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath and SQLiteKeep configure the sqlite backend
	SQLitePath string
	SQLiteKeep int
	// KDFParams configures Argon2id (optional)
	// If zero value, defaults to vault.DefaultParams()
	KDFParams vault.Params
	// PushInterval is the periodic scoreboard push interval (optional)
	PushInterval time.Duration
}

// ConfigFromEnv maps the environment configuration onto a factory Config
func ConfigFromEnv(c config.Config, logger *slog.Logger) Config {
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = c.RedisURL
	redisCfg.KeyPrefix = c.RedisKey

	return Config{
		Logger:       logger,
		StorageType:  c.Storage,
		StatePath:    c.StatePath,
		RedisConfig:  &redisCfg,
		SQLitePath:   c.SQLitePath,
		SQLiteKeep:   c.SQLiteKeep,
		KDFParams:    c.KDFParams(),
		PushInterval: c.PushInterval,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	params := cfg.KDFParams
	if params == (vault.Params{}) {
		params = vault.DefaultParams()
	}
	deriver, err := vault.NewDeriver(params)
	if err != nil {
		return nil, err
	}

	pushInterval := cfg.PushInterval
	if pushInterval <= 0 {
		pushInterval = DefaultPushInterval
	}

	// Create storage based on type
	var st storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		st = memory.New()
	case StorageTypeFile:
		path := cfg.StatePath
		if path == "" {
			path = filestorage.DefaultPath
		}
		fileStore, err := filestorage.New(path)
		if err != nil {
			return nil, err
		}
		st = fileStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		st = redisStore
	case StorageTypeSQLite:
		keep := cfg.SQLiteKeep
		if keep == 0 {
			keep = sqlitestorage.DefaultKeep
		}
		sqliteStore, err := sqlitestorage.Open(cfg.SQLitePath, keep, clk)
		if err != nil {
			return nil, err
		}
		st = sqliteStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'file', 'memory', 'redis' or 'sqlite'", storageType)
	}

	return newWithDependencies(st, clk, rnd, deriver, pushInterval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(st storage.Storage, clk clock.Clock, rnd random.Random, deriver *vault.Deriver, pushInterval time.Duration, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	sessions := auth.New(logger, rnd)
	store := competition.New(sessions, deriver, clk, logger)
	persister := persistence.New(store, st, deriver, logger)
	hub := sse.NewHub(logger)
	broadcaster := sse.NewBroadcaster(hub, store, pushInterval, logger)

	store.Subscribe(persister)
	store.Subscribe(broadcaster)

	return &App{
		Storage:     st,
		Clock:       clk,
		Random:      rnd,
		Deriver:     deriver,
		Sessions:    sessions,
		Store:       store,
		Persister:   persister,
		Hub:         hub,
		Broadcaster: broadcaster,
	}
}

// Start runs the background workers until ctx is cancelled
func (a *App) Start(ctx context.Context) {
	go a.Hub.Run()
	go a.Persister.Run(ctx)
	go a.Broadcaster.Run(ctx)
}

// Close disconnects stream clients and releases storage
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}
