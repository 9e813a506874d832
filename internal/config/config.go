// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/apollo/internal/vault"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

var storageBackends = []string{StorageFile, StorageMemory, StorageRedis, StorageSQLite}

// Config is the server configuration
type Config struct {
	Port          int           `env:"APOLLO_ADDR_PORT"      envDefault:"8080"`
	EventTitle    string        `env:"APOLLO_EVENT_TITLE"    envDefault:"Puzzle Hunt"`
	AdminPassword string        `env:"APOLLO_ADMIN_PASSWORD"`
	PushInterval  time.Duration `env:"APOLLO_PUSH_INTERVAL"  envDefault:"5s"`
	SecureCookie  bool          `env:"APOLLO_SECURE_COOKIE"  envDefault:"false"`

	Storage    string `env:"APOLLO_STORAGE"     envDefault:"file"`
	StatePath  string `env:"APOLLO_STATE_PATH"  envDefault:"apollo-state.cbor.encrypted"`
	RedisURL   string `env:"APOLLO_REDIS_URL"   envDefault:"redis://localhost:6379"`
	RedisKey   string `env:"APOLLO_REDIS_KEY"   envDefault:"apollo"`
	SQLitePath string `env:"APOLLO_SQLITE_PATH" envDefault:"apollo-state.db"`
	SQLiteKeep int    `env:"APOLLO_SQLITE_KEEP" envDefault:"10"`

	KDFMemoryKiB uint32 `env:"APOLLO_KDF_MEMORY_KIB" envDefault:"65536"`
	KDFTime      uint32 `env:"APOLLO_KDF_TIME"       envDefault:"3"`
	KDFThreads   uint8  `env:"APOLLO_KDF_THREADS"    envDefault:"4"`
}

// Load reads an optional .env file then parses the environment.
// Variables already set in the environment win over the file.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("APOLLO_ADDR_PORT out of range: %d", c.Port)
	}
	if !slices.Contains(storageBackends, c.Storage) {
		return fmt.Errorf("APOLLO_STORAGE must be one of %v, got %q", storageBackends, c.Storage)
	}
	if c.PushInterval <= 0 {
		return fmt.Errorf("APOLLO_PUSH_INTERVAL must be positive, got %s", c.PushInterval)
	}
	if c.SQLiteKeep < 1 {
		return fmt.Errorf("APOLLO_SQLITE_KEEP must be at least 1, got %d", c.SQLiteKeep)
	}
	return c.KDFParams().Validate()
}

// KDFParams returns the Argon2id parameters
func (c Config) KDFParams() vault.Params {
	return vault.Params{
		Time:      c.KDFTime,
		MemoryKiB: c.KDFMemoryKiB,
		Threads:   c.KDFThreads,
	}
}
