package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/vault"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "apollo-state.cbor.encrypted", cfg.StatePath)
	assert.Equal(t, 5*time.Second, cfg.PushInterval)
	assert.Equal(t, 10, cfg.SQLiteKeep)
	assert.Equal(t, vault.DefaultParams(), cfg.KDFParams())
	assert.Empty(t, cfg.AdminPassword)
	assert.False(t, cfg.SecureCookie)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("APOLLO_ADDR_PORT", "9000")
	t.Setenv("APOLLO_EVENT_TITLE", "Winter Hunt")
	t.Setenv("APOLLO_ADMIN_PASSWORD", "secret")
	t.Setenv("APOLLO_STORAGE", "sqlite")
	t.Setenv("APOLLO_PUSH_INTERVAL", "250ms")
	t.Setenv("APOLLO_KDF_TIME", "1")
	t.Setenv("APOLLO_KDF_MEMORY_KIB", "64")
	t.Setenv("APOLLO_KDF_THREADS", "1")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "Winter Hunt", cfg.EventTitle)
	assert.Equal(t, "secret", cfg.AdminPassword)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 250*time.Millisecond, cfg.PushInterval)
	assert.Equal(t, vault.Params{Time: 1, MemoryKiB: 64, Threads: 1}, cfg.KDFParams())
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown storage", "APOLLO_STORAGE", "postgres"},
		{"non-numeric port", "APOLLO_ADDR_PORT", "http"},
		{"port out of range", "APOLLO_ADDR_PORT", "70000"},
		{"zero push interval", "APOLLO_PUSH_INTERVAL", "0s"},
		{"zero kdf time", "APOLLO_KDF_TIME", "0"},
		{"zero history", "APOLLO_SQLITE_KEEP", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APOLLO_EVENT_TITLE=From File\nAPOLLO_ADDR_PORT=7000\n"), 0o600))
	t.Setenv("APOLLO_ADDR_PORT", "7100")
	t.Cleanup(func() { _ = os.Unsetenv("APOLLO_EVENT_TITLE") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "From File", cfg.EventTitle)
	// The real environment wins
	assert.Equal(t, 7100, cfg.Port)
}

func TestLoadIgnoresMissingDotenvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
