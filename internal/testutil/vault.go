package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/vault"
)

// FastKDFParams are Argon2id parameters cheap enough for unit tests
var FastKDFParams = vault.Params{Time: 1, MemoryKiB: 64, Threads: 1}

// FastDeriver returns a vault.Deriver using FastKDFParams
func FastDeriver(t testing.TB) *vault.Deriver {
	t.Helper()
	d, err := vault.NewDeriver(FastKDFParams)
	require.NoError(t, err)
	return d
}
