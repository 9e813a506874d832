package factory

import (
	"time"

	"github.com/mcoot/apollo/internal/dependencies/mocks"
	"github.com/mcoot/apollo/internal/dependencies/random"
	"github.com/mcoot/apollo/internal/storage/memory"
	"github.com/mcoot/apollo/internal/vault"
)

// testKDFParams keep Argon2id cheap in tests
var testKDFParams = vault.Params{Time: 1, MemoryKiB: 64, Threads: 1}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing: in-memory storage, a
// mocked clock, cheap KDF parameters and a short push interval
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	deriver, err := vault.NewDeriver(testKDFParams)
	if err != nil {
		panic(err)
	}

	app := newWithDependencies(store, mockClock, random.New(), deriver, 50*time.Millisecond, nil)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MemoryStorage: store,
	}
}
