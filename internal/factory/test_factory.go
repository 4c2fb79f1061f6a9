package factory

import (
	"time"

	"github.com/mcoot/tetris-showcase/internal/dependencies/mocks"
	"github.com/mcoot/tetris-showcase/internal/storage"
	"github.com/mcoot/tetris-showcase/internal/storage/memory"
	"github.com/mcoot/tetris-showcase/internal/testutil"
)

// TestEpoch is where every TestApp clock starts
var TestEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp is an App on a mock clock and scripted randomness
type TestApp struct {
	*App

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestOption adjusts how NewTestApp builds its App
type TestOption func(*testOptions)

type testOptions struct {
	cfg   Config
	store storage.Storage
}

// WithConfig supplies service configuration; Logger, StorageType and Seed are ignored
func WithConfig(cfg Config) TestOption {
	return func(o *testOptions) { o.cfg = cfg }
}

// WithStorage swaps the in-memory store for another backend
func WithStorage(store storage.Storage) TestOption {
	return func(o *testOptions) { o.store = store }
}

// NewTestApp wires an App against mocks. Pieces default to I and the clock
// sits at TestEpoch until advanced.
func NewTestApp(opts ...TestOption) *TestApp {
	var o testOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.New()
	}
	logger := o.cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}

	clk := mocks.NewMockClock(TestEpoch)
	rnd := mocks.NewMockRandom()
	return &TestApp{
		App:        newWithDependencies(o.store, clk, rnd, o.cfg.withDefaults(), logger),
		MockClock:  clk,
		MockRandom: rnd,
	}
}
