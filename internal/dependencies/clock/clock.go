package clock

import "time"

// Clock is the only way game, stats and session code reads time,
// so tests can drive gravity and reaction windows with a mock.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	// NewTicker fires on the clock's own timeline
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the scheduler uses
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// System reads the wall clock
type System struct{}

var _ Clock = System{}

// New returns the wall clock
func New() System {
	return System{}
}

func (System) Now() time.Time { return time.Now() }

func (System) Since(t time.Time) time.Duration { return time.Since(t) }

func (System) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
