package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMockClockAdvance(t *testing.T) {
	c := NewMockClock(epoch)
	c.AdvanceMillis(1500)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), c.Now())
	assert.Equal(t, 1500*time.Millisecond, c.Since(epoch))

	c.Set(epoch)
	assert.Equal(t, epoch, c.Now())
}

func TestMockTickerFiresPerPeriod(t *testing.T) {
	c := NewMockClock(epoch)
	ticker := c.NewTicker(100 * time.Millisecond)

	c.AdvanceMillis(99)
	assert.Empty(t, ticker.C())

	c.AdvanceMillis(1)
	assert.Equal(t, epoch.Add(100*time.Millisecond), <-ticker.C())

	// Unread ticks are dropped, keeping only the first
	c.AdvanceMillis(300)
	assert.Equal(t, epoch.Add(200*time.Millisecond), <-ticker.C())
	assert.Empty(t, ticker.C())

	ticker.Stop()
	c.AdvanceMillis(1000)
	assert.Empty(t, ticker.C())
}

func TestMockRandomQueues(t *testing.T) {
	r := NewMockRandom()
	r.QueueIntn(9, -1)
	r.QueueString("ABCD2345")

	assert.Equal(t, 2, r.Intn(7))
	assert.Equal(t, 6, r.Intn(7))
	assert.Equal(t, 0, r.Intn(7))
	assert.Equal(t, "ABCD2345", r.String(8, "x"))
	assert.Empty(t, r.String(8, "x"))

	r.Reset()
	r.QueueIntn(3)
	assert.Equal(t, 3, r.Intn(7))
}
