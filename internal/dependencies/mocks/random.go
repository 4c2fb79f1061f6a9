package mocks

import (
	"sync"

	"github.com/mcoot/tetris-showcase/internal/dependencies/random"
)

// MockRandom replays queued values. An empty Intn queue yields 0, which
// spawns the I piece; an empty String queue yields "".
type MockRandom struct {
	mu      sync.Mutex
	ints    queue[int]
	strings queue[string]
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with nothing queued
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn wraps the next queued value into [0, n)
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ints.pop()
	if !ok || n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// String ignores length and alphabet and returns the next queued value
func (r *MockRandom) String(int, string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, _ := r.strings.pop()
	return v
}

// QueueIntn queues shape or candidate indices
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, values...)
}

// QueueString queues session ids
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}

// Reset drops everything queued
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints, r.strings = nil, nil
}

type queue[T any] []T

func (q *queue[T]) pop() (T, bool) {
	var zero T
	if len(*q) == 0 {
		return zero, false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, true
}
