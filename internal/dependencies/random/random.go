package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Random picks tetrominoes, bot moves and session ids. Mocked in tests.
type Random interface {
	// Intn returns a random int in [0, n), or 0 when n <= 0
	Intn(n int) int

	// String builds a string of the given length from alphabet
	String(length int, alphabet string) string
}

// Source is a ChaCha8 generator safe for concurrent use.
// A seeded Source replays the same piece and id sequence on every run.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Random = (*Source)(nil)

// New returns a Source seeded from crypto/rand
func New() *Source {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return &Source{rng: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded returns a deterministic Source
func NewSeeded(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &Source{rng: rand.New(rand.NewChaCha8(key))}
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *Source) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[s.rng.IntN(len(alphabet))]
	}
	return string(out)
}
