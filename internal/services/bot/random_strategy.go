package bot

import (
	"github.com/mcoot/tetris-showcase/internal/dependencies/random"
)

// RandomStrategy picks any reachable placement uniformly
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// Choose returns a random candidate's placement
func (s *RandomStrategy) Choose(candidates []Candidate) Placement {
	return candidates[s.random.Intn(len(candidates))].Placement
}
