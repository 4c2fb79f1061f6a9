package bot

import (
	"github.com/mcoot/tetris-showcase/internal/model"
)

// Weights scores a resulting board; higher is better
type Weights struct {
	Lines           float64
	AggregateHeight float64
	Holes           float64
	Bumpiness       float64
}

// DefaultWeights rewards clears and penalises tall, holey, uneven stacks
func DefaultWeights() Weights {
	return Weights{
		Lines:           0.76,
		AggregateHeight: -0.51,
		Holes:           -0.36,
		Bumpiness:       -0.18,
	}
}

// GreedyStrategy picks the placement whose resulting board scores best.
// Ties keep the earliest candidate.
type GreedyStrategy struct {
	weights Weights
}

// NewGreedyStrategy creates a GreedyStrategy with the given weights
func NewGreedyStrategy(weights Weights) *GreedyStrategy {
	return &GreedyStrategy{weights: weights}
}

// Choose returns the best scoring candidate's placement
func (s *GreedyStrategy) Choose(candidates []Candidate) Placement {
	best := 0
	bestScore := s.Evaluate(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if score := s.Evaluate(candidates[i]); score > bestScore {
			best, bestScore = i, score
		}
	}
	return candidates[best].Placement
}

// Evaluate scores a single candidate
func (s *GreedyStrategy) Evaluate(c Candidate) float64 {
	heights := columnHeights(c.Board)

	aggregate, bumpiness := 0, 0
	for x, h := range heights {
		aggregate += h
		if x > 0 {
			bumpiness += abs(h - heights[x-1])
		}
	}

	return s.weights.Lines*float64(c.Lines) +
		s.weights.AggregateHeight*float64(aggregate) +
		s.weights.Holes*float64(countHoles(c.Board, heights)) +
		s.weights.Bumpiness*float64(bumpiness)
}

// columnHeights measures each column from the floor to its highest filled cell
func columnHeights(b *model.Board) []int {
	heights := make([]int, b.Width)
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if b.Cells[y][x] {
				heights[x] = b.Height - y
				break
			}
		}
	}
	return heights
}

// countHoles counts empty cells below each column's top
func countHoles(b *model.Board, heights []int) int {
	holes := 0
	for x, h := range heights {
		for y := b.Height - h; y < b.Height; y++ {
			if !b.Cells[y][x] {
				holes++
			}
		}
	}
	return holes
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
