package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetris-showcase/internal/dependencies/mocks"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/board"
)

func spawn(shape model.Shape) model.Piece {
	return model.NewPiece(shape, 4, 0)
}

func TestCandidates_IPieceOnEmptyBoard(t *testing.T) {
	boards := board.New(board.DefaultConfig())

	candidates := Candidates(boards, boards.CreateBoard(), spawn(model.ShapeI))

	// Horizontal fits columns 0-6, vertical fits 0-9; the other two rotations repeat them
	assert.Len(t, candidates, 17)
	for _, c := range candidates {
		assert.Less(t, c.Rotations, 2)
		assert.Equal(t, 4, c.Board.FilledCount())
	}
}

func TestCandidates_OPieceHasOneRotation(t *testing.T) {
	boards := board.New(board.DefaultConfig())

	candidates := Candidates(boards, boards.CreateBoard(), spawn(model.ShapeO))

	require.Len(t, candidates, 9)
	assert.Equal(t, Placement{Rotations: 0, X: 0}, candidates[0].Placement)
	assert.Equal(t, Placement{Rotations: 0, X: 8}, candidates[8].Placement)
}

func TestCandidates_CountsClearedLines(t *testing.T) {
	boards := board.New(board.DefaultConfig())
	b := boards.CreateBoard()
	for x := 4; x < b.Width; x++ {
		b.Set(model.Position{X: x, Y: b.Height - 1}, true)
	}

	candidates := Candidates(boards, b, spawn(model.ShapeI))

	var clearing []Candidate
	for _, c := range candidates {
		if c.Lines > 0 {
			clearing = append(clearing, c)
		}
	}
	require.Len(t, clearing, 1)
	assert.Equal(t, Placement{Rotations: 0, X: 0}, clearing[0].Placement)
	assert.True(t, clearing[0].Board.IsEmpty())
}

func TestCandidates_BlockedRotationIsSkipped(t *testing.T) {
	boards := board.New(board.DefaultConfig())
	b := boards.CreateBoard()
	// A cell directly below the spawn row stops the I piece turning vertical
	b.Set(model.Position{X: 4, Y: 1}, true)

	candidates := Candidates(boards, b, spawn(model.ShapeI))

	for _, c := range candidates {
		assert.Equal(t, 0, c.Rotations)
	}
}

func TestGreedyStrategy_PrefersLineClear(t *testing.T) {
	boards := board.New(board.DefaultConfig())
	b := boards.CreateBoard()
	for x := 4; x < b.Width; x++ {
		b.Set(model.Position{X: x, Y: b.Height - 1}, true)
	}

	placement := NewGreedyStrategy(DefaultWeights()).Choose(Candidates(boards, b, spawn(model.ShapeI)))

	assert.Equal(t, Placement{Rotations: 0, X: 0}, placement)
}

func TestGreedyStrategy_AvoidsHoles(t *testing.T) {
	boards := board.New(board.DefaultConfig())
	b := boards.CreateBoard()
	// A one-cell step on the left: a flat O there would leave a hole
	b.Set(model.Position{X: 0, Y: b.Height - 1}, true)

	strategy := NewGreedyStrategy(DefaultWeights())
	candidates := Candidates(boards, b, spawn(model.ShapeO))
	placement := strategy.Choose(candidates)

	assert.NotEqual(t, 0, placement.X)
	for _, c := range candidates {
		if c.Placement == placement {
			assert.Equal(t, 0, countHoles(c.Board, columnHeights(c.Board)))
		}
	}
}

func TestGreedyStrategy_Evaluate(t *testing.T) {
	b := model.NewBoard(4, 4)
	b.Set(model.Position{X: 0, Y: 1}, true) // Column 0 height 3 with two holes below
	b.Set(model.Position{X: 1, Y: 3}, true)

	weights := Weights{Lines: 1, AggregateHeight: 1, Holes: 1, Bumpiness: 1}
	score := NewGreedyStrategy(weights).Evaluate(Candidate{Board: b, Lines: 2})

	// lines 2 + heights (3+1+0+0) + holes 2 + bumpiness (2+1+0)
	assert.InDelta(t, 2+4+2+3, score, 1e-9)
}

func TestRandomStrategy_UsesRandomIndex(t *testing.T) {
	boards := board.New(board.DefaultConfig())
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(3)

	candidates := Candidates(boards, boards.CreateBoard(), spawn(model.ShapeO))
	placement := NewRandomStrategy(rnd).Choose(candidates)

	assert.Equal(t, candidates[3].Placement, placement)
}

func TestCommandsFor(t *testing.T) {
	assert.Equal(t,
		[]model.Command{model.CommandRotate, model.CommandMoveLeft, model.CommandMoveLeft, model.CommandHardDrop},
		commandsFor(4, Move{Rotations: 1, X: 2}),
	)
	assert.Equal(t,
		[]model.Command{model.CommandMoveRight, model.CommandHardDrop},
		commandsFor(4, Move{X: 5}),
	)
	assert.Equal(t, []model.Command{model.CommandHardDrop}, commandsFor(4, Move{X: 4}))
}
