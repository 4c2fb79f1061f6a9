package bot

import (
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/board"
)

// Placement is where a strategy wants the active piece to land:
// rotate in place at the spawn anchor, slide to column X, then hard drop
type Placement struct {
	Rotations int
	X         int
}

// Candidate is a reachable placement and the board it leaves behind
type Candidate struct {
	Placement
	Board *model.Board // After the lock and any line clear
	Lines int
}

// Strategy defines how a bot picks a placement for the active piece
type Strategy interface {
	// Choose selects one of the candidates, which is never empty
	Choose(candidates []Candidate) Placement
}

// Candidates enumerates every placement the piece can reach by rotating first,
// then sliding, then hard dropping. Rotations that produce a shape already seen
// are skipped.
func Candidates(boards board.ServiceInterface, b *model.Board, piece model.Piece) []Candidate {
	var (
		out  []Candidate
		seen []model.Matrix
	)

	rotated := piece.Clone()
	for r := 0; r < 4; r++ {
		if r > 0 {
			rotated = rotated.Rotated()
			if boards.Collides(b, rotated) {
				break
			}
		}
		if containsMatrix(seen, rotated.Matrix) {
			continue
		}
		seen = append(seen, rotated.Matrix)

		left := rotated.X
		for !boards.Collides(b, rotated.Moved(left-rotated.X-1, 0)) {
			left--
		}
		right := rotated.X
		for !boards.Collides(b, rotated.Moved(right-rotated.X+1, 0)) {
			right++
		}

		for x := left; x <= right; x++ {
			slid := rotated.Moved(x-rotated.X, 0)
			landed := slid.Moved(0, boards.DropDistance(b, slid))

			after := b.Clone()
			boards.Merge(after, landed)
			lines := boards.ClearLines(after)

			out = append(out, Candidate{
				Placement: Placement{Rotations: r, X: x},
				Board:     after,
				Lines:     lines,
			})
		}
	}
	return out
}

func containsMatrix(list []model.Matrix, m model.Matrix) bool {
	for _, other := range list {
		if other.Equal(m) {
			return true
		}
	}
	return false
}
