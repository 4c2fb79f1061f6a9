package model

// Default playfield dimensions
const (
	DefaultBoardWidth  = 10
	DefaultBoardHeight = 20
)

// Position identifies a cell on the board
type Position struct {
	X int // 0-indexed from left
	Y int // 0-indexed from top, negative above the visible board
}

// Board is a player's playfield. Locked cells only keep occupancy.
type Board struct {
	Width  int
	Height int
	Cells  [][]bool // Row-major: Cells[y][x]
}

// NewBoard creates an empty board of the given size
func NewBoard(width, height int) *Board {
	cells := make([][]bool, height)
	for y := range cells {
		cells[y] = make([]bool, width)
	}
	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// InBounds returns true if the position is addressable on the board
func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Width && pos.Y >= 0 && pos.Y < b.Height
}

// Occupied returns true if the cell is filled. Out of range cells are never occupied.
func (b *Board) Occupied(pos Position) bool {
	if !b.InBounds(pos) {
		return false
	}
	return b.Cells[pos.Y][pos.X]
}

// Set marks a cell as filled or empty, ignoring out of range positions
func (b *Board) Set(pos Position, occupied bool) {
	if b.InBounds(pos) {
		b.Cells[pos.Y][pos.X] = occupied
	}
}

// RowFull returns true if every cell in the row is occupied
func (b *Board) RowFull(y int) bool {
	if y < 0 || y >= b.Height {
		return false
	}
	for _, filled := range b.Cells[y] {
		if !filled {
			return false
		}
	}
	return true
}

// IsEmpty returns true if no cell is occupied
func (b *Board) IsEmpty() bool {
	return b.FilledCount() == 0
}

// FilledCount returns the number of occupied cells
func (b *Board) FilledCount() int {
	count := 0
	for _, row := range b.Cells {
		for _, filled := range row {
			if filled {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	cells := make([][]bool, len(b.Cells))
	for y, row := range b.Cells {
		cells[y] = make([]bool, len(row))
		copy(cells[y], row)
	}
	return &Board{
		Width:  b.Width,
		Height: b.Height,
		Cells:  cells,
	}
}
