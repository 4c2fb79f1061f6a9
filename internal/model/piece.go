package model

// Shape identifies one of the seven tetrominoes
type Shape string

const (
	ShapeI Shape = "I"
	ShapeO Shape = "O"
	ShapeT Shape = "T"
	ShapeS Shape = "S"
	ShapeZ Shape = "Z"
	ShapeJ Shape = "J"
	ShapeL Shape = "L"
)

// Shapes lists every tetromino in spawn-table order
var Shapes = []Shape{ShapeI, ShapeO, ShapeT, ShapeS, ShapeZ, ShapeJ, ShapeL}

// Matrix is a piece occupancy grid, Matrix[row][col]
type Matrix [][]bool

var shapeMatrices = map[Shape]Matrix{
	ShapeI: {{true, true, true, true}},
	ShapeO: {{true, true}, {true, true}},
	ShapeT: {{false, true, false}, {true, true, true}},
	ShapeS: {{false, true, true}, {true, true, false}},
	ShapeZ: {{true, true, false}, {false, true, true}},
	ShapeJ: {{true, false, false}, {true, true, true}},
	ShapeL: {{false, false, true}, {true, true, true}},
}

var shapeColors = map[Shape]string{
	ShapeI: "#00FFFF",
	ShapeO: "#FFFF00",
	ShapeT: "#800080",
	ShapeS: "#00FF00",
	ShapeZ: "#FF0000",
	ShapeJ: "#FF7F00",
	ShapeL: "#0000FF",
}

// IsValid returns true for one of the seven known shapes
func (s Shape) IsValid() bool {
	_, ok := shapeMatrices[s]
	return ok
}

// BaseMatrix returns a copy of the shape's spawn rotation
func (s Shape) BaseMatrix() Matrix {
	return shapeMatrices[s].Clone()
}

// Color returns the display color for the shape
func (s Shape) Color() string {
	return shapeColors[s]
}

// Rows returns the matrix height
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the matrix width
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy of the matrix
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for r, row := range m {
		out[r] = make([]bool, len(row))
		copy(out[r], row)
	}
	return out
}

// Rotated returns the matrix turned 90 degrees clockwise.
// Transpose then reverse each resulting row.
func (m Matrix) Rotated() Matrix {
	rows, cols := m.Rows(), m.Cols()
	out := make(Matrix, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]bool, rows)
		for r := 0; r < rows; r++ {
			out[c][rows-1-r] = m[r][c]
		}
	}
	return out
}

// Equal reports whether two matrices have identical dimensions and cells
func (m Matrix) Equal(other Matrix) bool {
	if m.Rows() != other.Rows() || m.Cols() != other.Cols() {
		return false
	}
	for r := range m {
		for c := range m[r] {
			if m[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// Piece is the active tetromino: a shape, its current rotation and an anchor
type Piece struct {
	Shape  Shape
	Matrix Matrix
	X      int // Anchor column of the matrix's left edge
	Y      int // Anchor row of the matrix's top edge
	Color  string
}

// NewPiece creates a piece in its spawn rotation at the given anchor
func NewPiece(shape Shape, x, y int) Piece {
	return Piece{
		Shape:  shape,
		Matrix: shape.BaseMatrix(),
		X:      x,
		Y:      y,
		Color:  shape.Color(),
	}
}

// Moved returns a copy of the piece translated by (dx, dy)
func (p Piece) Moved(dx, dy int) Piece {
	out := p.Clone()
	out.X += dx
	out.Y += dy
	return out
}

// Rotated returns a copy of the piece rotated clockwise around its anchor
func (p Piece) Rotated() Piece {
	out := p
	out.Matrix = p.Matrix.Rotated()
	return out
}

// Clone returns a deep copy of the piece
func (p Piece) Clone() Piece {
	out := p
	out.Matrix = p.Matrix.Clone()
	return out
}

// Cells returns the absolute board positions of the piece's occupied cells
func (p Piece) Cells() []Position {
	cells := make([]Position, 0, 4)
	for r, row := range p.Matrix {
		for c, filled := range row {
			if filled {
				cells = append(cells, Position{X: p.X + c, Y: p.Y + r})
			}
		}
	}
	return cells
}
