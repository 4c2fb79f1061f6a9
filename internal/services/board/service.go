package board

import (
	"github.com/mcoot/tetris-showcase/internal/model"
)

// Config holds playfield dimensions
type Config struct {
	Width  int
	Height int
}

// DefaultConfig returns the standard 10x20 playfield
func DefaultConfig() Config {
	return Config{
		Width:  model.DefaultBoardWidth,
		Height: model.DefaultBoardHeight,
	}
}

// Service provides playfield operations: collision, merging and line clearing
type Service struct {
	config Config
}

// New creates a new board Service
func New(config Config) *Service {
	if config.Width <= 0 || config.Height <= 0 {
		config = DefaultConfig()
	}
	return &Service{
		config: config,
	}
}

// Config returns the playfield dimensions this service creates boards with
func (s *Service) Config() Config {
	return s.config
}

// CreateBoard initializes an empty playfield
func (s *Service) CreateBoard() *model.Board {
	return model.NewBoard(s.config.Width, s.config.Height)
}

// SpawnPosition returns the anchor a new piece is placed at
func (s *Service) SpawnPosition() model.Position {
	return model.Position{X: s.config.Width/2 - 1, Y: 0}
}

// Collides reports whether a piece overlaps a wall, the floor or a locked cell.
// Cells above the top edge only collide with the side walls.
func (s *Service) Collides(board *model.Board, piece model.Piece) bool {
	for _, cell := range piece.Cells() {
		if cell.X < 0 || cell.X >= board.Width || cell.Y >= board.Height {
			return true
		}
		if cell.Y >= 0 && board.Occupied(cell) {
			return true
		}
	}
	return false
}

// Merge writes the piece's cells into the board, dropping any above the top edge.
// Returns the number of cells written.
func (s *Service) Merge(board *model.Board, piece model.Piece) int {
	merged := 0
	for _, cell := range piece.Cells() {
		if cell.Y < 0 {
			continue
		}
		board.Set(cell, true)
		merged++
	}
	return merged
}

// ClearLines removes every full row at once, shifting the rows above down and
// inserting empty rows at the top. Returns the number of rows removed.
func (s *Service) ClearLines(board *model.Board) int {
	kept := make([][]bool, 0, board.Height)
	for y := 0; y < board.Height; y++ {
		if !board.RowFull(y) {
			kept = append(kept, board.Cells[y])
		}
	}

	cleared := board.Height - len(kept)
	if cleared == 0 {
		return 0
	}

	rows := make([][]bool, 0, board.Height)
	for i := 0; i < cleared; i++ {
		rows = append(rows, make([]bool, board.Width))
	}
	board.Cells = append(rows, kept...)
	return cleared
}

// DropDistance returns how many rows the piece can fall before it would collide
func (s *Service) DropDistance(board *model.Board, piece model.Piece) int {
	distance := 0
	for !s.Collides(board, piece.Moved(0, distance+1)) {
		distance++
	}
	return distance
}

// IsTetris returns true when a single lock cleared four rows
func IsTetris(cleared int) bool {
	return cleared == 4
}

// Interface for dependency injection
type ServiceInterface interface {
	CreateBoard() *model.Board
	SpawnPosition() model.Position
	Collides(board *model.Board, piece model.Piece) bool
	Merge(board *model.Board, piece model.Piece) int
	ClearLines(board *model.Board) int
	DropDistance(board *model.Board, piece model.Piece) int
}

var _ ServiceInterface = (*Service)(nil)
