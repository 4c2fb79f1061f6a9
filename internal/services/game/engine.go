package game

import (
	"log/slog"
	"time"

	"github.com/mcoot/tetris-showcase/internal/dependencies/clock"
	"github.com/mcoot/tetris-showcase/internal/dependencies/random"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/board"
	"github.com/mcoot/tetris-showcase/internal/services/scoring"
)

// EventHandler receives events in the order the engine produces them
type EventHandler func(model.Event)

// Engine runs one player's board/piece state machine.
// It is not safe for concurrent use; callers serialise access.
type Engine struct {
	boardService   *board.Service
	scoringService *scoring.Service
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
	handlers       []EventHandler

	board        *model.Board
	piece        *model.Piece
	phase        model.Phase
	paused       bool
	piecesPlaced int
	lines        int
	score        int
	level        int
	spawnedAt    time.Time
	gravity      time.Duration // Tick time accumulated towards the next automatic drop
}

// NewEngine creates an engine with an empty board and no active piece.
// Call Start once handlers are subscribed.
func NewEngine(
	boardService *board.Service,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Engine {
	e := &Engine{
		boardService:   boardService,
		scoringService: scoringService,
		clock:          clock,
		random:         random,
		logger:         logger,
	}
	e.clear()
	return e
}

// Subscribe registers a handler for every subsequent event
func (e *Engine) Subscribe(handler EventHandler) {
	e.handlers = append(e.handlers, handler)
}

// Start spawns the first piece. It has no effect once a piece exists.
func (e *Engine) Start() {
	if e.piece != nil || e.phase == model.PhaseGameOver {
		return
	}
	e.SpawnPiece()
}

func (e *Engine) clear() {
	e.board = e.boardService.CreateBoard()
	e.piece = nil
	e.phase = model.PhaseSpawning
	e.paused = false
	e.piecesPlaced = 0
	e.lines = 0
	e.score = 0
	e.level = e.scoringService.Level(0)
	e.spawnedAt = time.Time{}
	e.gravity = 0
}

func (e *Engine) emit(eventType model.EventType, payload any) {
	event := model.Event{
		Type:      eventType,
		Timestamp: e.clock.Now(),
		Payload:   payload,
	}
	for _, handler := range e.handlers {
		handler(event)
	}
}

// SpawnPiece places a uniformly random tetromino at the spawn anchor.
// If it immediately collides the game is over.
func (e *Engine) SpawnPiece() {
	if e.phase == model.PhaseGameOver {
		return
	}
	e.phase = model.PhaseSpawning

	shape := model.Shapes[e.random.Intn(len(model.Shapes))]
	pos := e.boardService.SpawnPosition()
	piece := model.NewPiece(shape, pos.X, pos.Y)

	e.piece = &piece
	e.spawnedAt = e.clock.Now()
	e.gravity = 0

	if e.boardService.Collides(e.board, piece) {
		e.gameOver()
		return
	}

	e.phase = model.PhaseActive
	e.emit(model.EventPieceSpawned, model.PieceSpawnedPayload{
		Shape: shape,
		X:     piece.X,
		Y:     piece.Y,
	})
}

func (e *Engine) gameOver() {
	e.phase = model.PhaseGameOver
	e.logger.Info("game over",
		slog.Int("score", e.score),
		slog.Int("lines", e.lines),
		slog.Int("level", e.level),
		slog.Int("pieces_placed", e.piecesPlaced),
	)
	e.emit(model.EventGameOver, model.GameOverPayload{
		Score:        e.score,
		Lines:        e.lines,
		Level:        e.level,
		PiecesPlaced: e.piecesPlaced,
	})
}

func (e *Engine) canAct() bool {
	return e.phase == model.PhaseActive && !e.paused && e.piece != nil
}

func (e *Engine) candidate(dx, dy int, rotate bool) model.Piece {
	next := *e.piece
	if rotate {
		next = next.Rotated()
	}
	return next.Moved(dx, dy)
}

// AttemptMove translates and optionally rotates the active piece.
// A colliding candidate is discarded and the piece is left untouched.
func (e *Engine) AttemptMove(dx, dy int, rotate bool) model.MoveResult {
	if !e.canAct() {
		return model.MoveRejected
	}

	payload := model.MovePayload{DX: dx, DY: dy, Rotate: rotate}
	next := e.candidate(dx, dy, rotate)
	if e.boardService.Collides(e.board, next) {
		e.emit(model.EventMoveRejected, payload)
		return model.MoveRejected
	}

	e.piece = &next
	e.emit(model.EventMoveApplied, payload)
	return model.MoveApplied
}

// SoftDrop moves the piece down one row, locking it if it cannot fall further
func (e *Engine) SoftDrop() model.MoveResult {
	if !e.canAct() {
		return model.MoveRejected
	}
	if result := e.AttemptMove(0, 1, false); result == model.MoveApplied {
		return result
	}
	e.lockPiece()
	return model.MoveLocked
}

// HardDrop drops the piece to rest and locks it in one transition
func (e *Engine) HardDrop() model.MoveResult {
	if !e.canAct() {
		return model.MoveRejected
	}
	distance := e.boardService.DropDistance(e.board, *e.piece)
	landed := e.piece.Moved(0, distance)
	e.piece = &landed
	e.lockPiece()
	return model.MoveLocked
}

func (e *Engine) lockPiece() {
	e.phase = model.PhaseLocking
	e.boardService.Merge(e.board, *e.piece)
	e.piecesPlaced++
	e.emit(model.EventPieceLocked, model.PieceLockedPayload{
		Shape:        e.piece.Shape,
		PiecesPlaced: e.piecesPlaced,
	})

	e.phase = model.PhaseClearing
	cleared := e.boardService.ClearLines(e.board)
	if cleared > 0 {
		levelBefore := e.level
		e.lines += cleared
		e.level = e.scoringService.Level(e.lines)
		e.emit(model.EventLinesCleared, model.LinesClearedPayload{
			Count:          cleared,
			IsTetris:       board.IsTetris(cleared),
			IsPerfectClear: e.board.IsEmpty(),
			TotalLines:     e.lines,
			Level:          e.level,
		})

		points := e.scoringService.LineClearScore(cleared, levelBefore)
		e.score += points
		e.emit(model.EventScoreGained, model.ScoreGainedPayload{
			Amount: points,
			Total:  e.score,
		})
	}

	e.SpawnPiece()
}

// Tick advances gravity by delta, soft dropping once per elapsed gravity interval.
// Returns true if at least one drop happened.
func (e *Engine) Tick(delta time.Duration) bool {
	if !e.canAct() || delta <= 0 {
		return false
	}

	dropped := false
	e.gravity += delta
	for e.canAct() {
		interval := e.scoringService.GravityInterval(e.level)
		if e.gravity < interval {
			break
		}
		e.gravity -= interval
		result := e.SoftDrop()
		dropped = true
		if result == model.MoveLocked {
			// A fresh piece starts with an empty gravity budget
			break
		}
	}
	return dropped
}

// Pause suspends ticks and input. Returns false if already paused or over.
func (e *Engine) Pause() bool {
	if e.paused || e.phase == model.PhaseGameOver {
		return false
	}
	e.paused = true
	e.emit(model.EventPaused, nil)
	return true
}

// Resume lifts a pause. Returns false if not paused.
func (e *Engine) Resume() bool {
	if !e.paused || e.phase == model.PhaseGameOver {
		return false
	}
	e.paused = false
	e.emit(model.EventResumed, nil)
	return true
}

// TogglePause pauses a running game or resumes a paused one
func (e *Engine) TogglePause() bool {
	if e.paused {
		return e.Resume()
	}
	return e.Pause()
}

// Reset discards the board and counters and spawns a new piece
func (e *Engine) Reset() {
	e.clear()
	e.logger.Debug("game reset")
	e.emit(model.EventReset, nil)
	e.SpawnPiece()
}

// HandleCommand applies a player command sent from the given input device.
// Returns true if it changed state. Movement commands emit an input event
// before any resulting move events; they are ignored entirely while paused
// or after game over.
func (e *Engine) HandleCommand(cmd model.Command, method model.InputMethod) bool {
	switch cmd {
	case model.CommandPause:
		return e.Pause()
	case model.CommandResume:
		return e.Resume()
	case model.CommandTogglePause:
		return e.TogglePause()
	case model.CommandReset:
		e.Reset()
		return true
	}

	if !cmd.IsMovement() || !e.canAct() {
		return false
	}

	switch cmd {
	case model.CommandMoveLeft:
		return e.input(cmd, method, -1, 0, false)
	case model.CommandMoveRight:
		return e.input(cmd, method, 1, 0, false)
	case model.CommandRotate:
		return e.input(cmd, method, 0, 0, true)
	case model.CommandSoftDrop:
		e.recordInput(cmd, method, true)
		e.SoftDrop()
		return true
	case model.CommandHardDrop:
		e.recordInput(cmd, method, true)
		e.HardDrop()
		return true
	}
	return false
}

func (e *Engine) input(cmd model.Command, method model.InputMethod, dx, dy int, rotate bool) bool {
	valid := !e.boardService.Collides(e.board, e.candidate(dx, dy, rotate))
	e.recordInput(cmd, method, valid)
	return e.AttemptMove(dx, dy, rotate) == model.MoveApplied
}

func (e *Engine) recordInput(cmd model.Command, method model.InputMethod, valid bool) {
	e.emit(model.EventInput, model.InputPayload{
		Command: cmd,
		Valid:   valid,
		Method:  method,
	})
}

// IsGameOver returns true once a spawned piece has collided
func (e *Engine) IsGameOver() bool {
	return e.phase == model.PhaseGameOver
}

// IsPaused returns true while the game is paused
func (e *Engine) IsPaused() bool {
	return e.paused
}

// Snapshot returns a deep copy of the current game state
func (e *Engine) Snapshot() model.GameState {
	state := model.GameState{
		Board:        e.board.Clone(),
		Phase:        e.phase,
		IsGameOver:   e.phase == model.PhaseGameOver,
		IsPaused:     e.paused,
		PiecesPlaced: e.piecesPlaced,
		Lines:        e.lines,
		Score:        e.score,
		Level:        e.level,
		SpawnedAt:    e.spawnedAt,
	}
	if e.piece != nil {
		piece := e.piece.Clone()
		state.Piece = &piece
	}
	return state
}

// EngineInterface for dependency injection
type EngineInterface interface {
	Subscribe(handler EventHandler)
	Start()
	SpawnPiece()
	AttemptMove(dx, dy int, rotate bool) model.MoveResult
	SoftDrop() model.MoveResult
	HardDrop() model.MoveResult
	Tick(delta time.Duration) bool
	Pause() bool
	Resume() bool
	TogglePause() bool
	Reset()
	HandleCommand(cmd model.Command, method model.InputMethod) bool
	IsGameOver() bool
	IsPaused() bool
	Snapshot() model.GameState
}

var _ EngineInterface = (*Engine)(nil)
