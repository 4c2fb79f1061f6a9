package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/board"
	"github.com/mcoot/tetris-showcase/internal/services/session"
)

const (
	// DefaultStrategy is used when a request names none
	DefaultStrategy = "greedy"
	// DefaultPieces is how many pieces one autoplay call places when unspecified
	DefaultPieces = 10
	// MaxPieces caps a single autoplay call
	MaxPieces = 500
)

// Move records one piece the bot placed
type Move struct {
	Shape     model.Shape
	Rotations int
	X         int
	Lines     int
	Inputs    int
}

// Result is the outcome of an autoplay run
type Result struct {
	Strategy string
	Moves    []Move
	View     *model.PlayerView
}

// Service drives session players with a placement strategy, for demo attract mode
type Service struct {
	sessions   session.ManagerInterface
	boards     board.ServiceInterface
	strategies map[string]Strategy
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	sessions session.ManagerInterface,
	boards board.ServiceInterface,
	strategies map[string]Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{
		sessions:   sessions,
		boards:     boards,
		strategies: strategies,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Strategies returns the registered strategy names, sorted
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Autoplay places up to pieces pieces for one player, stopping early at game over.
// Inputs go through the session like any other player input, so watchers see them live.
func (s *Service) Autoplay(ctx context.Context, id model.SessionID, playerIndex int, strategyName string, pieces int) (*Result, error) {
	if strategyName == "" {
		strategyName = DefaultStrategy
	}
	strategy, ok := s.strategies[strategyName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownStrategy, strategyName)
	}
	if pieces <= 0 {
		pieces = DefaultPieces
	}
	pieces = min(pieces, MaxPieces)

	view, err := s.sessions.View(ctx, id, playerIndex)
	if err != nil {
		return nil, err
	}
	if !active(view) {
		return nil, model.ErrPlayerNotActive
	}

	result := &Result{Strategy: strategyName, View: view}
	for len(result.Moves) < pieces && active(view) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		piece := *view.State.Piece
		move := Move{Shape: piece.Shape, X: piece.X}
		if candidates := Candidates(s.boards, view.State.Board, piece); len(candidates) > 0 {
			placement := strategy.Choose(candidates)
			move.Rotations, move.X = placement.Rotations, placement.X
		}

		linesBefore := view.State.Lines
		for _, cmd := range commandsFor(piece.X, move) {
			view, _, err = s.sessions.Command(ctx, id, playerIndex, cmd, model.InputBot)
			if err != nil {
				return result, err
			}
			move.Inputs++
		}
		move.Lines = view.State.Lines - linesBefore

		result.Moves = append(result.Moves, move)
		result.View = view
	}

	s.logger.Info("autoplay finished",
		slog.String("session_id", string(id)),
		slog.Int("player", playerIndex),
		slog.String("strategy", strategyName),
		slog.Int("pieces", len(result.Moves)),
		slog.Bool("game_over", view.State.IsGameOver),
	)
	return result, nil
}

func active(view *model.PlayerView) bool {
	return !view.State.IsGameOver && !view.State.IsPaused && view.State.Piece != nil
}

// commandsFor lists the inputs that carry a freshly spawned piece to its placement
func commandsFor(fromX int, move Move) []model.Command {
	cmds := make([]model.Command, 0, move.Rotations+abs(move.X-fromX)+1)
	for range move.Rotations {
		cmds = append(cmds, model.CommandRotate)
	}
	for x := fromX; x > move.X; x-- {
		cmds = append(cmds, model.CommandMoveLeft)
	}
	for x := fromX; x < move.X; x++ {
		cmds = append(cmds, model.CommandMoveRight)
	}
	return append(cmds, model.CommandHardDrop)
}
