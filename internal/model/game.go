package model

import (
	"fmt"
	"time"
)

// Phase is the state machine position of a single player's game
type Phase string

const (
	PhaseSpawning Phase = "spawning" // Selecting and placing the next piece
	PhaseActive   Phase = "active"   // Piece under player control
	PhaseLocking  Phase = "locking"  // Merging the landed piece into the board
	PhaseClearing Phase = "clearing" // Removing full rows
	PhaseGameOver Phase = "game_over"
)

// MoveResult is the outcome of a move attempt. Rejection is a normal outcome.
type MoveResult int

const (
	MoveRejected MoveResult = iota
	MoveApplied
	MoveLocked // Soft or hard drop landed the piece
)

// String returns the lowercase name of the result
func (r MoveResult) String() string {
	switch r {
	case MoveApplied:
		return "applied"
	case MoveLocked:
		return "locked"
	default:
		return "rejected"
	}
}

// Command is a player input accepted by the game engine
type Command string

const (
	CommandMoveLeft    Command = "move_left"
	CommandMoveRight   Command = "move_right"
	CommandSoftDrop    Command = "soft_drop"
	CommandRotate      Command = "rotate"
	CommandHardDrop    Command = "hard_drop"
	CommandPause       Command = "pause"
	CommandResume      Command = "resume"
	CommandTogglePause Command = "toggle_pause"
	CommandReset       Command = "reset"
)

var commandAliases = map[string]Command{
	"left":   CommandMoveLeft,
	"right":  CommandMoveRight,
	"down":   CommandSoftDrop,
	"drop":   CommandHardDrop,
	"toggle": CommandTogglePause,
}

// ParseCommand converts a wire name (or a short alias) to a Command
func ParseCommand(s string) (Command, error) {
	cmd := Command(s)
	switch cmd {
	case CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandRotate, CommandHardDrop,
		CommandPause, CommandResume, CommandTogglePause, CommandReset:
		return cmd, nil
	}
	if alias, ok := commandAliases[s]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCommand, s)
}

// IsMovement returns true for commands that act on the active piece
func (c Command) IsMovement() bool {
	switch c {
	case CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandRotate, CommandHardDrop:
		return true
	}
	return false
}

// InputMethod is the device a player is using
type InputMethod string

const (
	InputKeyboard InputMethod = "keyboard"
	InputGamepad  InputMethod = "gamepad"
	// InputBot marks inputs sent by the autoplayer; such games never reach the leaderboard
	InputBot InputMethod = "bot"
)

// GameMode distinguishes single-player from two-player sessions
type GameMode string

const (
	GameModeSingle      GameMode = "single"
	GameModeMultiplayer GameMode = "multiplayer"
)

// GameState is a read-only snapshot of one player's game
type GameState struct {
	Board        *Board
	Piece        *Piece // nil before the first spawn
	Phase        Phase
	IsGameOver   bool
	IsPaused     bool
	PiecesPlaced int
	Lines        int
	Score        int
	Level        int
	SpawnedAt    time.Time
}
