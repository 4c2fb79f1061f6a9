package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Input events
	EventInput EventType = "input"

	// Piece lifecycle events
	EventPieceSpawned EventType = "piece_spawned"
	EventMoveApplied  EventType = "move_applied"
	EventMoveRejected EventType = "move_rejected"
	EventPieceLocked  EventType = "piece_locked"
	EventLinesCleared EventType = "lines_cleared"
	EventScoreGained  EventType = "score_gained"
	EventGameOver     EventType = "game_over"

	// Session control events
	EventPaused  EventType = "paused"
	EventResumed EventType = "resumed"
	EventReset   EventType = "reset"
)

// Event is a discrete occurrence emitted by a game engine
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any // Type-specific data
}

// InputPayload contains data for input events
type InputPayload struct {
	Command Command
	Valid   bool // false when the move was rejected
	Method  InputMethod
}

// PieceSpawnedPayload contains data for piece spawned events
type PieceSpawnedPayload struct {
	Shape Shape
	X     int
	Y     int
}

// MovePayload contains data for move applied/rejected events
type MovePayload struct {
	DX     int
	DY     int
	Rotate bool
}

// PieceLockedPayload contains data for piece locked events
type PieceLockedPayload struct {
	Shape        Shape
	PiecesPlaced int
}

// LinesClearedPayload contains data for lines cleared events
type LinesClearedPayload struct {
	Count          int
	IsTetris       bool
	IsPerfectClear bool
	TotalLines     int
	Level          int
}

// ScoreGainedPayload contains data for score gained events
type ScoreGainedPayload struct {
	Amount int
	Total  int
}

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	Score        int
	Lines        int
	Level        int
	PiecesPlaced int
}
