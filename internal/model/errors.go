package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidPlayerCount = errors.New("a session needs one or two players")
	ErrPlayerNotInSession = errors.New("player is not in session")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrTooManySessions    = errors.New("too many live sessions")

	// Autoplay errors
	ErrUnknownStrategy = errors.New("unknown bot strategy")
	ErrPlayerNotActive = errors.New("player is paused or game over")

	// Leaderboard errors
	ErrRecordNotFound = errors.New("leaderboard record not found")
	ErrInvalidRecord  = errors.New("invalid leaderboard record")

	// Admin errors
	ErrAdminNotFound      = errors.New("admin account not found")
	ErrAdminTokenNotFound = errors.New("admin token not found")
)
