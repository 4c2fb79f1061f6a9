package model

import "time"

// SessionID uniquely identifies a local play session
type SessionID string

// MaxPlayersPerSession is the number of side-by-side boards a session supports
const MaxPlayersPerSession = 2

// SessionSummary is a lightweight description of a live session
type SessionSummary struct {
	ID        SessionID
	Mode      GameMode
	Players   []string
	CreatedAt time.Time
}

// PlayerView pairs a player's game state with their derived stats
type PlayerView struct {
	Index   int // 1-based seat number
	Profile PlayerProfile
	State   GameState
	Stats   StatsSnapshot
}

// SessionView is a point-in-time copy of every player in a session
type SessionView struct {
	ID        SessionID
	Mode      GameMode
	CreatedAt time.Time
	Players   []PlayerView
}

// Player returns the view for a 1-based seat number
func (v *SessionView) Player(index int) (*PlayerView, bool) {
	if index < 1 || index > len(v.Players) {
		return nil, false
	}
	return &v.Players[index-1], true
}
