package model

import (
	"maps"
	"slices"
	"time"
)

// StatsSnapshot is a derived projection of one player's session
type StatsSnapshot struct {
	// Cumulative counters
	Score         int
	Level         int
	Lines         int
	Tetrises      int
	PerfectClears int
	PiecesPlaced  int
	Keypresses    int
	Errors        int

	// Timing series (bounded windows, oldest first)
	ReactionTimes []time.Duration
	DropTimes     []time.Duration

	// Reaction time aggregates, zero until the first sample
	AverageReactionTime time.Duration
	BestReactionTime    time.Duration
	WorstReactionTime   time.Duration

	// Rates
	LinesPerMinute  float64
	PiecesPerMinute float64
	ScorePerMinute  float64
	InputAccuracy   float64 // Percentage of inputs that were applied
	Intensity       float64 // Keypresses per minute

	// Tetris tracking
	TimeToFirstTetris      *time.Duration // nil until the first tetris
	ConsecutiveTetrisCount int
	BestTetrisStreak       int

	MovementPatterns map[Command]int
	InputMethod      InputMethod

	SessionStart time.Time
	Elapsed      time.Duration // Session time excluding pauses
}

// Clone returns a deep copy that shares no buffers with the receiver
func (s StatsSnapshot) Clone() StatsSnapshot {
	out := s
	out.ReactionTimes = slices.Clone(s.ReactionTimes)
	out.DropTimes = slices.Clone(s.DropTimes)
	out.MovementPatterns = maps.Clone(s.MovementPatterns)
	if out.MovementPatterns == nil {
		out.MovementPatterns = make(map[Command]int)
	}
	if s.TimeToFirstTetris != nil {
		t := *s.TimeToFirstTetris
		out.TimeToFirstTetris = &t
	}
	return out
}

// RecentReactionTimes returns up to n of the newest reaction times
func (s StatsSnapshot) RecentReactionTimes(n int) []time.Duration {
	if n <= 0 || len(s.ReactionTimes) == 0 {
		return []time.Duration{}
	}
	start := max(len(s.ReactionTimes)-n, 0)
	return slices.Clone(s.ReactionTimes[start:])
}
