package model

import "time"

// RecordID uniquely identifies a leaderboard record
type RecordID string

// LeaderboardRecord is the flat document persisted at the end of a game
type LeaderboardRecord struct {
	ID       RecordID
	Name     string
	Email    string
	Company  string
	RealName string

	Score        int
	Level        int
	Lines        int
	Tetrises     int
	PiecesPlaced int

	AverageReactionTime time.Duration
	InputAccuracy       float64
	Intensity           float64
	LinesPerMinute      float64
	PiecesPerMinute     float64

	GameDuration time.Duration
	Timestamp    time.Time
	GameMode     GameMode
}

// NewLeaderboardRecord builds a record from a player's profile and final stats.
// The ID is left empty for the leaderboard to assign.
func NewLeaderboardRecord(profile PlayerProfile, mode GameMode, stats StatsSnapshot, endedAt time.Time) *LeaderboardRecord {
	return &LeaderboardRecord{
		Name:                profile.Name,
		Email:               profile.Email,
		Company:             profile.Company,
		RealName:            profile.RealName,
		Score:               stats.Score,
		Level:               stats.Level,
		Lines:               stats.Lines,
		Tetrises:            stats.Tetrises,
		PiecesPlaced:        stats.PiecesPlaced,
		AverageReactionTime: stats.AverageReactionTime,
		InputAccuracy:       stats.InputAccuracy,
		Intensity:           stats.Intensity,
		LinesPerMinute:      stats.LinesPerMinute,
		PiecesPerMinute:     stats.PiecesPerMinute,
		GameDuration:        stats.Elapsed,
		Timestamp:           endedAt,
		GameMode:            mode,
	}
}

// LeaderboardStats are aggregates over every stored record
type LeaderboardStats struct {
	TotalPlayers int
	TotalScore   int
	AverageScore float64
	TopScore     int
}

// LeaderboardExport is a full dump of the leaderboard
type LeaderboardExport struct {
	Timestamp    time.Time
	TotalRecords int
	Data         []*LeaderboardRecord
}
