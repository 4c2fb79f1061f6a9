package response

import (
	"time"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/bot"
)

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// Health is the response for the health check
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Record represents a leaderboard record in API responses
type Record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Company  string `json:"company,omitempty"`
	RealName string `json:"real_name,omitempty"`

	Score        int `json:"score"`
	Level        int `json:"level"`
	Lines        int `json:"lines"`
	Tetrises     int `json:"tetrises"`
	PiecesPlaced int `json:"pieces_placed"`

	AverageReactionTimeMS int64   `json:"average_reaction_time_ms"`
	InputAccuracy         float64 `json:"input_accuracy"`
	Intensity             float64 `json:"intensity"`
	LinesPerMinute        float64 `json:"lines_per_minute"`
	PiecesPerMinute       float64 `json:"pieces_per_minute"`
	GameDurationMS        int64   `json:"game_duration_ms"`
	Timestamp             string  `json:"timestamp"`
	GameMode              string  `json:"game_mode"`
}

// RecordFromModel converts a model.LeaderboardRecord to a response Record
func RecordFromModel(r *model.LeaderboardRecord) Record {
	return Record{
		ID:                    string(r.ID),
		Name:                  r.Name,
		Email:                 r.Email,
		Company:               r.Company,
		RealName:              r.RealName,
		Score:                 r.Score,
		Level:                 r.Level,
		Lines:                 r.Lines,
		Tetrises:              r.Tetrises,
		PiecesPlaced:          r.PiecesPlaced,
		AverageReactionTimeMS: millis(r.AverageReactionTime),
		InputAccuracy:         r.InputAccuracy,
		Intensity:             r.Intensity,
		LinesPerMinute:        r.LinesPerMinute,
		PiecesPerMinute:       r.PiecesPerMinute,
		GameDurationMS:        millis(r.GameDuration),
		Timestamp:             r.Timestamp.UTC().Format(time.RFC3339),
		GameMode:              string(r.GameMode),
	}
}

// RecordsFromModel converts a slice of records
func RecordsFromModel(records []*model.LeaderboardRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, RecordFromModel(r))
	}
	return out
}

// Leaderboard is the response for listing records
type Leaderboard struct {
	Records []Record `json:"records"`
}

// Stats is the response for admin aggregates
type Stats struct {
	TotalPlayers int     `json:"total_players"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	TopScore     int     `json:"top_score"`
}

// StatsFromModel converts model.LeaderboardStats
func StatsFromModel(s *model.LeaderboardStats) Stats {
	return Stats{
		TotalPlayers: s.TotalPlayers,
		TotalScore:   s.TotalScore,
		AverageScore: s.AverageScore,
		TopScore:     s.TopScore,
	}
}

// Export is the response for a full leaderboard dump
type Export struct {
	Timestamp    string   `json:"timestamp"`
	TotalRecords int      `json:"total_records"`
	Data         []Record `json:"data"`
}

// ExportFromModel converts model.LeaderboardExport
func ExportFromModel(e *model.LeaderboardExport) Export {
	return Export{
		Timestamp:    e.Timestamp.UTC().Format(time.RFC3339),
		TotalRecords: e.TotalRecords,
		Data:         RecordsFromModel(e.Data),
	}
}

// ClearResult is the response for deleting every record
type ClearResult struct {
	DeletedCount int `json:"deleted_count"`
}

// AdminSession is the response for admin login
type AdminSession struct {
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
}

// AdminSessionFromModel creates an AdminSession from an issued token
func AdminSessionFromModel(s *model.AdminToken) AdminSession {
	return AdminSession{
		Username:     s.Username,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Piece represents the active tetromino
type Piece struct {
	Shape  string   `json:"shape"`
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Color  string   `json:"color"`
	Matrix [][]bool `json:"matrix"`
}

// GameState represents one player's board and piece
type GameState struct {
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Board        []string `json:"board"` // One string per row, '#' filled and '.' empty
	Piece        *Piece   `json:"piece,omitempty"`
	Phase        string   `json:"phase"`
	IsGameOver   bool     `json:"is_game_over"`
	IsPaused     bool     `json:"is_paused"`
	PiecesPlaced int      `json:"pieces_placed"`
	Lines        int      `json:"lines"`
	Score        int      `json:"score"`
	Level        int      `json:"level"`
}

// GameStateFromModel converts model.GameState
func GameStateFromModel(s model.GameState) GameState {
	out := GameState{
		Phase:        string(s.Phase),
		IsGameOver:   s.IsGameOver,
		IsPaused:     s.IsPaused,
		PiecesPlaced: s.PiecesPlaced,
		Lines:        s.Lines,
		Score:        s.Score,
		Level:        s.Level,
		Board:        []string{},
	}
	if s.Board != nil {
		out.Width = s.Board.Width
		out.Height = s.Board.Height
		out.Board = make([]string, 0, s.Board.Height)
		for _, row := range s.Board.Cells {
			line := make([]byte, len(row))
			for x, filled := range row {
				line[x] = '.'
				if filled {
					line[x] = '#'
				}
			}
			out.Board = append(out.Board, string(line))
		}
	}
	if s.Piece != nil {
		out.Piece = &Piece{
			Shape:  string(s.Piece.Shape),
			X:      s.Piece.X,
			Y:      s.Piece.Y,
			Color:  s.Piece.Color,
			Matrix: s.Piece.Matrix,
		}
	}
	return out
}

// StatsSnapshot represents one player's derived analytics
type StatsSnapshot struct {
	Score         int `json:"score"`
	Level         int `json:"level"`
	Lines         int `json:"lines"`
	Tetrises      int `json:"tetrises"`
	PerfectClears int `json:"perfect_clears"`
	PiecesPlaced  int `json:"pieces_placed"`
	Keypresses    int `json:"keypresses"`
	Errors        int `json:"errors"`

	ReactionTimesMS       []int64 `json:"reaction_times_ms"`
	DropTimesMS           []int64 `json:"drop_times_ms"`
	AverageReactionTimeMS int64   `json:"average_reaction_time_ms"`
	BestReactionTimeMS    int64   `json:"best_reaction_time_ms"`
	WorstReactionTimeMS   int64   `json:"worst_reaction_time_ms"`

	LinesPerMinute  float64 `json:"lines_per_minute"`
	PiecesPerMinute float64 `json:"pieces_per_minute"`
	ScorePerMinute  float64 `json:"score_per_minute"`
	InputAccuracy   float64 `json:"input_accuracy"`
	Intensity       float64 `json:"intensity"`

	TimeToFirstTetrisMS    *int64 `json:"time_to_first_tetris_ms"`
	ConsecutiveTetrisCount int    `json:"consecutive_tetris_count"`
	BestTetrisStreak       int    `json:"best_tetris_streak"`

	MovementPatterns map[string]int `json:"movement_patterns"`
	InputMethod      string         `json:"input_method"`
	SessionStart     string         `json:"session_start"`
	ElapsedMS        int64          `json:"elapsed_ms"`
}

func durationsMS(values []time.Duration) []int64 {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		out = append(out, millis(v))
	}
	return out
}

// StatsSnapshotFromModel converts model.StatsSnapshot
func StatsSnapshotFromModel(s model.StatsSnapshot) StatsSnapshot {
	out := StatsSnapshot{
		Score:                  s.Score,
		Level:                  s.Level,
		Lines:                  s.Lines,
		Tetrises:               s.Tetrises,
		PerfectClears:          s.PerfectClears,
		PiecesPlaced:           s.PiecesPlaced,
		Keypresses:             s.Keypresses,
		Errors:                 s.Errors,
		ReactionTimesMS:        durationsMS(s.ReactionTimes),
		DropTimesMS:            durationsMS(s.DropTimes),
		AverageReactionTimeMS:  millis(s.AverageReactionTime),
		BestReactionTimeMS:     millis(s.BestReactionTime),
		WorstReactionTimeMS:    millis(s.WorstReactionTime),
		LinesPerMinute:         s.LinesPerMinute,
		PiecesPerMinute:        s.PiecesPerMinute,
		ScorePerMinute:         s.ScorePerMinute,
		InputAccuracy:          s.InputAccuracy,
		Intensity:              s.Intensity,
		ConsecutiveTetrisCount: s.ConsecutiveTetrisCount,
		BestTetrisStreak:       s.BestTetrisStreak,
		MovementPatterns:       make(map[string]int, len(s.MovementPatterns)),
		InputMethod:            string(s.InputMethod),
		SessionStart:           s.SessionStart.UTC().Format(time.RFC3339),
		ElapsedMS:              millis(s.Elapsed),
	}
	for cmd, count := range s.MovementPatterns {
		out.MovementPatterns[string(cmd)] = count
	}
	if s.TimeToFirstTetris != nil {
		ms := millis(*s.TimeToFirstTetris)
		out.TimeToFirstTetrisMS = &ms
	}
	return out
}

// PlayerView represents one seat in a session
type PlayerView struct {
	Index   int           `json:"index"`
	Name    string        `json:"name"`
	Company string        `json:"company,omitempty"`
	State   GameState     `json:"state"`
	Stats   StatsSnapshot `json:"stats"`
	Changed *bool         `json:"changed,omitempty"`
}

// PlayerViewFromModel converts model.PlayerView
func PlayerViewFromModel(v model.PlayerView) PlayerView {
	return PlayerView{
		Index:   v.Index,
		Name:    v.Profile.Name,
		Company: v.Profile.Company,
		State:   GameStateFromModel(v.State),
		Stats:   StatsSnapshotFromModel(v.Stats),
	}
}

// Session represents a live session with every player's view
type Session struct {
	ID        string       `json:"id"`
	Mode      string       `json:"mode"`
	CreatedAt string       `json:"created_at"`
	Players   []PlayerView `json:"players"`
}

// SessionFromModel converts model.SessionView
func SessionFromModel(v *model.SessionView) Session {
	players := make([]PlayerView, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, PlayerViewFromModel(p))
	}
	return Session{
		ID:        string(v.ID),
		Mode:      string(v.Mode),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		Players:   players,
	}
}

// SessionSummary is a lightweight session listing entry
type SessionSummary struct {
	ID        string   `json:"id"`
	Mode      string   `json:"mode"`
	Players   []string `json:"players"`
	CreatedAt string   `json:"created_at"`
}

// SessionSummariesFromModel converts model.SessionSummary values
func SessionSummariesFromModel(summaries []model.SessionSummary) []SessionSummary {
	out := make([]SessionSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, SessionSummary{
			ID:        string(s.ID),
			Mode:      string(s.Mode),
			Players:   s.Players,
			CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// SessionList is the response for listing sessions
type SessionList struct {
	Sessions []SessionSummary `json:"sessions"`
}

// Analytics is the compact stats push sent to live consumers
type Analytics struct {
	SessionID         string  `json:"session_id"`
	Player            int     `json:"player"`
	Score             int     `json:"score"`
	Level             int     `json:"level"`
	Lines             int     `json:"lines"`
	Tetrises          int     `json:"tetrises"`
	PiecesPlaced      int     `json:"pieces_placed"`
	InputAccuracy     float64 `json:"input_accuracy"`
	Intensity         float64 `json:"intensity"`
	AverageReactionMS int64   `json:"average_reaction_time_ms"`
	RecentReactionsMS []int64 `json:"recent_reaction_times_ms"`
	IsGameOver        bool    `json:"is_game_over"`
	IsPaused          bool    `json:"is_paused"`
}

// RecentReactionCount is how many reaction times an analytics push carries
const RecentReactionCount = 10

// AnalyticsFromModel builds the compact analytics push for a player
func AnalyticsFromModel(sessionID model.SessionID, v model.PlayerView) Analytics {
	return Analytics{
		SessionID:         string(sessionID),
		Player:            v.Index,
		Score:             v.Stats.Score,
		Level:             v.Stats.Level,
		Lines:             v.Stats.Lines,
		Tetrises:          v.Stats.Tetrises,
		PiecesPlaced:      v.Stats.PiecesPlaced,
		InputAccuracy:     v.Stats.InputAccuracy,
		Intensity:         v.Stats.Intensity,
		AverageReactionMS: millis(v.Stats.AverageReactionTime),
		RecentReactionsMS: durationsMS(v.Stats.RecentReactionTimes(RecentReactionCount)),
		IsGameOver:        v.State.IsGameOver,
		IsPaused:          v.State.IsPaused,
	}
}

// BotMove is one piece placed by the autoplayer
type BotMove struct {
	Shape     string `json:"shape"`
	Rotations int    `json:"rotations"`
	X         int    `json:"x"`
	Lines     int    `json:"lines"`
	Inputs    int    `json:"inputs"`
}

// Autoplay is the response for an autoplay run
type Autoplay struct {
	Strategy string     `json:"strategy"`
	Moves    []BotMove  `json:"moves"`
	Player   PlayerView `json:"player"`
}

// AutoplayFromBot converts a bot.Result
func AutoplayFromBot(r *bot.Result) Autoplay {
	moves := make([]BotMove, 0, len(r.Moves))
	for _, m := range r.Moves {
		moves = append(moves, BotMove{
			Shape:     string(m.Shape),
			Rotations: m.Rotations,
			X:         m.X,
			Lines:     m.Lines,
			Inputs:    m.Inputs,
		})
	}
	return Autoplay{
		Strategy: r.Strategy,
		Moves:    moves,
		Player:   PlayerViewFromModel(*r.View),
	}
}

// Strategies lists the autoplayer's strategies
type Strategies struct {
	Strategies []string `json:"strategies"`
}
