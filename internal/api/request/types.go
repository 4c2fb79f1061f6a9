package request

// PlayerProfile is the registration data for one seat
type PlayerProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Company  string `json:"company,omitempty"`
	RealName string `json:"real_name,omitempty"`
}

// CreateSessionRequest is the request body for starting a session
type CreateSessionRequest struct {
	Players []PlayerProfile `json:"players"`
}

// CommandRequest is the request body for a player input
type CommandRequest struct {
	Command     string `json:"command"`
	InputMethod string `json:"input_method,omitempty"`
}

// TickRequest is the request body for advancing gravity manually
type TickRequest struct {
	DeltaMS int64 `json:"delta_ms"`
}

// AutoplayRequest is the request body for letting the bot play a seat
type AutoplayRequest struct {
	Strategy string `json:"strategy,omitempty"`
	Pieces   int    `json:"pieces,omitempty"`
}

// RecordRequest is the request body for submitting or updating a leaderboard record
type RecordRequest struct {
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
	GameMode              string  `json:"game_mode,omitempty"`
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
