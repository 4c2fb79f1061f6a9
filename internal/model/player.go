package model

import "time"

// PlayerProfile is the registration data a player enters before a game
type PlayerProfile struct {
	Name     string // Nickname shown on the leaderboard (required)
	Email    string
	Company  string
	RealName string
}

// AdminAccount holds the credentials for the admin panel
// Stored separately from leaderboard records (password never leaves storage)
type AdminAccount struct {
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdminToken is the bearer credential returned by an admin login
type AdminToken struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer valid at now
func (t *AdminToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
