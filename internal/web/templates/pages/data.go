package pages

import (
	"github.com/a-h/templ"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/web/templates/layout"
)

// ErrorData holds the data for an error page
type ErrorData struct {
	layout.PageData
	Message string
}

// LeaderboardData holds the data for the leaderboard page
type LeaderboardData struct {
	layout.PageData
	Records []*model.LeaderboardRecord
}

// RecordData holds the data for a single leaderboard entry page
type RecordData struct {
	layout.PageData
	Record *model.LeaderboardRecord
}

// SessionData holds the data for the spectator page
type SessionData struct {
	layout.PageData
	Session *model.SessionView
}

func recordURL(id model.RecordID) templ.SafeURL {
	return templ.URL("/leaderboard/" + string(id))
}

func eventsURL(id model.SessionID) string {
	return "/api/v1/sessions/" + string(id) + "/events"
}
