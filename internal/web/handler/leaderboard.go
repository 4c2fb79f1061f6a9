package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/leaderboard"
	"github.com/mcoot/tetris-showcase/internal/web/templates/layout"
	"github.com/mcoot/tetris-showcase/internal/web/templates/pages"
)

// LeaderboardHandler serves the public leaderboard pages
type LeaderboardHandler struct {
	leaderboard leaderboard.ServiceInterface
	logger      *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboard leaderboard.ServiceInterface, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		logger:      logger.With(slog.String("component", "web-leaderboard")),
	}
}

// Index renders the top scores
func (h *LeaderboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.leaderboard.List(r.Context(), limit)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render(w, r, http.StatusOK, pages.Leaderboard(pages.LeaderboardData{
		PageData: layout.PageData{Title: "Leaderboard"},
		Records:  records,
	}))
}

// Record renders one leaderboard entry
func (h *LeaderboardHandler) Record(w http.ResponseWriter, r *http.Request) {
	id := model.RecordID(mux.Vars(r)["id"])

	record, err := h.leaderboard.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render(w, r, http.StatusOK, pages.Record(pages.RecordData{
		PageData: layout.PageData{Title: record.Name},
		Record:   record,
	}))
}
