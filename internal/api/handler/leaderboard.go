package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/leaderboard"
)

// LeaderboardHandler handles public leaderboard endpoints
type LeaderboardHandler struct {
	leaderboard leaderboard.ServiceInterface
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard leaderboard.ServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
	}
}

// List handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	records, err := h.leaderboard.List(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Records: response.RecordsFromModel(records)})
}

// Submit handles POST /api/v1/leaderboard
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.RecordRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	record, err := h.leaderboard.Submit(r.Context(), recordFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RecordFromModel(record))
}

// Get handles GET /api/v1/leaderboard/{id}
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	record, err := h.leaderboard.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RecordFromModel(record))
}

// Update handles PUT /api/v1/leaderboard/{id}
func (h *LeaderboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	var req request.RecordRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	record, err := h.leaderboard.Update(r.Context(), id, recordFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RecordFromModel(record))
}

// Delete handles DELETE /api/v1/leaderboard/{id}
func (h *LeaderboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	if err := h.leaderboard.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func recordFromRequest(req request.RecordRequest) *model.LeaderboardRecord {
	return &model.LeaderboardRecord{
		Name:                req.Name,
		Email:               req.Email,
		Company:             req.Company,
		RealName:            req.RealName,
		Score:               req.Score,
		Level:               req.Level,
		Lines:               req.Lines,
		Tetrises:            req.Tetrises,
		PiecesPlaced:        req.PiecesPlaced,
		AverageReactionTime: time.Duration(req.AverageReactionTimeMS) * time.Millisecond,
		InputAccuracy:       req.InputAccuracy,
		Intensity:           req.Intensity,
		LinesPerMinute:      req.LinesPerMinute,
		PiecesPerMinute:     req.PiecesPerMinute,
		GameDuration:        time.Duration(req.GameDurationMS) * time.Millisecond,
		GameMode:            model.GameMode(req.GameMode),
	}
}
