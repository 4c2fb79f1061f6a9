package handler

import (
	"net/http"
	"time"

	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/session"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessions session.ManagerInterface
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions session.ManagerInterface) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	profiles := make([]model.PlayerProfile, 0, len(req.Players))
	for _, p := range req.Players {
		profiles = append(profiles, model.PlayerProfile{
			Name:     p.Name,
			Email:    p.Email,
			Company:  p.Company,
			RealName: p.RealName,
		})
	}

	view, err := h.sessions.Create(r.Context(), profiles)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(view))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries := h.sessions.List(r.Context())
	response.JSON(w, http.StatusOK, response.SessionList{Sessions: response.SessionSummariesFromModel(summaries)})
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	view, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(view))
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	if err := h.sessions.End(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Command handles POST /api/v1/sessions/{id}/players/{n}/commands
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	player, err := playerIndex(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.CommandRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	cmd, err := model.ParseCommand(req.Command)
	if err != nil {
		WriteError(w, err)
		return
	}

	method := model.InputMethod(req.InputMethod)
	switch method {
	case "", model.InputKeyboard, model.InputGamepad:
	default:
		WriteError(w, NewInvalidRequestError("input_method must be keyboard or gamepad"))
		return
	}

	view, changed, err := h.sessions.Command(r.Context(), id, player, cmd, method)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.PlayerViewFromModel(*view)
	resp.Changed = &changed
	response.JSON(w, http.StatusOK, resp)
}

// Tick handles POST /api/v1/sessions/{id}/tick
func (h *SessionHandler) Tick(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	var req request.TickRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.DeltaMS < 0 {
		WriteError(w, NewInvalidRequestError("delta_ms must not be negative"))
		return
	}

	view, err := h.sessions.Tick(r.Context(), id, time.Duration(req.DeltaMS)*time.Millisecond)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(view))
}
