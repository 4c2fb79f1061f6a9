package handler

import (
	"net/http"

	"github.com/mcoot/tetris-showcase/internal/api/middleware"
	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/services/auth"
	"github.com/mcoot/tetris-showcase/internal/services/leaderboard"
)

// AdminHandler handles admin login and leaderboard maintenance
type AdminHandler struct {
	authService *auth.Service
	leaderboard leaderboard.ServiceInterface
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service, leaderboard leaderboard.ServiceInterface) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		leaderboard: leaderboard,
	}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AdminSessionFromModel(session))
}

// Logout handles POST /api/v1/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.Admin(r.Context()).Token); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Session handles GET /api/v1/admin/session
func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.AdminSessionFromModel(middleware.Admin(r.Context())))
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leaderboard.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// Export handles POST /api/v1/admin/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.leaderboard.Export(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ExportFromModel(export))
}

// ClearRecords handles DELETE /api/v1/admin/records
func (h *AdminHandler) ClearRecords(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.leaderboard.ClearAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClearResult{DeletedCount: deleted})
}
