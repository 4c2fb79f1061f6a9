package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/session"
	"github.com/mcoot/tetris-showcase/internal/web/templates/layout"
	"github.com/mcoot/tetris-showcase/internal/web/templates/pages"
)

// SessionHandler serves the spectator page for live sessions
type SessionHandler struct {
	sessions session.ManagerInterface
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions session.ManagerInterface, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "web-session")),
	}
}

// Watch renders a live session
func (h *SessionHandler) Watch(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	view, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	render(w, r, http.StatusOK, pages.Session(pages.SessionData{
		PageData: layout.PageData{Title: "Session " + string(view.ID)},
		Session:  view,
	}))
}
