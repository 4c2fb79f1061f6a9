package handler

import (
	"net/http"

	"github.com/mcoot/tetris-showcase/internal/services/session"
	"github.com/mcoot/tetris-showcase/internal/web/sse"
)

// EventsHandler streams live session updates over SSE
type EventsHandler struct {
	sessions   session.ManagerInterface
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(sessions session.ManagerInterface, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		sessions:   sessions,
		hubManager: hubManager,
	}
}

// Stream handles GET /api/v1/sessions/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, r.RemoteAddr)
}
