package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/session"
)

// Message types pushed to websocket clients
const (
	TypeAnalytics    = "analytics"
	TypeSessionEnded = "session_ended"
	TypeCommand      = "command_result"
	TypeError        = "error"
)

// Message is the envelope for every outbound websocket frame
type Message struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Hub tracks websocket connections per session and fans analytics out to them
type Hub struct {
	mu     sync.Mutex
	conns  map[model.SessionID]map[*conn]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[model.SessionID]map[*conn]struct{}),
		logger: logger.With(slog.String("component", "ws")),
	}
}

func (h *Hub) register(sessionID model.SessionID, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[sessionID]
	if !ok {
		set = make(map[*conn]struct{})
		h.conns[sessionID] = set
	}
	set[c] = struct{}{}
	h.logger.Info("ws client registered",
		slog.String("session_id", string(sessionID)),
		slog.Int("total_clients", len(set)))
}

func (h *Hub) unregister(sessionID model.SessionID, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.conns, sessionID)
	}
	h.logger.Info("ws client unregistered", slog.String("session_id", string(sessionID)))
}

// send queues a message for one connection. Caller must hold h.mu.
func (h *Hub) sendLocked(c *conn, msg Message) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("ws message dropped - client buffer full", slog.String("remote_addr", c.remoteAddr))
	}
}

func (h *Hub) reply(sessionID model.SessionID, c *conn, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[sessionID][c]; ok {
		h.sendLocked(c, msg)
	}
}

// PublishPlayerUpdate pushes a player's analytics to every connection on the session
func (h *Hub) PublishPlayerUpdate(ctx context.Context, sessionID model.SessionID, view model.PlayerView) {
	msg := Message{Type: TypeAnalytics, Data: response.AnalyticsFromModel(sessionID, view)}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns[sessionID] {
		h.sendLocked(c, msg)
	}
}

// PublishSessionEnded sends a final message and disconnects every connection on the session
func (h *Hub) PublishSessionEnded(ctx context.Context, sessionID model.SessionID) {
	msg := Message{Type: TypeSessionEnded, Data: map[string]string{"session_id": string(sessionID)}}

	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.conns[sessionID]
	for c := range set {
		h.sendLocked(c, msg)
		close(c.send)
	}
	delete(h.conns, sessionID)
	if len(set) > 0 {
		h.logger.Info("ws session closed",
			slog.String("session_id", string(sessionID)),
			slog.Int("disconnected_clients", len(set)))
	}
}

// ClientCount returns the number of connections watching a session
func (h *Hub) ClientCount(sessionID model.SessionID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[sessionID])
}

var _ session.Publisher = (*Hub)(nil)
