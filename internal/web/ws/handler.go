package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mcoot/tetris-showcase/internal/api/apierr"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Buffer size for outgoing messages
	sendBufferSize = 64

	maxMessageSize = 1024
)

// CommandMessage is an inbound input sent over the socket
type CommandMessage struct {
	Player      int    `json:"player"`
	Command     string `json:"command"`
	InputMethod string `json:"input_method,omitempty"`
}

type conn struct {
	ws         *websocket.Conn
	send       chan Message
	remoteAddr string
}

// Handler upgrades session watchers to websockets
type Handler struct {
	hub      *Hub
	sessions session.ManagerInterface
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket handler bound to a hub
func NewHandler(hub *Hub, sessions session.ManagerInterface, logger *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// Serve handles GET /api/v1/sessions/{id}/ws
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	view, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &conn{
		ws:         wsConn,
		send:       make(chan Message, sendBufferSize),
		remoteAddr: r.RemoteAddr,
	}
	h.hub.register(sessionID, c)

	// Current state first so the client never starts blank
	for _, p := range view.Players {
		h.hub.reply(sessionID, c, Message{Type: TypeAnalytics, Data: response.AnalyticsFromModel(sessionID, p)})
	}

	go h.writePump(c)
	h.readPump(r.Context(), sessionID, c)
}

// readPump routes inbound commands to the session until the peer goes away
func (h *Handler) readPump(ctx context.Context, sessionID model.SessionID, c *conn) {
	defer func() {
		h.hub.unregister(sessionID, c)
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg CommandMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("ws read failed", slog.String("error", err.Error()))
			}
			return
		}
		h.hub.reply(sessionID, c, h.handleCommand(ctx, sessionID, msg))
	}
}

func (h *Handler) handleCommand(ctx context.Context, sessionID model.SessionID, msg CommandMessage) Message {
	cmd, err := model.ParseCommand(msg.Command)
	if err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}

	view, changed, err := h.sessions.Command(ctx, sessionID, msg.Player, cmd, model.InputMethod(msg.InputMethod))
	if err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}

	resp := response.PlayerViewFromModel(*view)
	resp.Changed = &changed
	return Message{Type: TypeCommand, Data: resp}
}

// writePump drains the send queue, pinging the peer while idle
func (h *Handler) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
