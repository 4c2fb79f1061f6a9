package sse

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/tetris-showcase/internal/model"
)

// historySize is how many recent events a hub keeps for Last-Event-ID replay
const historySize = 64

// Event is one numbered SSE frame. IDs increase per hub, starting at 1.
type Event struct {
	ID   uint64
	Name string
	Data string
}

// Encode renders the wire form; multi-line data becomes several data: lines
func (e Event) Encode() []byte {
	var b strings.Builder
	if e.ID > 0 {
		b.WriteString("id: " + strconv.FormatUint(e.ID, 10) + "\n")
	}
	b.WriteString("event: " + e.Name + "\n")
	for _, line := range splitLines(e.Data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Hub fans a session's events out to its SSE watchers.
// Delivery happens under the hub lock, so watchers see events in ID order
// and an event published before Close always reaches them.
type Hub struct {
	sessionID model.SessionID
	logger    *slog.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	lastID  uint64
	history []Event
	closed  bool
}

// NewHub creates an open hub for a session
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID: sessionID,
		logger:    logger.With(slog.String("session_id", string(sessionID))),
		clients:   make(map[*Client]struct{}),
	}
}

// Subscribe adds a client and returns the buffered events newer than
// lastEventID. It reports false once the hub has closed.
func (h *Hub) Subscribe(client *Client, lastEventID uint64) ([]Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.clients[client] = struct{}{}

	var replay []Event
	if lastEventID > 0 {
		for _, e := range h.history {
			if e.ID > lastEventID {
				replay = append(replay, e)
			}
		}
	}
	h.logger.Info("sse client subscribed",
		slog.String("viewer", client.viewer),
		slog.Int("replayed", len(replay)),
		slog.Int("total_clients", len(h.clients)))
	return replay, true
}

// Unsubscribe removes a client. Safe after Close.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.logger.Info("sse client unsubscribed",
		slog.String("viewer", client.viewer),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", len(h.clients)))
}

// Publish numbers an event, records it for replay and hands it to every
// client. A client whose buffer is full misses the event.
func (h *Hub) Publish(name, data string) Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return Event{}
	}

	h.lastID++
	event := Event{ID: h.lastID, Name: name, Data: data}
	if len(h.history) == historySize {
		h.history = append(h.history[:0], h.history[1:]...)
	}
	h.history = append(h.history, event)

	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse event dropped for slow clients",
			slog.String("event", name),
			slog.Int("dropped", dropped),
			slog.Int("total_clients", len(h.clients)))
	}
	return event
}

// Close disconnects every client. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.logger.Info("sse hub closed")
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HubManager owns one Hub per watched session
type HubManager struct {
	mu     sync.Mutex
	hubs   map[model.SessionID]*Hub
	logger *slog.Logger
}

// NewHubManager creates an empty HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.SessionID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the session's hub, opening one on first use
func (m *HubManager) GetOrCreateHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	hub, ok := m.hubs[sessionID]
	if !ok {
		hub = NewHub(sessionID, m.logger)
		m.hubs[sessionID] = hub
	}
	return hub
}

// GetHub returns the session's hub, or nil when nobody is watching
func (m *HubManager) GetHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[sessionID]
}

// RemoveHub closes and forgets a session's hub
func (m *HubManager) RemoveHub(sessionID model.SessionID) {
	m.mu.Lock()
	hub, ok := m.hubs[sessionID]
	delete(m.hubs, sessionID)
	m.mu.Unlock()

	if ok {
		hub.Close()
	}
}

// CleanupEmptyHubs closes hubs with no clients and returns how many went
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	var idle []*Hub
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			idle = append(idle, hub)
			delete(m.hubs, id)
		}
	}
	m.mu.Unlock()

	for _, hub := range idle {
		hub.Close()
	}
	if len(idle) > 0 {
		m.logger.Info("sse idle hubs removed", slog.Int("removed", len(idle)))
	}
	return len(idle)
}

// HubCount returns the number of open hubs
func (m *HubManager) HubCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hubs)
}

// CloseAll disconnects every watcher, for server shutdown
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	hubs := m.hubs
	m.hubs = make(map[model.SessionID]*Hub)
	m.mu.Unlock()

	for _, hub := range hubs {
		hub.Close()
	}
}

// RunJanitor calls CleanupEmptyHubs every interval until ctx is done
func (m *HubManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupEmptyHubs()
		}
	}
}
