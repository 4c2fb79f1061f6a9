package sse

import (
	"net/http"
	"strconv"
	"time"
)

const (
	pingPeriod     = 15 * time.Second
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Client is one open event stream
type Client struct {
	viewer      string
	send        chan Event
	connectedAt time.Time
}

// NewClient creates a client with a buffered send queue
func NewClient(viewer string) *Client {
	return &Client{
		viewer:      viewer,
		send:        make(chan Event, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// LastEventID reads the resume point a reconnecting EventSource sends,
// or the lastEventId query parameter for clients that cannot set headers
func LastEventID(r *http.Request) uint64 {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("lastEventId")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ServeSSE streams hub events to w until the client leaves or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, viewer string) {
	rc := http.NewResponseController(w)

	client := NewClient(viewer)
	replay, ok := hub.Subscribe(client, LastEventID(r))
	if !ok {
		http.Error(w, "Session ended", http.StatusGone)
		return
	}
	defer hub.Unsubscribe(client)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Accel-Buffering", "no")

	// Deadlines are per write so streams outlive the server WriteTimeout
	write := func(b []byte) bool {
		_ = rc.SetWriteDeadline(time.Now().Add(writeWait))
		if _, err := w.Write(b); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if !write([]byte("retry: 2000\nevent: connected\ndata: {\"status\":\"connected\"}\n\n")) {
		return
	}
	for _, e := range replay {
		if !write(e.Encode()) {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case e, ok := <-client.send:
			if !ok || !write(e.Encode()) {
				return
			}
		case <-ticker.C:
			if !write([]byte(": keepalive\n\n")) {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
