package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/session"
)

// Broadcaster pushes session updates to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// PublishPlayerUpdate broadcasts a player's state and analytics to the session's watchers
func (b *Broadcaster) PublishPlayerUpdate(ctx context.Context, sessionID model.SessionID, view model.PlayerView) {
	hub := b.hubManager.GetHub(sessionID)
	if hub == nil {
		return
	}

	events, err := b.renderer.RenderPlayerUpdate(ctx, sessionID, view)
	if err != nil {
		b.logger.Error("sse failed to render player update",
			slog.String("session_id", string(sessionID)),
			slog.Any("error", err))
		return
	}
	for _, event := range events {
		hub.Publish(event.EventName, event.Data)
	}
}

// PublishSessionEnded tells watchers the session is gone and closes its hub
func (b *Broadcaster) PublishSessionEnded(ctx context.Context, sessionID model.SessionID) {
	hub := b.hubManager.GetHub(sessionID)
	if hub == nil {
		return
	}

	event := b.renderer.RenderSessionEnded(sessionID)
	hub.Publish(event.EventName, event.Data)
	b.hubManager.RemoveHub(sessionID)
}

var _ session.Publisher = (*Broadcaster)(nil)
