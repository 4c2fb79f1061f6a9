package sse

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/web/templates/components"
)

// Event names pushed to session watchers
const (
	EventPlayerUpdate = "player-update"
	EventAnalytics    = "analytics"
	EventPlayerPanel  = "player-panel" // HTML for the spectator page
	EventSessionEnded = "session-ended"
)

// EventData represents SSE event data
type EventData struct {
	EventName string
	Data      string
}

// Renderer converts session updates to SSE payloads: JSON for API clients,
// HTML fragments for the spectator page
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderPlayerPanel renders the player panel component as HTML
func (r *Renderer) RenderPlayerPanel(ctx context.Context, view model.PlayerView) (string, error) {
	var buf bytes.Buffer
	err := components.PlayerPanel(view).Render(ctx, &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

// RenderPlayerUpdate returns the full player view, the compact analytics push
// and the spectator page's replacement panel
func (r *Renderer) RenderPlayerUpdate(ctx context.Context, sessionID model.SessionID, view model.PlayerView) ([]EventData, error) {
	full, err := json.Marshal(response.PlayerViewFromModel(view))
	if err != nil {
		return nil, err
	}
	analytics, err := json.Marshal(response.AnalyticsFromModel(sessionID, view))
	if err != nil {
		return nil, err
	}
	panel, err := r.RenderPlayerPanel(ctx, view)
	if err != nil {
		return nil, err
	}
	return []EventData{
		{EventName: EventPlayerUpdate, Data: string(full)},
		{EventName: EventAnalytics, Data: string(analytics)},
		{EventName: EventPlayerPanel, Data: WrapForOOBSwap(components.PanelID(view.Index), panel)},
	}, nil
}

// RenderSessionEnded returns the final event for a session
func (r *Renderer) RenderSessionEnded(sessionID model.SessionID) EventData {
	data, _ := json.Marshal(map[string]string{"session_id": string(sessionID)})
	return EventData{EventName: EventSessionEnded, Data: string(data)}
}
