package session

import (
	"context"

	"github.com/mcoot/tetris-showcase/internal/model"
)

// Publishers fans every update out to each publisher in order
type Publishers []Publisher

// PublishPlayerUpdate implements Publisher
func (p Publishers) PublishPlayerUpdate(ctx context.Context, sessionID model.SessionID, view model.PlayerView) {
	for _, publisher := range p {
		publisher.PublishPlayerUpdate(ctx, sessionID, view)
	}
}

// PublishSessionEnded implements Publisher
func (p Publishers) PublishSessionEnded(ctx context.Context, sessionID model.SessionID) {
	for _, publisher := range p {
		publisher.PublishSessionEnded(ctx, sessionID)
	}
}

var _ Publisher = Publishers(nil)
