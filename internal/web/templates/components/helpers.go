package components

import (
	"strconv"

	"github.com/mcoot/tetris-showcase/internal/model"
)

// PanelID is the DOM id of the element wrapping a player's panel
func PanelID(index int) string {
	return "player-" + strconv.Itoa(index)
}

func playerStatus(state model.GameState) string {
	switch {
	case state.IsGameOver:
		return "game over"
	case state.IsPaused:
		return "paused"
	}
	return "playing"
}

func activeCells(piece *model.Piece) map[model.Position]bool {
	active := make(map[model.Position]bool, 4)
	if piece == nil {
		return active
	}
	for _, cell := range piece.Cells() {
		active[cell] = true
	}
	return active
}
