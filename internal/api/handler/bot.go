package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/tetris-showcase/internal/api/request"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/services/bot"
)

// BotHandler handles autoplay requests
type BotHandler struct {
	bots *bot.Service
}

// NewBotHandler creates a new bot handler
func NewBotHandler(bots *bot.Service) *BotHandler {
	return &BotHandler{bots: bots}
}

// Strategies handles GET /api/v1/bot/strategies
func (h *BotHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Strategies{Strategies: h.bots.Strategies()})
}

// Autoplay handles POST /api/v1/sessions/{id}/players/{n}/autoplay
func (h *BotHandler) Autoplay(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	player, err := playerIndex(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	// An empty body plays with the defaults
	var req request.AutoplayRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		WriteError(w, err)
		return
	}
	if req.Pieces < 0 || req.Pieces > bot.MaxPieces {
		WriteError(w, NewInvalidRequestError("pieces must be between 0 and "+strconv.Itoa(bot.MaxPieces)))
		return
	}

	result, err := h.bots.Autoplay(r.Context(), id, player, req.Strategy, req.Pieces)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AutoplayFromBot(result))
}
