package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type gameHandler struct {
	responder api.Responder
	logger    zerolog.Logger
	registry  *game.Registry
}

func newGameHandler(registry *game.Registry) gameHandler {
	logger := log.With().Str("handlerName", "gameHandler").Logger()
	return gameHandler{
		responder: api.NewResponder(logger),
		logger:    logger,
		registry:  registry,
	}
}

type gameResponse struct {
	game.Snapshot
	Elapsed string `json:"elapsed"`
}

func newGameResponse(s game.Snapshot) gameResponse {
	return gameResponse{Snapshot: s, Elapsed: game.FormatElapsed(s.ElapsedSeconds)}
}

func (h gameHandler) current(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, err := h.registry.Game(w, r)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to load game session", err))
		return nil, false
	}
	return g, true
}

// getGame returns the caller's board
// @Summary Get memory game
// @Tags Game
// @Produce json
// @Success 200 {object} gameResponse "Board state"
// @Router /game [get]
func (h gameHandler) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := h.current(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, newGameResponse(g.Snapshot()))
	}
}

// startGame deals a fresh shuffled board
// @Summary Start memory game
// @Tags Game
// @Produce json
// @Success 200 {object} gameResponse "Board state"
// @Router /game/start [post]
func (h gameHandler) startGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := h.current(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, newGameResponse(g.Start()))
	}
}

// selectCard flips a card
// @Summary Select card
// @Tags Game
// @Produce json
// @Param id path int true "Card id"
// @Success 200 {object} gameResponse "Board state"
// @Failure 404 {object} api.ErrorResponse "Not Found - Unknown card"
// @Failure 409 {object} api.ErrorResponse "Conflict - Game is not being played"
// @Router /game/cards/{id} [post]
func (h gameHandler) selectCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("id", "must be a card number"))
			return
		}
		g, ok := h.current(w, r)
		if !ok {
			return
		}

		snapshot, err := g.Select(id)
		switch {
		case errors.Is(err, game.ErrUnknownCard):
			h.responder.WriteError(w, errs.NewNotFoundError("Card not found"))
		case errors.Is(err, game.ErrNotPlaying):
			h.responder.WriteError(w, errs.NewConflictError("Game is not being played"))
		case err != nil:
			h.responder.WriteError(w, err)
		default:
			h.responder.WriteJSON(w, newGameResponse(snapshot))
		}
	}
}
