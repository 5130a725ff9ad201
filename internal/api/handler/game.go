package handler

import (
	"net/http"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/events"
	"github.com/mcoot/sleuthgame-go/internal/services/turns"
)

// GameHandler handles turns, event cards and trades
type GameHandler struct {
	turns  turns.ServiceInterface
	events events.ServiceInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(turns turns.ServiceInterface, events events.ServiceInterface) *GameHandler {
	return &GameHandler{turns: turns, events: events}
}

// CurrentTurn handles GET /api/v1/sessions/{id}/turn
func (h *GameHandler) CurrentTurn(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.turns.CurrentPlayer(r.Context(), sid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TurnResponseFromModel(player))
}

// AdvanceTurn handles POST /api/v1/sessions/{id}/turn/advance
func (h *GameHandler) AdvanceTurn(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.turns.AdvanceTurn(r.Context(), sid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TurnResponseFromModel(player))
}

// PlayEvent handles POST /api/v1/sessions/{id}/events
func (h *GameHandler) PlayEvent(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.PlayEventRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Event == "" || req.PlayerID <= 0 {
		WriteError(w, NewInvalidRequestError("event and player_id are required"))
		return
	}

	outcome, err := h.events.Play(r.Context(), sid, events.Play{
		Event:          model.EventName(req.Event),
		PlayerID:       model.PlayerID(req.PlayerID),
		EventCardID:    model.CardID(req.EventCardID),
		TargetPlayerID: model.PlayerID(req.TargetPlayerID),
		TargetEvent:    model.EventName(req.TargetEvent),
		CardID:         model.CardID(req.CardID),
		CardIDs:        request.CardIDs(req.CardIDs),
		SecretID:       model.SecretID(req.SecretID),
		SetID:          model.SetID(req.SetID),
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.OutcomeFromModel(outcome))
}

// FinalizeTrade handles POST /api/v1/sessions/{id}/trades/finalize
func (h *GameHandler) FinalizeTrade(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.FinalizeTradeRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.events.FinalizeTrade(r.Context(), sid,
		model.PlayerID(req.FromPlayerID), model.CardID(req.FromCardID),
		model.PlayerID(req.ToPlayerID), model.CardID(req.ToCardID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}
