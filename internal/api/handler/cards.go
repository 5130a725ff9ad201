package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
)

// CardHandler handles hands, the draft pile and the discard pile
type CardHandler struct {
	cards cards.ServiceInterface
}

// NewCardHandler creates a new card handler
func NewCardHandler(cards cards.ServiceInterface) *CardHandler {
	return &CardHandler{cards: cards}
}

// Hand handles GET /api/v1/sessions/{id}/players/{pid}/hand
func (h *CardHandler) Hand(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	hand, err := h.cards.Hand(r.Context(), sid, pid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CardsFromModel(hand))
}

// PickUp handles POST /api/v1/sessions/{id}/players/{pid}/hand/pickup
func (h *CardHandler) PickUp(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.cards.PickUp(r.Context(), sid, pid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DrawResponseFromResult(result))
}

// TakeFromDraft handles POST /api/v1/sessions/{id}/players/{pid}/hand/draft
func (h *CardHandler) TakeFromDraft(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.CardRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.CardID <= 0 {
		WriteError(w, NewInvalidRequestError("card_id is required"))
		return
	}

	result, err := h.cards.TakeFromDraft(r.Context(), sid, pid, model.CardID(req.CardID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DrawResponseFromResult(result))
}

// Discard handles POST /api/v1/sessions/{id}/players/{pid}/hand/discard. A
// missing card_id discards the first card in hand.
func (h *CardHandler) Discard(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.CardRequest
	if err := decode(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	card, err := h.cards.Discard(r.Context(), sid, pid, model.CardID(req.CardID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CardFromModel(card))
}

// DraftPile handles GET /api/v1/sessions/{id}/draft
func (h *CardHandler) DraftPile(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	pile, err := h.cards.DraftPile(r.Context(), sid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CardsFromModel(pile))
}

// ReplenishDraftPile handles POST /api/v1/sessions/{id}/draft/replenish
func (h *CardHandler) ReplenishDraftPile(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	card, err := h.cards.ReplenishDraftPile(r.Context(), sid)
	if err != nil {
		WriteError(w, err)
		return
	}
	if card == nil {
		response.NoContent(w)
		return
	}
	response.JSON(w, http.StatusOK, response.CardFromModel(card))
}

// Discards handles GET /api/v1/sessions/{id}/discards?limit=
func (h *CardHandler) Discards(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	limit := model.RecentDiscardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			WriteError(w, NewInvalidRequestError("invalid limit: "+raw))
			return
		}
	}

	pile, err := h.cards.RecentDiscards(r.Context(), sid, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CardsFromModel(pile))
}
