package handler

import (
	"net/http"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/sets"
)

// SetHandler handles detective set endpoints
type SetHandler struct {
	sets sets.ServiceInterface
}

// NewSetHandler creates a new set handler
func NewSetHandler(sets sets.ServiceInterface) *SetHandler {
	return &SetHandler{sets: sets}
}

// Compose handles POST /api/v1/sessions/{id}/sets
func (h *SetHandler) Compose(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.ComposeSetRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	set, err := h.sets.Compose(r.Context(), sid, request.CardIDs(req.CardIDs))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SetFromModel(set))
}

// OwnedSets handles GET /api/v1/sessions/{id}/players/{pid}/sets
func (h *SetHandler) OwnedSets(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	owned, err := h.sets.OwnedSets(r.Context(), sid, pid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SetsFromModel(owned))
}

// OwnedSet handles GET /api/v1/sessions/{id}/players/{pid}/set
func (h *SetHandler) OwnedSet(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	set, err := h.sets.OwnedSet(r.Context(), sid, pid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SetFromModel(set))
}

// Transfer handles POST /api/v1/sessions/{id}/sets/{set}/transfer
func (h *SetHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	setID, err := pathID(r, "set")
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.TransferRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	set, err := h.sets.TransferSet(r.Context(), sid, model.SetID(setID), model.PlayerID(req.TargetPlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SetFromModel(set))
}
