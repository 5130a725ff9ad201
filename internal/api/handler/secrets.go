package handler

import (
	"net/http"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/secrets"
)

// SecretHandler handles secret card endpoints
type SecretHandler struct {
	secrets secrets.ServiceInterface
}

// NewSecretHandler creates a new secret handler
func NewSecretHandler(secrets secrets.ServiceInterface) *SecretHandler {
	return &SecretHandler{secrets: secrets}
}

// PlayerSecrets handles GET /api/v1/sessions/{id}/players/{pid}/secrets.
// Roles are shown, as the caller is taken to be the owner.
func (h *SecretHandler) PlayerSecrets(w http.ResponseWriter, r *http.Request) {
	sid, pid, err := sessionAndPlayer(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	held, err := h.secrets.PlayerSecrets(r.Context(), sid, pid)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SecretsFromModel(held))
}

// Reveal handles POST /api/v1/sessions/{id}/secrets/{secret}/reveal
func (h *SecretHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	sid, secretID, err := sessionAndSecret(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	secret, err := h.secrets.Reveal(r.Context(), sid, secretID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SecretFromModel(secret, false))
}

// Hide handles POST /api/v1/sessions/{id}/secrets/{secret}/hide
func (h *SecretHandler) Hide(w http.ResponseWriter, r *http.Request) {
	sid, secretID, err := sessionAndSecret(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	secret, err := h.secrets.Hide(r.Context(), sid, secretID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SecretFromModel(secret, false))
}

// Transfer handles POST /api/v1/sessions/{id}/secrets/{secret}/transfer
func (h *SecretHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	sid, secretID, err := sessionAndSecret(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.TransferRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	secret, err := h.secrets.Transfer(r.Context(), sid, secretID, model.PlayerID(req.TargetPlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SecretFromModel(secret, false))
}

func sessionAndSecret(r *http.Request) (model.SessionID, model.SecretID, error) {
	sid, err := sessionID(r)
	if err != nil {
		return 0, 0, err
	}
	id, err := pathID(r, "secret")
	return sid, model.SecretID(id), err
}
