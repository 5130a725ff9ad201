package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/lobby"
	"github.com/mcoot/sleuthgame-go/internal/sse"
)

// LobbyHandler handles the session lifecycle endpoints and the event stream
type LobbyHandler struct {
	controller lobby.ControllerInterface
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewLobbyHandler creates a new lobby handler. hubManager may be nil, which
// disables streaming.
func NewLobbyHandler(controller lobby.ControllerInterface, hubManager *sse.HubManager, logger *slog.Logger) *LobbyHandler {
	return &LobbyHandler{
		controller: controller,
		hubManager: hubManager,
		logger:     logger,
	}
}

// List handles GET /api/v1/sessions?phase=
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	phase := model.Phase(r.URL.Query().Get("phase"))
	switch phase {
	case "", model.PhaseAwaitingPlayers, model.PhaseBootable, model.PhaseFull,
		model.PhaseInProgress, model.PhaseFinished:
	default:
		WriteError(w, NewInvalidRequestError("unknown phase: "+string(phase)))
		return
	}

	sessions, err := h.controller.List(r.Context(), phase)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionSummariesFromModel(sessions))
}

// Create handles POST /api/v1/sessions
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	host, err := newPlayer(req.Host)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.Create(r.Context(), lobby.CreateParams{
		Name:       req.Name,
		MinPlayers: req.MinPlayers,
		MaxPlayers: req.MaxPlayers,
		Host:       host,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Get handles GET /api/v1/sessions/{id}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Join handles POST /api/v1/sessions/{id}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.PlayerRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	player, err := newPlayer(req)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, joined, err := h.controller.Join(r.Context(), id, player)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.JoinResponse{
		Player:  response.PlayerFromModel(session, joined),
		Session: response.SessionFromModel(session),
	})
}

// Leave handles POST /api/v1/sessions/{id}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.LeaveRequest
	if err := decode(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	session, deleted, err := h.controller.Leave(r.Context(), id, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}
	out := response.LeaveResponse{Deleted: deleted}
	if session != nil && !deleted {
		view := response.SessionFromModel(session)
		out.Session = &view
	}
	if deleted && h.hubManager != nil {
		h.hubManager.RemoveHub(id)
	}
	response.JSON(w, http.StatusOK, out)
}

// Start handles POST /api/v1/sessions/{id}/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.Start(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Finish handles POST /api/v1/sessions/{id}/finish
func (h *LobbyHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.FinishRequest
	if err := decode(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}
	reason := model.FinishReason(req.Reason)
	if reason != "" && reason != model.FinishEndedByHost {
		WriteError(w, NewInvalidRequestError("a session can only be ended by its host"))
		return
	}

	session, alreadyFinished, err := h.controller.Finish(r.Context(), id, reason)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.FinishResponse{
		AlreadyFinished: alreadyFinished,
		Session:         response.SessionFromModel(session),
	})
}

// Stream handles GET /api/v1/sessions/{id}/stream?player_id=
func (h *LobbyHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		WriteError(w, NewInvalidRequestError("streaming is not enabled"))
		return
	}
	id, err := sessionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var playerID model.PlayerID
	if raw := r.URL.Query().Get("player_id"); raw != "" {
		pid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, NewInvalidRequestError("invalid player_id: "+raw))
			return
		}
		playerID = model.PlayerID(pid)
	}

	session, err := h.controller.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	initial, err := sse.RenderSession(session)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Streams outlive the server's write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("stream write deadline not cleared", slog.Any("error", err))
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id), playerID, initial)
}

func newPlayer(req request.PlayerRequest) (lobby.NewPlayer, error) {
	birthDate, err := req.ParseBirthDate()
	if err != nil {
		return lobby.NewPlayer{}, NewInvalidRequestError("birth_date must be YYYY-MM-DD")
	}
	return lobby.NewPlayer{Name: req.Name, BirthDate: birthDate}, nil
}
