package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sleuthgame-go/internal/api/handler"
	"github.com/mcoot/sleuthgame-go/internal/api/middleware"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	rootmiddleware "github.com/mcoot/sleuthgame-go/internal/middleware"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
	"github.com/mcoot/sleuthgame-go/internal/services/events"
	"github.com/mcoot/sleuthgame-go/internal/services/lobby"
	"github.com/mcoot/sleuthgame-go/internal/services/secrets"
	"github.com/mcoot/sleuthgame-go/internal/services/sets"
	"github.com/mcoot/sleuthgame-go/internal/services/turns"
	"github.com/mcoot/sleuthgame-go/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	LobbyController lobby.ControllerInterface
	CardService     cards.ServiceInterface
	SecretService   secrets.ServiceInterface
	SetService      sets.ServiceInterface
	TurnService     turns.ServiceInterface
	EventService    events.ServiceInterface
	HubManager      *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController, cfg.HubManager, cfg.Logger)
	cardHandler := handler.NewCardHandler(cfg.CardService)
	secretHandler := handler.NewSecretHandler(cfg.SecretService)
	setHandler := handler.NewSetHandler(cfg.SetService)
	gameHandler := handler.NewGameHandler(cfg.TurnService, cfg.EventService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(rootmiddleware.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Session lifecycle
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", lobbyHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("", lobbyHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", lobbyHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/join", lobbyHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/start", lobbyHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/finish", lobbyHandler.Finish).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/stream", lobbyHandler.Stream).Methods(http.MethodGet)

	// Turns, events and trades
	sessions.HandleFunc("/{id}/turn", gameHandler.CurrentTurn).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/turn/advance", gameHandler.AdvanceTurn).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/events", gameHandler.PlayEvent).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/trades/finalize", gameHandler.FinalizeTrade).Methods(http.MethodPost)

	// Cards
	sessions.HandleFunc("/{id}/players/{pid}/hand", cardHandler.Hand).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/players/{pid}/hand/pickup", cardHandler.PickUp).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/players/{pid}/hand/draft", cardHandler.TakeFromDraft).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/players/{pid}/hand/discard", cardHandler.Discard).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/draft", cardHandler.DraftPile).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/draft/replenish", cardHandler.ReplenishDraftPile).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/discards", cardHandler.Discards).Methods(http.MethodGet)

	// Secrets
	sessions.HandleFunc("/{id}/players/{pid}/secrets", secretHandler.PlayerSecrets).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/secrets/{secret}/reveal", secretHandler.Reveal).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/secrets/{secret}/hide", secretHandler.Hide).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/secrets/{secret}/transfer", secretHandler.Transfer).Methods(http.MethodPost)

	// Sets
	sessions.HandleFunc("/{id}/sets", setHandler.Compose).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/players/{pid}/sets", setHandler.OwnedSets).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/players/{pid}/set", setHandler.OwnedSet).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/sets/{set}/transfer", setHandler.Transfer).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
