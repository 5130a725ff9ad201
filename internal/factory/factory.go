package factory

import (
	"errors"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/config"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
	"github.com/mcoot/sleuthgame-go/internal/services/events"
	"github.com/mcoot/sleuthgame-go/internal/services/lobby"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/services/secrets"
	"github.com/mcoot/sleuthgame-go/internal/services/sets"
	"github.com/mcoot/sleuthgame-go/internal/services/turns"
	"github.com/mcoot/sleuthgame-go/internal/sse"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/storage/memory"
	"github.com/mcoot/sleuthgame-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/sleuthgame-go/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Notifications
	HubManager *sse.HubManager
	Notifier   notify.Notifier

	// Services
	LobbyController *lobby.Controller
	CardService     *cards.Service
	SecretService   *secrets.Service
	SetService      *sets.Service
	TurnService     *turns.Service
	EventService    *events.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend (config.StorageMemory, ...)
	// If empty, defaults to memory
	StorageType string
	// RedisConfig is required if StorageType is redis
	RedisConfig *redisstorage.Config
	// PostgresConfig is required if StorageType is postgres
	PostgresConfig *postgres.Config
	// MaxDealAttempts overrides the secret dealing retry bound when positive
	MaxDealAttempts int
}

// ConfigFromServer maps the server's environment configuration onto Config
func ConfigFromServer(cfg config.Server, logger *slog.Logger) Config {
	out := Config{
		Logger:          logger,
		StorageType:     cfg.Storage,
		MaxDealAttempts: cfg.MaxDealAttempts,
	}
	switch cfg.Storage {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SessionTTL = cfg.SessionTTL
		out.RedisConfig = &redisCfg
	case config.StoragePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.DSN = cfg.PostgresDSN
		out.PostgresConfig = &pgCfg
	}
	return out
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var store storage.Storage
	switch cfg.StorageType {
	case "", config.StorageMemory:
		store = memory.New()
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case config.StoragePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgres.New(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	app := newWithDependencies(store, clock.New(), random.New(), logger)
	if cfg.MaxDealAttempts > 0 {
		app.LobbyController.MaxDealAttempts = cfg.MaxDealAttempts
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		HubManager:      hubManager,
		Notifier:        broadcaster,
		LobbyController: lobby.NewController(store, clk, rnd, broadcaster, logger),
		CardService:     cards.NewService(store, clk, rnd, broadcaster, logger),
		SecretService:   secrets.NewService(store, clk, broadcaster, logger),
		SetService:      sets.NewService(store, clk, broadcaster, logger),
		TurnService:     turns.NewService(store, clk, broadcaster, logger),
		EventService:    events.NewService(store, clk, rnd, broadcaster, logger),
	}
}

// Close disconnects stream clients and releases storage
func (a *App) Close() error {
	a.HubManager.Close()
	return a.Storage.Close()
}
