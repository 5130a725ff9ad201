package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/sleuthgame-go/internal/api"
	"github.com/mcoot/sleuthgame-go/internal/config"
	"github.com/mcoot/sleuthgame-go/internal/factory"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "sleuth-server", cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	app, err := factory.New(factory.ConfigFromServer(cfg, logger))
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		LobbyController: app.LobbyController,
		CardService:     app.CardService,
		SecretService:   app.SecretService,
		SetService:      app.SetService,
		TurnService:     app.TurnService,
		EventService:    app.EventService,
		HubManager:      app.HubManager,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		// Streams never finish on their own, so end them before draining.
		app.HubManager.Close()
		shutdownErr := server.Shutdown(context.Background())
		if err := app.Close(); err != nil {
			logger.Warn("storage close failed", slog.String("error", err.Error()))
		}
		return shutdownErr
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.HubCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := app.HubManager.CleanupEmptyHubs(); n > 0 {
					logger.Debug("closed idle event hubs", slog.Int("count", n))
				}
			}
		}
	})

	logger.Info("server started", slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage))

	return g.Wait()
}
