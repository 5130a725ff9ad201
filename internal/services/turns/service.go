package turns

import (
	"context"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

// Service moves the turn pointer of running sessions
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new turns Service
func NewService(
	storage storage.Storage,
	clock clock.Clock,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "turns")),
	}
}

// AdvanceTurn ends the current turn and returns the next player
func (s *Service) AdvanceTurn(ctx context.Context, sessionID model.SessionID) (player *model.Player, err error) {
	ctx, span := telemetry.Start(ctx, "turns.AdvanceTurn", sessionID)
	defer telemetry.End(span, &err)

	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if _, err := AdvanceTurn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	player, err = CurrentPlayer(session)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(session, model.ChangeSession)
	s.logger.Debug("turn advanced",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int("turn", session.CurrentTurn),
		slog.Int64("player_id", int64(player.ID)),
	)
	return player, nil
}

// CurrentPlayer returns the player whose turn it is
func (s *Service) CurrentPlayer(ctx context.Context, sessionID model.SessionID) (*model.Player, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.RequireInProgress(); err != nil {
		return nil, err
	}
	return CurrentPlayer(session)
}

// Interface for dependency injection
type ServiceInterface interface {
	AdvanceTurn(ctx context.Context, sessionID model.SessionID) (*model.Player, error)
	CurrentPlayer(ctx context.Context, sessionID model.SessionID) (*model.Player, error)
}

var _ ServiceInterface = (*Service)(nil)
