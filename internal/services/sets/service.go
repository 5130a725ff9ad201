package sets

import (
	"context"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

// Service composes and moves detective sets
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new sets Service
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
		logger:   logger.With(slog.String("component", "sets")),
	}
}

// Compose turns two or three detective cards from one hand into a set
func (s *Service) Compose(ctx context.Context, sessionID model.SessionID, cardIDs []model.CardID) (set *model.Set, err error) {
	ctx, span := telemetry.Start(ctx, "sets.Compose", sessionID)
	defer telemetry.End(span, &err)

	var setID model.SetID
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		now := s.clock.Now()
		composed, err := Compose(sess, cardIDs, now)
		if err != nil {
			return err
		}
		setID = composed.ID
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	set = session.Set(setID)
	s.notifier.Notify(session, model.ChangePlayers)
	s.logger.Info("set composed",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int64("player_id", int64(set.OwnerID)),
		slog.String("set", set.Name),
	)
	return set, nil
}

// OwnedSet returns the player's first set
func (s *Service) OwnedSet(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) (*model.Set, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return OwnedSet(session, playerID)
}

// OwnedSets returns every set the player controls in the session
func (s *Service) OwnedSets(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) ([]*model.Set, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.PlayerSets(playerID), nil
}

// TransferSet gives a set to any existing player. The target may sit in
// another session once that session has started.
func (s *Service) TransferSet(ctx context.Context, sessionID model.SessionID, setID model.SetID, target model.PlayerID) (set *model.Set, err error) {
	ctx, span := telemetry.Start(ctx, "sets.TransferSet", sessionID, telemetry.Player(target))
	defer telemetry.End(span, &err)

	targetSessionID, err := ResolveTarget(ctx, s.storage, sessionID, target)
	if err != nil {
		return nil, err
	}

	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if _, err := TransferSet(sess, setID, target); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangePlayers)
	if err := NotifyTarget(ctx, s.storage, s.notifier, sessionID, targetSessionID); err != nil {
		s.logger.Warn("target session not notified",
			slog.Int64("session_id", int64(targetSessionID)),
			slog.String("error", err.Error()),
		)
	}
	return session.Set(setID), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Compose(ctx context.Context, sessionID model.SessionID, cardIDs []model.CardID) (*model.Set, error)
	OwnedSet(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) (*model.Set, error)
	OwnedSets(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) ([]*model.Set, error)
	TransferSet(ctx context.Context, sessionID model.SessionID, setID model.SetID, target model.PlayerID) (*model.Set, error)
}

var _ ServiceInterface = (*Service)(nil)
