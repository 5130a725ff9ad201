package secrets

import (
	"context"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

// Service toggles and moves dealt secrets. Dealing itself happens as part of
// session start.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new secrets Service
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
		logger:   logger.With(slog.String("component", "secrets")),
	}
}

// PlayerSecrets returns the secrets a player holds
func (s *Service) PlayerSecrets(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) ([]*model.Secret, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Player(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}
	return session.PlayerSecrets(playerID), nil
}

// Reveal turns a secret face up, finishing the session if it is the murderer
func (s *Service) Reveal(ctx context.Context, sessionID model.SessionID, secretID model.SecretID) (secret *model.Secret, err error) {
	ctx, span := telemetry.Start(ctx, "secrets.Reveal", sessionID)
	defer telemetry.End(span, &err)

	var solved bool
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		now := s.clock.Now()
		_, done, err := Reveal(sess, secretID, now)
		if err != nil {
			return err
		}
		solved = done
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes := model.ChangePlayers
	if solved {
		changes |= model.ChangeSession
		s.logger.Info("murderer revealed, session finished",
			slog.Int64("session_id", int64(sessionID)),
		)
	}
	s.notifier.Notify(session, changes)
	return session.Secret(secretID), nil
}

// Hide turns a revealed secret face down
func (s *Service) Hide(ctx context.Context, sessionID model.SessionID, secretID model.SecretID) (secret *model.Secret, err error) {
	ctx, span := telemetry.Start(ctx, "secrets.Hide", sessionID)
	defer telemetry.End(span, &err)

	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		if _, err := Hide(sess, secretID); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangePlayers)
	return session.Secret(secretID), nil
}

// Transfer gives a revealed secret to another player of the session
func (s *Service) Transfer(ctx context.Context, sessionID model.SessionID, secretID model.SecretID, target model.PlayerID) (secret *model.Secret, err error) {
	ctx, span := telemetry.Start(ctx, "secrets.Transfer", sessionID, telemetry.Player(target))
	defer telemetry.End(span, &err)

	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		if _, err := Transfer(sess, secretID, target); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangePlayers)
	s.logger.Debug("secret transferred",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int64("secret_id", int64(secretID)),
		slog.Int64("target_player_id", int64(target)),
	)
	return session.Secret(secretID), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	PlayerSecrets(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) ([]*model.Secret, error)
	Reveal(ctx context.Context, sessionID model.SessionID, secretID model.SecretID) (*model.Secret, error)
	Hide(ctx context.Context, sessionID model.SessionID, secretID model.SecretID) (*model.Secret, error)
	Transfer(ctx context.Context, sessionID model.SessionID, secretID model.SecretID, target model.PlayerID) (*model.Secret, error)
}

var _ ServiceInterface = (*Service)(nil)
