package events

import (
	"context"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/services/sets"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

// Outcome is the committed result of a played event
type Outcome struct {
	Event   model.EventName
	Result  Result
	Cards   []*model.Card
	Secret  *model.Secret
	Set     *model.Set
	Session *model.Session
}

// Service plays event cards, each as one atomic session update
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new events Service
func NewService(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		clock:    clock,
		random:   random,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "events")),
	}
}

// Play resolves an event card against a running session
func (s *Service) Play(ctx context.Context, sessionID model.SessionID, play Play) (outcome Outcome, err error) {
	ctx, span := telemetry.Start(ctx, "events.Play", sessionID, telemetry.Player(play.PlayerID))
	defer telemetry.End(span, &err)

	// A set may be handed to a player of any started session
	targetSessionID := sessionID
	if play.Event == model.EventAnotherVictim {
		if targetSessionID, err = sets.ResolveTarget(ctx, s.storage, sessionID, play.TargetPlayerID); err != nil {
			return Outcome{}, err
		}
	}

	var effect Effect
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		now := s.clock.Now()
		e, err := Resolve(sess, s.random, play, now)
		if err != nil {
			return err
		}
		effect = e
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	outcome = Outcome{
		Event:   play.Event,
		Result:  effect.Result,
		Session: session,
	}
	for _, id := range effect.Cards {
		if c := session.Card(id); c != nil {
			outcome.Cards = append(outcome.Cards, c)
		}
	}
	if effect.Secret != 0 {
		outcome.Secret = session.Secret(effect.Secret)
	}
	if effect.Set != 0 {
		outcome.Set = session.Set(effect.Set)
	}

	s.notifier.Notify(session, effect.Changes)
	if err := sets.NotifyTarget(ctx, s.storage, s.notifier, sessionID, targetSessionID); err != nil {
		s.logger.Warn("target session not notified",
			slog.Int64("session_id", int64(targetSessionID)),
			slog.String("error", err.Error()),
		)
	}
	s.logger.Info("event played",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int64("player_id", int64(play.PlayerID)),
		slog.String("event", string(play.Event)),
		slog.String("result", string(effect.Result)),
	)
	return outcome, nil
}

// FinalizeTrade completes a card trade started by the Card trade event
func (s *Service) FinalizeTrade(ctx context.Context, sessionID model.SessionID, from model.PlayerID, fromCard model.CardID, to model.PlayerID, toCard model.CardID) (session *model.Session, err error) {
	ctx, span := telemetry.Start(ctx, "events.FinalizeTrade", sessionID, telemetry.Player(from))
	defer telemetry.End(span, &err)

	session, err = s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		if err := cards.FinalizeTrade(sess, from, fromCard, to, toCard); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangePlayers)
	return session, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Play(ctx context.Context, sessionID model.SessionID, play Play) (Outcome, error)
	FinalizeTrade(ctx context.Context, sessionID model.SessionID, from model.PlayerID, fromCard model.CardID, to model.PlayerID, toCard model.CardID) (*model.Session, error)
}

var _ ServiceInterface = (*Service)(nil)
