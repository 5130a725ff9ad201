package cards

import (
	"context"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

// DrawResult reports a card moving into a hand. Card is nil when the deck was
// exhausted, in which case the session has finished.
type DrawResult struct {
	Card          *model.Card
	Replacement   *model.Card // New draft card after taking from the draft pile
	DeckExhausted bool
	Session       *model.Session
}

// Service runs card pool operations, each as one atomic session update
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new card pool Service
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
		logger:   logger.With(slog.String("component", "cards")),
	}
}

// Hand returns the player's live hand
func (s *Service) Hand(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) ([]*model.Card, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Player(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}
	return session.Hand(playerID), nil
}

// DraftPile returns the face-up draft cards
func (s *Service) DraftPile(ctx context.Context, sessionID model.SessionID) ([]*model.Card, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.DraftPile(), nil
}

// RecentDiscards returns up to limit dropped cards, most recent first
func (s *Service) RecentDiscards(ctx context.Context, sessionID model.SessionID, limit int) ([]*model.Card, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return RecentDiscards(session, limit), nil
}

// PickUp draws a random deck card into the player's hand. An empty deck ends
// the session; that is reported in the result, not as an error.
func (s *Service) PickUp(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) (result DrawResult, err error) {
	ctx, span := telemetry.Start(ctx, "cards.PickUp", sessionID, telemetry.Player(playerID))
	defer telemetry.End(span, &err)

	var cardID model.CardID
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		now := s.clock.Now()
		card, exhausted, err := PickUp(sess, s.random, playerID, now)
		if err != nil {
			return err
		}
		result.DeckExhausted = exhausted
		cardID = 0
		if card != nil {
			cardID = card.ID
		}
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return DrawResult{}, err
	}

	result.Session = session
	if result.DeckExhausted {
		s.notifier.Notify(session, model.ChangeSession)
		s.logger.Info("deck exhausted, session finished",
			slog.Int64("session_id", int64(sessionID)),
		)
		return result, nil
	}

	result.Card = session.Card(cardID)
	s.notifier.Notify(session, model.ChangeSession|model.ChangePlayers)
	s.logger.Debug("card picked up",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("card_id", int64(cardID)),
	)
	return result, nil
}

// TakeFromDraft moves a draft card into the player's hand and refills the
// draft pile from the deck
func (s *Service) TakeFromDraft(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, cardID model.CardID) (result DrawResult, err error) {
	ctx, span := telemetry.Start(ctx, "cards.TakeFromDraft", sessionID, telemetry.Player(playerID))
	defer telemetry.End(span, &err)

	var replacementID model.CardID
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		_, replacement, err := TakeFromDraft(sess, s.random, playerID, cardID)
		if err != nil {
			return err
		}
		replacementID = 0
		if replacement != nil {
			replacementID = replacement.ID
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return DrawResult{}, err
	}

	result = DrawResult{Card: session.Card(cardID), Session: session}
	if replacementID != 0 {
		result.Replacement = session.Card(replacementID)
	}
	s.notifier.Notify(session, model.ChangeSession|model.ChangePlayers)
	s.logger.Debug("card taken from draft pile",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("card_id", int64(cardID)),
	)
	return result, nil
}

// ReplenishDraftPile adds one deck card to the draft pile. It returns a nil
// card without error when the deck is empty.
func (s *Service) ReplenishDraftPile(ctx context.Context, sessionID model.SessionID) (card *model.Card, err error) {
	ctx, span := telemetry.Start(ctx, "cards.ReplenishDraftPile", sessionID)
	defer telemetry.End(span, &err)

	var cardID model.CardID
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		cardID = 0
		if c := ReplenishDraftPile(sess, s.random); c != nil {
			cardID = c.ID
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cardID == 0 {
		return nil, nil
	}
	s.notifier.Notify(session, model.ChangeSession)
	return session.Card(cardID), nil
}

// Discard drops a card from the player's hand. A zero card ID drops the
// player's first live card.
func (s *Service) Discard(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, cardID model.CardID) (card *model.Card, err error) {
	ctx, span := telemetry.Start(ctx, "cards.Discard", sessionID, telemetry.Player(playerID))
	defer telemetry.End(span, &err)

	var dropped model.CardID
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		c, err := Discard(sess, playerID, cardID)
		if err != nil {
			return err
		}
		dropped = c.ID
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangeSession|model.ChangePlayers|model.ChangeDiscardPile)
	s.logger.Debug("card discarded",
		slog.Int64("session_id", int64(sessionID)),
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("card_id", int64(dropped)),
	)
	return session.Card(dropped), nil
}

// Recall takes a card from the discard pile into the player's hand
func (s *Service) Recall(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, cardID model.CardID) (card *model.Card, err error) {
	ctx, span := telemetry.Start(ctx, "cards.Recall", sessionID, telemetry.Player(playerID))
	defer telemetry.End(span, &err)

	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		if _, err := Recall(sess, playerID, cardID); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangePlayers|model.ChangeDiscardPile)
	return session.Card(cardID), nil
}

// ForcedBulkDiscard drops count random deck cards, or ends the session if the
// deck holds fewer than count
func (s *Service) ForcedBulkDiscard(ctx context.Context, sessionID model.SessionID, count int) (dropped []*model.Card, ended bool, err error) {
	ctx, span := telemetry.Start(ctx, "cards.ForcedBulkDiscard", sessionID)
	defer telemetry.End(span, &err)

	var ids []model.CardID
	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		now := s.clock.Now()
		cards, done := ForcedBulkDiscard(sess, s.random, count, now)
		ended = done
		ids = cardIDs(cards)
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if ended {
		s.notifier.Notify(session, model.ChangeSession)
		s.logger.Info("deck exhausted by forced discard, session finished",
			slog.Int64("session_id", int64(sessionID)),
		)
		return nil, true, nil
	}
	s.notifier.Notify(session, model.ChangeSession|model.ChangeDiscardPile)
	return lookup(session, ids), false, nil
}

// ReturnToDeck puts discarded cards back into the deck
func (s *Service) ReturnToDeck(ctx context.Context, sessionID model.SessionID, ids []model.CardID) (returned []*model.Card, err error) {
	ctx, span := telemetry.Start(ctx, "cards.ReturnToDeck", sessionID)
	defer telemetry.End(span, &err)

	session, err := s.storage.UpdateSession(ctx, sessionID, func(sess *model.Session) error {
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		if _, err := ReturnToDeck(sess, ids); err != nil {
			return err
		}
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(session, model.ChangeSession|model.ChangeDiscardPile)
	return lookup(session, ids), nil
}

func cardIDs(cards []*model.Card) []model.CardID {
	ids := make([]model.CardID, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// lookup resolves IDs against a committed snapshot
func lookup(session *model.Session, ids []model.CardID) []*model.Card {
	out := make([]*model.Card, 0, len(ids))
	for _, id := range ids {
		if c := session.Card(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Interface for dependency injection
type ServiceInterface interface {
	Hand(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) ([]*model.Card, error)
	DraftPile(ctx context.Context, sessionID model.SessionID) ([]*model.Card, error)
	RecentDiscards(ctx context.Context, sessionID model.SessionID, limit int) ([]*model.Card, error)
	PickUp(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID) (DrawResult, error)
	TakeFromDraft(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, cardID model.CardID) (DrawResult, error)
	ReplenishDraftPile(ctx context.Context, sessionID model.SessionID) (*model.Card, error)
	Discard(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, cardID model.CardID) (*model.Card, error)
	Recall(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, cardID model.CardID) (*model.Card, error)
	ForcedBulkDiscard(ctx context.Context, sessionID model.SessionID, count int) ([]*model.Card, bool, error)
	ReturnToDeck(ctx context.Context, sessionID model.SessionID, ids []model.CardID) ([]*model.Card, error)
}

var _ ServiceInterface = (*Service)(nil)
