package cards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/mocks"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/storage/memory"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	notifier *mocks.MockNotifier
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.random = mocks.NewMockRandom()
	s.notifier = mocks.NewMockNotifier()
	s.service = NewService(s.storage, s.clock, s.random, s.notifier, testutil.NopLogger())
	s.ctx = context.Background()
}

// startedSession stores a three player session with hands dealt and the
// draft pile set up
func (s *ServiceSuite) startedSession() model.SessionID {
	session := testutil.NewSession(3)
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	_, err := s.storage.UpdateSession(s.ctx, session.ID, func(sess *model.Session) error {
		for i := range sess.Players {
			sess.Players[i].TurnOrder = i + 1
		}
		sess.CurrentTurn = 1
		sess.Phase = model.PhaseInProgress
		if err := InitPool(sess); err != nil {
			return err
		}
		if err := DealInitialHands(sess, s.random); err != nil {
			return err
		}
		return SetupDraftPile(sess, s.random)
	})
	s.Require().NoError(err)
	return session.ID
}

func (s *ServiceSuite) load(id model.SessionID) *model.Session {
	session, err := s.storage.GetSession(s.ctx, id)
	s.Require().NoError(err)
	return session
}

func (s *ServiceSuite) playerIDs(id model.SessionID) []model.PlayerID {
	var ids []model.PlayerID
	for _, p := range s.load(id).PlayersInTurnOrder() {
		ids = append(ids, p.ID)
	}
	return ids
}

// drainDeck leaves only n cards in the stored deck
func (s *ServiceSuite) drainDeck(id model.SessionID, n int) {
	_, err := s.storage.UpdateSession(s.ctx, id, func(sess *model.Session) error {
		ForcedBulkDiscard(sess, s.random, len(sess.Deck())-n, testutil.Epoch)
		return nil
	})
	s.Require().NoError(err)
}

// PickUp tests

func (s *ServiceSuite) TestPickUpAfterDiscard() {
	id := s.startedSession()
	p := s.playerIDs(id)[0]

	_, err := s.service.Discard(s.ctx, id, p, 0)
	s.Require().NoError(err)
	before := s.load(id).CardsRemaining

	result, err := s.service.PickUp(s.ctx, id, p)
	s.Require().NoError(err)
	s.False(result.DeckExhausted)
	s.Require().NotNil(result.Card)
	s.True(result.Card.InHandOf(p))

	session := s.load(id)
	s.Equal(before-1, session.CardsRemaining)
	s.Len(session.Hand(p), model.HandLimit)
	s.Equal(model.RosterSize(), testutil.CardAccounting(session))

	last, ok := s.notifier.Last()
	s.Require().True(ok)
	s.Equal(id, last.SessionID)
	s.True(last.Changes.Has(model.ChangePlayers))
}

func (s *ServiceSuite) TestPickUpHandFullIsNotCommitted() {
	id := s.startedSession()
	p := s.playerIDs(id)[0]
	before := s.load(id)

	_, err := s.service.PickUp(s.ctx, id, p)
	s.ErrorIs(err, model.ErrHandFull)
	s.ErrorIs(err, model.ErrConstraintViolation)

	after := s.load(id)
	s.Equal(before.CardsRemaining, after.CardsRemaining)
	s.Equal(before.Cards, after.Cards)
	s.Empty(s.notifier.Calls())
}

func (s *ServiceSuite) TestPickUpBeforeStart() {
	session := testutil.NewSession(2)
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	_, err := s.service.PickUp(s.ctx, session.ID, session.Players[0].ID)
	s.ErrorIs(err, model.ErrSessionNotInProgress)
	s.ErrorIs(err, model.ErrInvalidPhase)
}

func (s *ServiceSuite) TestPickUpUnknownSession() {
	_, err := s.service.PickUp(s.ctx, 42, 1)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestPickUpExhaustedDeckFinishesSession() {
	id := s.startedSession()
	p := s.playerIDs(id)[0]
	_, err := s.service.Discard(s.ctx, id, p, 0)
	s.Require().NoError(err)
	s.drainDeck(id, 0)

	result, err := s.service.PickUp(s.ctx, id, p)
	s.Require().NoError(err)
	s.True(result.DeckExhausted)
	s.Nil(result.Card)

	session := s.load(id)
	s.Equal(model.PhaseFinished, session.Phase)
	s.Equal(model.FinishDeckExhausted, session.FinishReason)

	last, _ := s.notifier.Last()
	s.Equal(model.PhaseFinished, last.Phase)

	_, err = s.service.PickUp(s.ctx, id, p)
	s.ErrorIs(err, model.ErrSessionNotInProgress)
}

// Draft pile tests

func (s *ServiceSuite) TestTakeFromDraft() {
	id := s.startedSession()
	p := s.playerIDs(id)[1]
	_, err := s.service.Discard(s.ctx, id, p, 0)
	s.Require().NoError(err)

	draft, err := s.service.DraftPile(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(draft, model.DraftPileSize)

	result, err := s.service.TakeFromDraft(s.ctx, id, p, draft[0].ID)
	s.Require().NoError(err)
	s.Equal(draft[0].ID, result.Card.ID)
	s.Require().NotNil(result.Replacement)
	s.True(result.Replacement.InDraft)

	draft, err = s.service.DraftPile(s.ctx, id)
	s.Require().NoError(err)
	s.Len(draft, model.DraftPileSize)
}

func (s *ServiceSuite) TestReplenishDraftPile() {
	id := s.startedSession()

	card, err := s.service.ReplenishDraftPile(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.True(card.InDraft)

	s.drainDeck(id, 0)
	card, err = s.service.ReplenishDraftPile(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(card)
}

// Discard tests

func (s *ServiceSuite) TestDiscardAndRecentDiscards() {
	id := s.startedSession()
	p := s.playerIDs(id)[2]
	hand, err := s.service.Hand(s.ctx, id, p)
	s.Require().NoError(err)
	s.Require().Len(hand, model.HandLimit)

	for _, c := range hand[:3] {
		dropped, err := s.service.Discard(s.ctx, id, p, c.ID)
		s.Require().NoError(err)
		s.True(dropped.Dropped)
	}

	recent, err := s.service.RecentDiscards(s.ctx, id, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(hand[2].ID, recent[0].ID)
	s.Equal(hand[1].ID, recent[1].ID)

	last, _ := s.notifier.Last()
	s.True(last.Changes.Has(model.ChangeDiscardPile))
}

func (s *ServiceSuite) TestHandUnknownPlayer() {
	id := s.startedSession()
	_, err := s.service.Hand(s.ctx, id, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestRecall() {
	id := s.startedSession()
	players := s.playerIDs(id)
	dropped, err := s.service.Discard(s.ctx, id, players[0], 0)
	s.Require().NoError(err)
	_, err = s.service.Discard(s.ctx, id, players[1], 0)
	s.Require().NoError(err)

	card, err := s.service.Recall(s.ctx, id, players[1], dropped.ID)
	s.Require().NoError(err)
	s.True(card.InHandOf(players[1]))
	s.Len(s.load(id).Hand(players[1]), model.HandLimit)
}

// Bulk operations

func (s *ServiceSuite) TestForcedBulkDiscard() {
	id := s.startedSession()
	before := s.load(id).CardsRemaining

	dropped, ended, err := s.service.ForcedBulkDiscard(s.ctx, id, model.ForcedDiscardCount)
	s.Require().NoError(err)
	s.False(ended)
	s.Len(dropped, model.ForcedDiscardCount)
	s.Equal(before-model.ForcedDiscardCount, s.load(id).CardsRemaining)
}

func (s *ServiceSuite) TestForcedBulkDiscardWithFourLeftEndsSession() {
	id := s.startedSession()
	s.drainDeck(id, 4)

	dropped, ended, err := s.service.ForcedBulkDiscard(s.ctx, id, model.ForcedDiscardCount)
	s.Require().NoError(err)
	s.True(ended)
	s.Empty(dropped)

	session := s.load(id)
	s.Equal(model.PhaseFinished, session.Phase)
	s.Equal(4, session.CardsRemaining)
}

func (s *ServiceSuite) TestReturnToDeckIsAllOrNothing() {
	id := s.startedSession()
	dropped, _, err := s.service.ForcedBulkDiscard(s.ctx, id, 2)
	s.Require().NoError(err)
	before := s.load(id)
	live := before.Hand(s.playerIDs(id)[0])[0].ID

	_, err = s.service.ReturnToDeck(s.ctx, id, []model.CardID{dropped[0].ID, live})
	s.ErrorIs(err, model.ErrCardNotFound)
	s.Equal(before.CardsRemaining, s.load(id).CardsRemaining)

	returned, err := s.service.ReturnToDeck(s.ctx, id, []model.CardID{dropped[0].ID, dropped[1].ID})
	s.Require().NoError(err)
	s.Len(returned, 2)
	s.Equal(before.CardsRemaining+2, s.load(id).CardsRemaining)
}
