package cards

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/mocks"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

type PoolSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	session *model.Session
}

func TestPoolSuite(t *testing.T) {
	suite.Run(t, new(PoolSuite))
}

func (s *PoolSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.session = testutil.NumberPlayers(testutil.NewSession(3))
	s.session.Phase = model.PhaseInProgress
	s.Require().NoError(InitPool(s.session))
}

func (s *PoolSuite) deal() {
	s.Require().NoError(DealInitialHands(s.session, s.random))
}

// drainDeck discards deck cards until only leave remain
func (s *PoolSuite) drainDeck(leave int) {
	n := len(s.session.Deck()) - leave
	_, ended := ForcedBulkDiscard(s.session, s.random, n, testutil.Epoch)
	s.Require().False(ended)
}

func (s *PoolSuite) assertAccounting() {
	s.Equal(model.RosterSize(), testutil.CardAccounting(s.session))
	s.Equal(len(s.session.Deck()), s.session.CardsRemaining)
}

// InitPool tests

func (s *PoolSuite) TestInitPoolCreatesRoster() {
	s.Len(s.session.Cards, model.RosterSize())
	s.Equal(model.RosterSize(), s.session.CardsRemaining)
	s.Len(s.session.Deck(), model.RosterSize())

	kinds := map[model.CardKind]int{}
	for _, c := range s.session.Cards {
		kinds[c.Kind]++
		s.Equal(model.NotDiscarded, c.DiscardSeq)
	}
	s.Equal(22, kinds[model.CardKindDetective])
	s.Equal(32, kinds[model.CardKindEvent])
	s.Equal(4, kinds[model.CardKindGeneric])
}

func (s *PoolSuite) TestInitPoolAssignsSequentialIDs() {
	for i, c := range s.session.Cards {
		s.Equal(model.CardID(i+1), c.ID)
	}
}

func (s *PoolSuite) TestInitPoolTwiceFails() {
	err := InitPool(s.session)
	s.ErrorIs(err, model.ErrPoolInitialised)
	s.ErrorIs(err, model.ErrConstraintViolation)
	s.Len(s.session.Cards, model.RosterSize())
}

// Setup tests

func (s *PoolSuite) TestDealInitialHands() {
	s.deal()

	for _, p := range s.session.Players {
		hand := s.session.Hand(p.ID)
		s.Len(hand, model.HandLimit)

		starters := 0
		for _, c := range hand {
			if c.IsEvent(model.StarterEvent) {
				starters++
			}
		}
		s.GreaterOrEqual(starters, 1, "player %d has no starter card", p.ID)
	}
	s.Equal(model.RosterSize()-3*model.HandLimit, s.session.CardsRemaining)
	s.assertAccounting()
}

func (s *PoolSuite) TestSetupDraftPile() {
	s.deal()
	s.Require().NoError(SetupDraftPile(s.session, s.random))

	s.Len(s.session.DraftPile(), model.DraftPileSize)
	for _, c := range s.session.DraftPile() {
		s.False(c.InDeck())
		s.Equal(model.NoPlayer, c.OwnerID)
	}
	s.assertAccounting()
}

func (s *PoolSuite) TestSetupDraftPileInsufficientDeck() {
	s.drainDeck(2)

	err := SetupDraftPile(s.session, s.random)
	s.ErrorIs(err, model.ErrInsufficientCards)
	s.Empty(s.session.DraftPile())
	s.Equal(2, s.session.CardsRemaining)
}

func (s *PoolSuite) TestReplenishDraftPileEmptyDeck() {
	s.drainDeck(0)
	s.Nil(ReplenishDraftPile(s.session, s.random))
	s.Equal(0, s.session.CardsRemaining)
}

// PickUp tests

func (s *PoolSuite) TestPickUpMovesDeckCardToHand() {
	card, exhausted, err := PickUp(s.session, s.random, 1, testutil.Epoch)
	s.Require().NoError(err)
	s.False(exhausted)

	s.True(card.InHandOf(1))
	s.Equal(model.RosterSize()-1, s.session.CardsRemaining)
	s.assertAccounting()
}

func (s *PoolSuite) TestPickUpHandFullLeavesDeckUnchanged() {
	s.deal()
	before := s.session.CardsRemaining

	_, _, err := PickUp(s.session, s.random, 1, testutil.Epoch)
	s.ErrorIs(err, model.ErrHandFull)
	s.Equal(before, s.session.CardsRemaining)
	s.Len(s.session.Deck(), before)
	s.Len(s.session.Hand(1), model.HandLimit)
}

func (s *PoolSuite) TestPickUpUnknownPlayer() {
	_, _, err := PickUp(s.session, s.random, 99, testutil.Epoch)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *PoolSuite) TestPickUpEmptyDeckFinishesSession() {
	s.drainDeck(0)

	card, exhausted, err := PickUp(s.session, s.random, 1, testutil.Epoch)
	s.Require().NoError(err)
	s.True(exhausted)
	s.Nil(card)
	s.Equal(model.PhaseFinished, s.session.Phase)
	s.Equal(model.FinishDeckExhausted, s.session.FinishReason)
	s.Require().NotNil(s.session.FinishedAt)
}

// Draft pile tests

func (s *PoolSuite) TestTakeFromDraftReplenishes() {
	s.Require().NoError(SetupDraftPile(s.session, s.random))
	target := s.session.DraftPile()[1].ID

	taken, replacement, err := TakeFromDraft(s.session, s.random, 2, target)
	s.Require().NoError(err)

	s.Equal(target, taken.ID)
	s.True(taken.InHandOf(2))
	s.False(taken.InDraft)
	s.Require().NotNil(replacement)
	s.True(replacement.InDraft)
	s.Len(s.session.DraftPile(), model.DraftPileSize)
	s.assertAccounting()
}

func (s *PoolSuite) TestTakeFromDraftRejectsDeckCard() {
	s.Require().NoError(SetupDraftPile(s.session, s.random))
	deckCard := s.session.Deck()[0].ID

	_, _, err := TakeFromDraft(s.session, s.random, 1, deckCard)
	s.ErrorIs(err, model.ErrCardNotInDraft)
}

func (s *PoolSuite) TestTakeFromDraftHandFull() {
	s.deal()
	s.Require().NoError(SetupDraftPile(s.session, s.random))
	target := s.session.DraftPile()[0].ID

	_, _, err := TakeFromDraft(s.session, s.random, 1, target)
	s.ErrorIs(err, model.ErrHandFull)
	s.True(s.session.Card(target).InDraft)
}

func (s *PoolSuite) TestTakeFromDraftLastDeckCard() {
	s.Require().NoError(SetupDraftPile(s.session, s.random))
	s.drainDeck(0)
	target := s.session.DraftPile()[0].ID

	_, replacement, err := TakeFromDraft(s.session, s.random, 1, target)
	s.Require().NoError(err)
	s.Nil(replacement)
	s.Len(s.session.DraftPile(), model.DraftPileSize-1)
}

// Discard tests

func (s *PoolSuite) TestDiscardSequenceIsUniqueAndIncreasing() {
	s.deal()
	hand := s.session.Hand(1)

	var seqs []int
	for _, c := range hand[:4] {
		dropped, err := Discard(s.session, 1, c.ID)
		s.Require().NoError(err)
		seqs = append(seqs, dropped.DiscardSeq)
	}

	s.Equal([]int{1, 2, 3, 4}, seqs)
	s.Len(s.session.Hand(1), model.HandLimit-4)
	s.assertAccounting()
}

func (s *PoolSuite) TestDiscardKeepsOwner() {
	s.deal()
	target := s.session.Hand(2)[0]

	dropped, err := Discard(s.session, 2, target.ID)
	s.Require().NoError(err)
	s.Equal(model.PlayerID(2), dropped.OwnerID)
	s.True(dropped.Dropped)
	s.False(dropped.PickedUp)
	s.False(dropped.InDeck())
}

func (s *PoolSuite) TestDiscardZeroDropsFirstHandCard() {
	s.deal()
	first := s.session.Hand(3)[0].ID

	dropped, err := Discard(s.session, 3, 0)
	s.Require().NoError(err)
	s.Equal(first, dropped.ID)
}

func (s *PoolSuite) TestDiscardCardNotInHand() {
	s.deal()
	other := s.session.Hand(2)[0].ID

	_, err := Discard(s.session, 1, other)
	s.ErrorIs(err, model.ErrCardNotFound)
	s.True(s.session.Card(other).InHandOf(2))
}

func (s *PoolSuite) TestDiscardEmptyHand() {
	_, err := Discard(s.session, 1, 0)
	s.ErrorIs(err, model.ErrCardNotFound)
}

func (s *PoolSuite) TestRecentDiscardsMostRecentFirst() {
	s.deal()
	var order []model.CardID
	for _, c := range s.session.Hand(1)[:3] {
		order = append(order, c.ID)
		_, err := Discard(s.session, 1, c.ID)
		s.Require().NoError(err)
	}

	recent := RecentDiscards(s.session, 2)
	s.Require().Len(recent, 2)
	s.Equal(order[2], recent[0].ID)
	s.Equal(order[1], recent[1].ID)

	s.Len(RecentDiscards(s.session, 0), 3)
}

func (s *PoolSuite) TestRecall() {
	s.deal()
	target := s.session.Hand(1)[0].ID
	_, err := Discard(s.session, 1, target)
	s.Require().NoError(err)

	card, err := Recall(s.session, 2, target)
	s.Require().NoError(err)
	s.True(card.InHandOf(2))
	s.Equal(model.NotDiscarded, card.DiscardSeq)
	s.Empty(s.session.DiscardPile())
	s.assertAccounting()
}

func (s *PoolSuite) TestRecallCardNotDiscarded() {
	s.deal()
	_, err := Recall(s.session, 2, s.session.Hand(1)[0].ID)
	s.ErrorIs(err, model.ErrCardNotFound)
}

// Bulk discard tests

func (s *PoolSuite) TestForcedBulkDiscard() {
	dropped, ended := ForcedBulkDiscard(s.session, s.random, model.ForcedDiscardCount, testutil.Epoch)
	s.False(ended)
	s.Len(dropped, model.ForcedDiscardCount)
	s.Equal(model.RosterSize()-model.ForcedDiscardCount, s.session.CardsRemaining)
	s.Len(s.session.DiscardPile(), model.ForcedDiscardCount)
	s.assertAccounting()
}

func (s *PoolSuite) TestForcedBulkDiscardShortDeckEndsSession() {
	s.drainDeck(4)
	pile := len(s.session.DiscardPile())

	dropped, ended := ForcedBulkDiscard(s.session, s.random, model.ForcedDiscardCount, testutil.Epoch)
	s.True(ended)
	s.Empty(dropped)
	s.Equal(4, s.session.CardsRemaining)
	s.Len(s.session.DiscardPile(), pile)
	s.Equal(model.PhaseFinished, s.session.Phase)
	s.Equal(model.FinishDeckExhausted, s.session.FinishReason)
}

func (s *PoolSuite) TestReturnToDeck() {
	dropped, _ := ForcedBulkDiscard(s.session, s.random, 3, testutil.Epoch)
	ids := []model.CardID{dropped[0].ID, dropped[2].ID}

	returned, err := ReturnToDeck(s.session, ids)
	s.Require().NoError(err)
	s.Len(returned, 2)
	for _, c := range returned {
		s.True(c.InDeck())
	}
	s.Len(s.session.DiscardPile(), 1)
	s.assertAccounting()
}

func (s *PoolSuite) TestReturnToDeckRejectsLiveCard() {
	s.deal()
	live := s.session.Hand(1)[0].ID

	_, err := ReturnToDeck(s.session, []model.CardID{live})
	s.ErrorIs(err, model.ErrCardNotFound)
}

// Trade tests

func (s *PoolSuite) TestTrade() {
	s.deal()
	a := s.session.Hand(1)[0].ID
	b := s.session.Hand(3)[0].ID

	s.Require().NoError(InitiateTrade(s.session, 1, 3))
	s.True(s.session.Player(1).SelectedForTrade)
	s.True(s.session.Player(3).SelectedForTrade)

	s.Require().NoError(FinalizeTrade(s.session, 1, a, 3, b))
	s.True(s.session.Card(a).InHandOf(3))
	s.True(s.session.Card(b).InHandOf(1))
	s.False(s.session.Player(1).SelectedForTrade)
	s.False(s.session.Player(3).SelectedForTrade)
	s.Len(s.session.Hand(1), model.HandLimit)
	s.assertAccounting()
}

func (s *PoolSuite) TestFinalizeTradeWithoutInitiate() {
	s.deal()
	err := FinalizeTrade(s.session, 1, s.session.Hand(1)[0].ID, 2, s.session.Hand(2)[0].ID)
	s.ErrorIs(err, model.ErrTradeNotInitiated)
}

func (s *PoolSuite) TestInitiateTradeWithSelf() {
	err := InitiateTrade(s.session, 2, 2)
	s.ErrorIs(err, model.ErrTradeWithSelf)
	s.False(s.session.Player(2).SelectedForTrade)
}

// Accounting holds across any sequence of operations

func (s *PoolSuite) TestCardAccountingUnderRandomPlay() {
	rnd := random.New()
	s.Require().NoError(DealInitialHands(s.session, rnd))
	s.Require().NoError(SetupDraftPile(s.session, rnd))

	for i := 0; i < 200 && s.session.Phase == model.PhaseInProgress; i++ {
		pid := model.PlayerID(rnd.Intn(3) + 1)
		switch rnd.Intn(4) {
		case 0:
			_, _, _ = PickUp(s.session, rnd, pid, testutil.Epoch)
		case 1:
			_, _ = Discard(s.session, pid, 0)
		case 2:
			if draft := s.session.DraftPile(); len(draft) > 0 {
				_, _, _ = TakeFromDraft(s.session, rnd, pid, draft[0].ID)
			}
		case 3:
			if pile := s.session.DiscardPile(); len(pile) > 0 {
				_, err := ReturnToDeck(s.session, []model.CardID{pile[0].ID})
				s.Require().NoError(err)
			}
		}
		s.assertAccounting()

		pile := s.session.DiscardPile()
		for j := 1; j < len(pile); j++ {
			s.Greater(pile[j-1].DiscardSeq, pile[j].DiscardSeq)
		}
	}
}
