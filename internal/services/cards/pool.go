package cards

import (
	"fmt"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
)

// The functions in this file mutate a session in place. They are the
// building blocks run inside a single storage update, either by Service or
// by other engine components composing several steps into one unit.

// InitPool creates the full roster for a session. Every card starts in the
// deck.
func InitPool(s *model.Session) error {
	if len(s.Cards) > 0 {
		return model.ErrPoolInitialised
	}

	next := model.CardID(1)
	add := func(c model.Card) {
		c.ID = next
		c.DiscardSeq = model.NotDiscarded
		s.Cards = append(s.Cards, c)
		next++
	}

	for _, entry := range model.DetectiveRoster {
		for i := 0; i < entry.Copies; i++ {
			add(model.Card{
				Kind:      model.CardKindDetective,
				Detective: &model.DetectiveCard{Name: entry.Name, SetSize: entry.SetSize},
			})
		}
	}
	for _, entry := range model.EventRoster {
		for i := 0; i < entry.Copies; i++ {
			add(model.Card{
				Kind:  model.CardKindEvent,
				Event: &model.EventCard{Name: entry.Name},
			})
		}
	}
	for _, entry := range model.GenericRoster {
		for i := 0; i < entry.Copies; i++ {
			add(model.Card{
				Kind:    model.CardKindGeneric,
				Generic: &model.GenericCard{Name: entry.Name},
			})
		}
	}

	s.CardsRemaining = len(s.Cards)
	return nil
}

// SetupDraftPile turns the first DraftPileSize random deck cards face up
func SetupDraftPile(s *model.Session, rnd random.Random) error {
	deck := s.Deck()
	if len(deck) < model.DraftPileSize {
		return model.ErrInsufficientCards
	}
	for i := 0; i < model.DraftPileSize; i++ {
		var c *model.Card
		c, deck = draw(deck, rnd)
		c.InDraft = true
		s.CardsRemaining--
	}
	return nil
}

// ReplenishDraftPile moves one random deck card to the draft pile. It
// returns nil when the deck is empty.
func ReplenishDraftPile(s *model.Session, rnd random.Random) *model.Card {
	deck := s.Deck()
	if len(deck) == 0 {
		return nil
	}
	c, _ := draw(deck, rnd)
	c.InDraft = true
	s.CardsRemaining--
	return c
}

// DealInitialHands gives every player, in turn order, one starter event card
// and then random deck cards up to the hand limit
func DealInitialHands(s *model.Session, rnd random.Random) error {
	deck := s.Deck()
	for _, p := range s.PlayersInTurnOrder() {
		for i, c := range deck {
			if c.IsEvent(model.StarterEvent) {
				give(s, c, p.ID)
				deck = append(deck[:i], deck[i+1:]...)
				break
			}
		}
		for len(s.Hand(p.ID)) < model.HandLimit {
			if len(deck) == 0 {
				return model.ErrInsufficientCards
			}
			var c *model.Card
			c, deck = draw(deck, rnd)
			give(s, c, p.ID)
		}
	}
	return nil
}

// PickUp draws a random deck card into the player's hand. When the deck is
// empty it finishes the session and returns a nil card with exhausted set.
func PickUp(s *model.Session, rnd random.Random, playerID model.PlayerID, now time.Time) (card *model.Card, exhausted bool, err error) {
	if s.Player(playerID) == nil {
		return nil, false, model.ErrPlayerNotFound
	}
	if len(s.Hand(playerID)) >= model.HandLimit {
		return nil, false, model.ErrHandFull
	}

	deck := s.Deck()
	if len(deck) == 0 {
		s.Finish(model.FinishDeckExhausted, now)
		return nil, true, nil
	}

	c, _ := draw(deck, rnd)
	give(s, c, playerID)
	return c, false, nil
}

// TakeFromDraft moves a face-up draft card into the player's hand and
// replenishes the draft pile. The replacement is nil if the deck is empty.
func TakeFromDraft(s *model.Session, rnd random.Random, playerID model.PlayerID, cardID model.CardID) (taken, replacement *model.Card, err error) {
	if s.Player(playerID) == nil {
		return nil, nil, model.ErrPlayerNotFound
	}
	c := s.Card(cardID)
	if c == nil {
		return nil, nil, model.ErrCardNotFound
	}
	if !c.InDraft {
		return nil, nil, model.ErrCardNotInDraft
	}
	if len(s.Hand(playerID)) >= model.HandLimit {
		return nil, nil, model.ErrHandFull
	}

	c.InDraft = false
	c.OwnerID = playerID
	c.PickedUp = true
	return c, ReplenishDraftPile(s, rnd), nil
}

// Discard drops a card from the player's hand onto the discard pile. A zero
// card ID discards the player's first live card.
func Discard(s *model.Session, playerID model.PlayerID, cardID model.CardID) (*model.Card, error) {
	if s.Player(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}

	var c *model.Card
	if cardID == 0 {
		hand := s.Hand(playerID)
		if len(hand) == 0 {
			return nil, model.ErrCardNotFound
		}
		c = hand[0]
	} else {
		c = s.Card(cardID)
		if c == nil || !c.InHandOf(playerID) {
			return nil, model.ErrCardNotFound
		}
	}

	drop(s, c)
	return c, nil
}

// RecentDiscards returns dropped cards, most recent first. A limit of zero
// or less returns the whole pile.
func RecentDiscards(s *model.Session, limit int) []*model.Card {
	pile := s.DiscardPile()
	if limit > 0 && len(pile) > limit {
		pile = pile[:limit]
	}
	return pile
}

// Recall takes a card back out of the discard pile into the player's hand
func Recall(s *model.Session, playerID model.PlayerID, cardID model.CardID) (*model.Card, error) {
	if s.Player(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}
	c := s.Card(cardID)
	if c == nil || !c.Dropped {
		return nil, model.ErrCardNotFound
	}

	c.Dropped = false
	c.DiscardSeq = model.NotDiscarded
	c.OwnerID = playerID
	c.PickedUp = true
	return c, nil
}

// ForcedBulkDiscard drops count random deck cards. If the deck holds fewer
// than count cards nothing is dropped; the session finishes instead and
// ended is true.
func ForcedBulkDiscard(s *model.Session, rnd random.Random, count int, now time.Time) (dropped []*model.Card, ended bool) {
	deck := s.Deck()
	if len(deck) < count {
		s.Finish(model.FinishDeckExhausted, now)
		return nil, true
	}

	for i := 0; i < count; i++ {
		var c *model.Card
		c, deck = draw(deck, rnd)
		drop(s, c)
		s.CardsRemaining--
		dropped = append(dropped, c)
	}
	return dropped, false
}

// ReturnToDeck puts discarded cards back into the deck. Every ID must be in
// the discard pile.
func ReturnToDeck(s *model.Session, cardIDs []model.CardID) ([]*model.Card, error) {
	returned := make([]*model.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		c := s.Card(id)
		if c == nil || !c.Dropped {
			return nil, fmt.Errorf("%w: %d is not in the discard pile", model.ErrCardNotFound, id)
		}
		c.Dropped = false
		c.PickedUp = false
		c.InDraft = false
		c.OwnerID = model.NoPlayer
		c.DiscardSeq = model.NotDiscarded
		s.CardsRemaining++
		returned = append(returned, c)
	}
	return returned, nil
}

// InitiateTrade marks both players as selected for a card trade
func InitiateTrade(s *model.Session, from, to model.PlayerID) error {
	a, b := s.Player(from), s.Player(to)
	if a == nil || b == nil {
		return model.ErrPlayerNotFound
	}
	if from == to {
		return model.ErrTradeWithSelf
	}
	a.SelectedForTrade = true
	b.SelectedForTrade = true
	return nil
}

// FinalizeTrade swaps one card from each selected player's hand and clears
// the selection
func FinalizeTrade(s *model.Session, from model.PlayerID, fromCard model.CardID, to model.PlayerID, toCard model.CardID) error {
	a, b := s.Player(from), s.Player(to)
	if a == nil || b == nil {
		return model.ErrPlayerNotFound
	}
	ca, cb := s.Card(fromCard), s.Card(toCard)
	if ca == nil || !ca.InHandOf(from) || cb == nil || !cb.InHandOf(to) {
		return model.ErrCardNotFound
	}
	if !a.SelectedForTrade || !b.SelectedForTrade {
		return model.ErrTradeNotInitiated
	}

	ca.OwnerID, cb.OwnerID = to, from
	a.SelectedForTrade = false
	b.SelectedForTrade = false
	return nil
}

// draw removes a uniformly random card from pile
func draw(pile []*model.Card, rnd random.Random) (*model.Card, []*model.Card) {
	i := rnd.Intn(len(pile))
	c := pile[i]
	return c, append(pile[:i], pile[i+1:]...)
}

func give(s *model.Session, c *model.Card, playerID model.PlayerID) {
	c.OwnerID = playerID
	c.PickedUp = true
	s.CardsRemaining--
}

func drop(s *model.Session, c *model.Card) {
	c.DiscardSeq = s.NextDiscardSeq()
	c.PickedUp = false
	c.Dropped = true
}
