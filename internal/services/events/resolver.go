package events

import (
	"fmt"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
	"github.com/mcoot/sleuthgame-go/internal/services/secrets"
	"github.com/mcoot/sleuthgame-go/internal/services/sets"
)

// Result tells whether a played event left the game running
type Result string

const (
	ResultApplied Result = "applied"
	ResultEnded   Result = "ended"
)

// Play is one event card being played. Only the fields the named event uses
// are read.
type Play struct {
	Event    model.EventName
	PlayerID model.PlayerID

	// EventCardID is the played card. When set it must be the named event in
	// the player's hand, and it is discarded along with the effect.
	EventCardID model.CardID

	TargetPlayerID model.PlayerID
	TargetEvent    model.EventName // Cards off the table, defaults to Not so fast
	CardID         model.CardID    // Look into the ashes
	CardIDs        []model.CardID  // Delay the murderer's escape
	SecretID       model.SecretID  // And then there was one more
	SetID          model.SetID     // Another victim
}

// Effect records what Resolve changed, by ID, so the caller can read the
// entities back from the committed session
type Effect struct {
	Result  Result
	Cards   []model.CardID
	Secret  model.SecretID
	Set     model.SetID
	Changes model.Change
}

// Resolve applies an event to the session. Events with no effect the engine
// tracks are rejected with model.ErrEventNotPlayable.
func Resolve(s *model.Session, rnd random.Random, play Play, now time.Time) (Effect, error) {
	if s.Player(play.PlayerID) == nil {
		return Effect{}, model.ErrPlayerNotFound
	}
	if play.EventCardID != 0 {
		c := s.Card(play.EventCardID)
		if c == nil || !c.InHandOf(play.PlayerID) {
			return Effect{}, model.ErrCardNotFound
		}
		if !c.IsEvent(play.Event) {
			return Effect{}, model.ErrWrongEventCard
		}
	}

	effect := Effect{Result: ResultApplied}
	var err error

	switch play.Event {
	case model.EventCardsOffTheTable:
		effect.Cards, err = discardAllOfKind(s, play.TargetPlayerID, play.TargetEvent, play.EventCardID)
		effect.Changes = model.ChangePlayers | model.ChangeDiscardPile

	case model.EventLookIntoTheAshes:
		_, err = cards.Recall(s, play.PlayerID, play.CardID)
		effect.Cards = []model.CardID{play.CardID}
		effect.Changes = model.ChangePlayers | model.ChangeDiscardPile

	case model.EventOneMore:
		_, err = secrets.Transfer(s, play.SecretID, play.TargetPlayerID)
		effect.Secret = play.SecretID
		effect.Changes = model.ChangePlayers

	case model.EventAnotherVictim:
		_, err = sets.TransferSet(s, play.SetID, play.TargetPlayerID)
		effect.Set = play.SetID
		effect.Changes = model.ChangePlayers

	case model.EventEarlyTrain:
		dropped, ended := cards.ForcedBulkDiscard(s, rnd, model.ForcedDiscardCount, now)
		if ended {
			effect.Result = ResultEnded
			effect.Changes = model.ChangeSession
			break
		}
		for _, c := range dropped {
			effect.Cards = append(effect.Cards, c.ID)
		}
		effect.Changes = model.ChangeSession | model.ChangeDiscardPile

	case model.EventDelayTheEscape:
		if len(play.CardIDs) > model.ReturnToDeckLimit {
			return Effect{}, fmt.Errorf("%w: at most %d cards can return to the deck", model.ErrTooManyCards, model.ReturnToDeckLimit)
		}
		_, err = cards.ReturnToDeck(s, play.CardIDs)
		effect.Cards = play.CardIDs
		effect.Changes = model.ChangeSession | model.ChangeDiscardPile

	case model.EventCardTrade:
		err = cards.InitiateTrade(s, play.PlayerID, play.TargetPlayerID)
		effect.Changes = model.ChangePlayers

	case model.EventDeadCardFolly, model.EventPointYourSuspicion, model.EventNotSoFast:
		return Effect{}, fmt.Errorf("%w: %s", model.ErrEventNotPlayable, play.Event)

	default:
		return Effect{}, fmt.Errorf("%w: unknown event %q", model.ErrEventNotPlayable, play.Event)
	}
	if err != nil {
		return Effect{}, err
	}

	if play.EventCardID != 0 && effect.Result == ResultApplied {
		if _, err := cards.Discard(s, play.PlayerID, play.EventCardID); err != nil {
			return Effect{}, err
		}
		effect.Changes |= model.ChangePlayers | model.ChangeDiscardPile
	}
	return effect, nil
}

// discardAllOfKind drops every live card of the named event from the target
// player's hand, except the card being played. Finding none is not an error.
func discardAllOfKind(s *model.Session, target model.PlayerID, kind model.EventName, played model.CardID) ([]model.CardID, error) {
	if s.Player(target) == nil {
		return nil, model.ErrPlayerNotFound
	}
	if kind == "" {
		kind = model.StarterEvent
	}

	var dropped []model.CardID
	for _, c := range s.Hand(target) {
		if !c.IsEvent(kind) || c.ID == played {
			continue
		}
		if _, err := cards.Discard(s, target, c.ID); err != nil {
			return nil, err
		}
		dropped = append(dropped, c.ID)
	}
	return dropped, nil
}
