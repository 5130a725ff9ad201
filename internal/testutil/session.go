package testutil

import (
	"fmt"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// Epoch is a fixed instant used by tests as "now"
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// NewSession returns an unsaved lobby session with n players. Player IDs are
// left zero for a store to allocate; use NumberPlayers for store-less tests.
// The first player is the host.
func NewSession(n int) *model.Session {
	s := &model.Session{
		Name:       "test session",
		Phase:      model.PhaseAwaitingPlayers,
		MinPlayers: model.MinSessionPlayers,
		MaxPlayers: model.MaxSessionPlayers,
		CreatedAt:  Epoch,
		UpdatedAt:  Epoch,
	}
	for i := 0; i < n; i++ {
		s.Players = append(s.Players, model.Player{
			Name:      fmt.Sprintf("player-%d", i+1),
			IsHost:    i == 0,
			BirthDate: time.Date(1990, time.Month(i%12+1), 1, 0, 0, 0, 0, time.UTC),
			JoinedAt:  Epoch.Add(time.Duration(i) * time.Second),
		})
	}
	s.Phase = s.LobbyPhase()
	return s
}

// NumberPlayers gives the session ID 1 and its players IDs 1..n in order
func NumberPlayers(s *model.Session) *model.Session {
	s.ID = 1
	for i := range s.Players {
		s.Players[i].ID = model.PlayerID(i + 1)
		s.Players[i].SessionID = s.ID
	}
	return s
}

// Detective returns a detective card held in a player's hand
func Detective(id model.CardID, owner model.PlayerID, name model.DetectiveName, setSize int) model.Card {
	return model.Card{
		ID:         id,
		Kind:       model.CardKindDetective,
		OwnerID:    owner,
		PickedUp:   owner != model.NoPlayer,
		DiscardSeq: model.NotDiscarded,
		Detective:  &model.DetectiveCard{Name: name, SetSize: setSize},
	}
}

// Event returns an event card held in a player's hand
func Event(id model.CardID, owner model.PlayerID, name model.EventName) model.Card {
	return model.Card{
		ID:         id,
		Kind:       model.CardKindEvent,
		OwnerID:    owner,
		PickedUp:   owner != model.NoPlayer,
		DiscardSeq: model.NotDiscarded,
		Event:      &model.EventCard{Name: name},
	}
}

// Generic returns an effect-free card held in a player's hand
func Generic(id model.CardID, owner model.PlayerID, name string) model.Card {
	return model.Card{
		ID:         id,
		Kind:       model.CardKindGeneric,
		OwnerID:    owner,
		PickedUp:   owner != model.NoPlayer,
		DiscardSeq: model.NotDiscarded,
		Generic:    &model.GenericCard{Name: name},
	}
}

// CardAccounting returns picked up + dropped + in draft + the session's
// cards-remaining counter, which must always equal the number of cards created
func CardAccounting(s *model.Session) int {
	n := s.CardsRemaining
	for i := range s.Cards {
		c := &s.Cards[i]
		if c.PickedUp {
			n++
		}
		if c.Dropped {
			n++
		}
		if c.InDraft {
			n++
		}
	}
	return n
}
