package model

import (
	"sort"
	"time"
)

// SessionID uniquely identifies a game session across the store
type SessionID int64

// Phase represents where a session is in its lifecycle
type Phase string

const (
	PhaseAwaitingPlayers Phase = "awaiting_players" // Fewer than MinPlayers joined
	PhaseBootable        Phase = "bootable"         // Enough players to start
	PhaseFull            Phase = "full"             // MaxPlayers joined
	PhaseInProgress      Phase = "in_progress"
	PhaseFinished        Phase = "finished"
)

// FinishReason records why a session ended
type FinishReason string

const (
	FinishMurdererRevealed FinishReason = "murderer_revealed"
	FinishDeckExhausted    FinishReason = "deck_exhausted"
	FinishEndedByHost      FinishReason = "ended_by_host"
)

// Player count bounds accepted when creating a session
const (
	MinSessionPlayers = 2
	MaxSessionPlayers = 6
)

// Session is the root aggregate of one game. Every mutation of a session and
// the entities it owns happens on a private copy that the store commits as a
// whole.
type Session struct {
	ID             SessionID
	Name           string
	Phase          Phase
	MinPlayers     int
	MaxPlayers     int
	CurrentTurn    int // 1-based turn order of the active player, 0 before start
	CardsRemaining int // Cards left in the deck
	FinishReason   FinishReason

	Players []Player
	Cards   []Card
	Secrets []Secret
	Sets    []Set

	CreatedAt  time.Time
	UpdatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// PlayerCount returns the number of players in the session
func (s *Session) PlayerCount() int {
	return len(s.Players)
}

// IsStarted returns true once the session has left the lobby phases
func (s *Session) IsStarted() bool {
	return s.Phase == PhaseInProgress || s.Phase == PhaseFinished
}

// LobbyPhase returns the pre-start phase implied by the current player count
func (s *Session) LobbyPhase() Phase {
	switch n := len(s.Players); {
	case n >= s.MaxPlayers:
		return PhaseFull
	case n >= s.MinPlayers:
		return PhaseBootable
	default:
		return PhaseAwaitingPlayers
	}
}

// Finish moves the session to the terminal phase. It reports false if the
// session had already finished, in which case nothing changes.
func (s *Session) Finish(reason FinishReason, now time.Time) bool {
	if s.Phase == PhaseFinished {
		return false
	}
	s.Phase = PhaseFinished
	s.FinishReason = reason
	s.FinishedAt = &now
	return true
}

// Player returns the player with the given ID, or nil if not in the session
func (s *Session) Player(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// Host returns the current host, or nil if none
func (s *Session) Host() *Player {
	for i := range s.Players {
		if s.Players[i].IsHost {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayerByTurn returns the player holding the given turn order, or nil
func (s *Session) PlayerByTurn(turn int) *Player {
	for i := range s.Players {
		if s.Players[i].TurnOrder == turn {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayersInTurnOrder returns pointers to the players sorted by turn order.
// Before start every turn order is 0 and join order is preserved.
func (s *Session) PlayersInTurnOrder() []*Player {
	out := make([]*Player, 0, len(s.Players))
	for i := range s.Players {
		out = append(out, &s.Players[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TurnOrder < out[j].TurnOrder })
	return out
}

// Card returns the card with the given ID, or nil
func (s *Session) Card(id CardID) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// Secret returns the secret with the given ID, or nil
func (s *Session) Secret(id SecretID) *Secret {
	for i := range s.Secrets {
		if s.Secrets[i].ID == id {
			return &s.Secrets[i]
		}
	}
	return nil
}

// Set returns the set with the given ID, or nil
func (s *Session) Set(id SetID) *Set {
	for i := range s.Sets {
		if s.Sets[i].ID == id {
			return &s.Sets[i]
		}
	}
	return nil
}

// Deck returns pointers to the cards currently in the deck, ordered by ID
func (s *Session) Deck() []*Card {
	return s.filterCards(func(c *Card) bool { return c.InDeck() })
}

// DraftPile returns the face-up draft cards, ordered by ID
func (s *Session) DraftPile() []*Card {
	return s.filterCards(func(c *Card) bool { return c.InDraft })
}

// Hand returns the live hand of a player: picked up and not dropped
func (s *Session) Hand(playerID PlayerID) []*Card {
	return s.filterCards(func(c *Card) bool { return c.InHandOf(playerID) })
}

// DiscardPile returns the dropped cards, most recently dropped first
func (s *Session) DiscardPile() []*Card {
	pile := s.filterCards(func(c *Card) bool { return c.Dropped })
	sort.Slice(pile, func(i, j int) bool { return pile[i].DiscardSeq > pile[j].DiscardSeq })
	return pile
}

// NextDiscardSeq returns the sequence number for the next dropped card
func (s *Session) NextDiscardSeq() int {
	highest := 0
	for i := range s.Cards {
		if s.Cards[i].Dropped && s.Cards[i].DiscardSeq > highest {
			highest = s.Cards[i].DiscardSeq
		}
	}
	return highest + 1
}

// PlayerSecrets returns the secrets held by a player, ordered by ID
func (s *Session) PlayerSecrets(playerID PlayerID) []*Secret {
	var out []*Secret
	for i := range s.Secrets {
		if s.Secrets[i].OwnerID == playerID {
			out = append(out, &s.Secrets[i])
		}
	}
	return out
}

// PlayerSets returns the sets controlled by a player, ordered by ID
func (s *Session) PlayerSets(playerID PlayerID) []*Set {
	var out []*Set
	for i := range s.Sets {
		if s.Sets[i].OwnerID == playerID {
			out = append(out, &s.Sets[i])
		}
	}
	return out
}

// NextSetID returns the ID the next composed set will receive
func (s *Session) NextSetID() SetID {
	var highest SetID
	for i := range s.Sets {
		if s.Sets[i].ID > highest {
			highest = s.Sets[i].ID
		}
	}
	return highest + 1
}

func (s *Session) filterCards(keep func(*Card) bool) []*Card {
	var out []*Card
	for i := range s.Cards {
		if keep(&s.Cards[i]) {
			out = append(out, &s.Cards[i])
		}
	}
	return out
}

// Clone returns a deep copy of the session. Stores hand clones to mutators so
// that a failed mutation leaves the committed state untouched.
func (s *Session) Clone() *Session {
	c := *s
	c.Players = append([]Player(nil), s.Players...)
	c.Secrets = append([]Secret(nil), s.Secrets...)
	c.Cards = make([]Card, len(s.Cards))
	for i := range s.Cards {
		c.Cards[i] = s.Cards[i].clone()
	}
	c.Sets = make([]Set, len(s.Sets))
	for i := range s.Sets {
		c.Sets[i] = s.Sets[i]
		c.Sets[i].CardIDs = append([]CardID(nil), s.Sets[i].CardIDs...)
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}

// RequireInProgress returns ErrSessionNotInProgress unless the game is running
func (s *Session) RequireInProgress() error {
	if s.Phase != PhaseInProgress {
		return ErrSessionNotInProgress
	}
	return nil
}
