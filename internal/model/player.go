package model

import "time"

// PlayerID uniquely identifies a player across the system. The zero value
// means "no player".
type PlayerID int64

// NoPlayer marks an unowned card, secret or set
const NoPlayer PlayerID = 0

// Player represents a participant seated in one session
type Player struct {
	ID        PlayerID
	SessionID SessionID
	Name      string
	IsHost    bool
	BirthDate time.Time
	TurnOrder int // 1..N once the session starts, 0 before

	// SelectedForTrade is set by the first phase of a card trade and cleared
	// when the trade is finalized.
	SelectedForTrade bool

	JoinedAt time.Time
}
