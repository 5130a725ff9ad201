package model

import "time"

// SetID identifies a detective set within its session
type SetID int64

// Set is a table-side group of detective cards. OwnerID is the player who
// controls the set, independent of who held the cards.
type Set struct {
	ID        SetID
	Name      string
	OwnerID   PlayerID
	CardIDs   []CardID
	CreatedAt time.Time
}
