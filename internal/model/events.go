package model

// Change identifies what part of a session an observer should refresh. A
// committed mutation reports the union of the changes it made.
type Change uint8

const (
	ChangeSession Change = 1 << iota
	ChangePlayers
	ChangeDiscardPile
)

// ChangeAll covers every observable part of a session
const ChangeAll = ChangeSession | ChangePlayers | ChangeDiscardPile

// Has returns true if c includes every bit of other
func (c Change) Has(other Change) bool {
	return c&other == other
}

// EventType is the name of a notification sent to session observers
type EventType string

const (
	EventSessionChanged     EventType = "session-changed"
	EventPlayersChanged     EventType = "players-changed"
	EventDiscardPileChanged EventType = "discard-changed"
)

// EventTypes lists the notifications implied by a change, in delivery order
func (c Change) EventTypes() []EventType {
	var out []EventType
	if c.Has(ChangeSession) {
		out = append(out, EventSessionChanged)
	}
	if c.Has(ChangePlayers) {
		out = append(out, EventPlayersChanged)
	}
	if c.Has(ChangeDiscardPile) {
		out = append(out, EventDiscardPileChanged)
	}
	return out
}
