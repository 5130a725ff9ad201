package model

// CardID identifies a card within its session
type CardID int64

// NotDiscarded is the discard sequence of a card that is not in the discard pile
const NotDiscarded = -1

// CardKind tags which payload a Card carries
type CardKind string

const (
	CardKindGeneric   CardKind = "generic"
	CardKindDetective CardKind = "detective"
	CardKindEvent     CardKind = "event"
)

// Card is one physical card of a session. Kind selects exactly one of the
// Generic, Detective or Event payloads.
type Card struct {
	ID         CardID
	Kind       CardKind
	OwnerID    PlayerID
	PickedUp   bool
	Dropped    bool
	InDraft    bool
	DiscardSeq int

	Generic   *GenericCard
	Detective *DetectiveCard
	Event     *EventCard
}

// GenericCard has a name but no effect on the rules engine
type GenericCard struct {
	Name string
}

// DetectiveCard can be combined with others into a Set
type DetectiveCard struct {
	Name    DetectiveName
	SetSize int   // Cards needed for a set of this detective (2 or 3)
	SetID   SetID // Set the card was committed to, 0 if none
}

// IsWildcard returns true if the detective can stand in for any other
func (d *DetectiveCard) IsWildcard() bool {
	return d.Name == DetectiveHarleyQuin
}

// EventCard is a one-shot card whose name determines its effect
type EventCard struct {
	Name EventName
}

// Name returns the display name of the card, whatever its kind
func (c *Card) Name() string {
	switch c.Kind {
	case CardKindGeneric:
		return c.Generic.Name
	case CardKindDetective:
		return string(c.Detective.Name)
	case CardKindEvent:
		return string(c.Event.Name)
	default:
		return ""
	}
}

// InDeck returns true if the card is still face down in the deck
func (c *Card) InDeck() bool {
	return c.OwnerID == NoPlayer && !c.PickedUp && !c.Dropped && !c.InDraft && !c.InSet()
}

// InSet returns true if the card is a detective committed to a set
func (c *Card) InSet() bool {
	return c.Kind == CardKindDetective && c.Detective.SetID != 0
}

// InHandOf returns true if the card is a live card in the player's hand
func (c *Card) InHandOf(playerID PlayerID) bool {
	return c.OwnerID == playerID && playerID != NoPlayer && c.PickedUp && !c.Dropped
}

// IsEvent returns true if the card is an event card with the given name
func (c *Card) IsEvent(name EventName) bool {
	return c.Kind == CardKindEvent && c.Event.Name == name
}

func (c Card) clone() Card {
	if c.Generic != nil {
		g := *c.Generic
		c.Generic = &g
	}
	if c.Detective != nil {
		d := *c.Detective
		c.Detective = &d
	}
	if c.Event != nil {
		e := *c.Event
		c.Event = &e
	}
	return c
}
