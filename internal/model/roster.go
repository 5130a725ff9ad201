package model

// DetectiveName names a detective card
type DetectiveName string

const (
	DetectivePoirot        DetectiveName = "Hercule Poirot"
	DetectiveMarple        DetectiveName = "Miss Marple"
	DetectiveSatterthwaite DetectiveName = "Mr Satterthwaite"
	DetectivePyne          DetectiveName = "Parker Pyne"
	DetectiveBrent         DetectiveName = "Lady Eileen \"Bundle\" Brent"
	DetectiveTommy         DetectiveName = "Tommy Beresford"
	DetectiveTuppence      DetectiveName = "Tuppence Beresford"
	DetectiveHarleyQuin    DetectiveName = "Harley Quin Wildcard"
)

// BeresfordSetName is the set formed by Tommy and Tuppence together
const BeresfordSetName = "Beresford brothers"

// EventName names an event card
type EventName string

const (
	EventNotSoFast          EventName = "Not so fast"
	EventCardsOffTheTable   EventName = "Cards off the table"
	EventAnotherVictim      EventName = "Another victim"
	EventDeadCardFolly      EventName = "Dead card folly"
	EventLookIntoTheAshes   EventName = "Look into the ashes"
	EventCardTrade          EventName = "Card trade"
	EventOneMore            EventName = "And then there was one more"
	EventDelayTheEscape     EventName = "Delay the murderer's escape"
	EventEarlyTrain         EventName = "Early train to Paddington"
	EventPointYourSuspicion EventName = "Point your suspicions"
)

// Game constants
const (
	HandLimit          = 6
	DraftPileSize      = 3
	ForcedDiscardCount = 6
	ReturnToDeckLimit  = 5
	RecentDiscardLimit = 5
	SecretsPerPlayer   = 3

	// AccompliceThreshold is the player count above which an accomplice is dealt
	AccompliceThreshold = 4
)

// DetectiveEntry describes how many copies of a detective the deck holds
type DetectiveEntry struct {
	Name    DetectiveName
	Copies  int
	SetSize int
}

// EventEntry describes how many copies of an event the deck holds
type EventEntry struct {
	Name   EventName
	Copies int
}

// GenericEntry describes how many copies of an effect-free card the deck holds
type GenericEntry struct {
	Name   string
	Copies int
}

// DetectiveRoster is the fixed set of detective cards
var DetectiveRoster = []DetectiveEntry{
	{Name: DetectivePoirot, Copies: 3, SetSize: 3},
	{Name: DetectiveMarple, Copies: 3, SetSize: 3},
	{Name: DetectiveSatterthwaite, Copies: 2, SetSize: 2},
	{Name: DetectivePyne, Copies: 3, SetSize: 2},
	{Name: DetectiveBrent, Copies: 3, SetSize: 2},
	{Name: DetectiveTommy, Copies: 2, SetSize: 2},
	{Name: DetectiveTuppence, Copies: 2, SetSize: 2},
	{Name: DetectiveHarleyQuin, Copies: 4, SetSize: 2},
}

// EventRoster is the fixed set of event cards
var EventRoster = []EventEntry{
	{Name: EventNotSoFast, Copies: 10},
	{Name: EventCardsOffTheTable, Copies: 1},
	{Name: EventAnotherVictim, Copies: 2},
	{Name: EventDeadCardFolly, Copies: 3},
	{Name: EventLookIntoTheAshes, Copies: 3},
	{Name: EventCardTrade, Copies: 3},
	{Name: EventOneMore, Copies: 2},
	{Name: EventDelayTheEscape, Copies: 3},
	{Name: EventEarlyTrain, Copies: 2},
	{Name: EventPointYourSuspicion, Copies: 3},
}

// GenericRoster is the fixed set of cards without an engine effect
var GenericRoster = []GenericEntry{
	{Name: "Blackmailed", Copies: 1},
	{Name: "Social faux pas", Copies: 3},
}

// StarterEvent is dealt to every player before the rest of the hand is drawn
const StarterEvent = EventNotSoFast

// RosterSize returns the total number of cards created for a session
func RosterSize() int {
	n := 0
	for _, d := range DetectiveRoster {
		n += d.Copies
	}
	for _, e := range EventRoster {
		n += e.Copies
	}
	for _, g := range GenericRoster {
		n += g.Copies
	}
	return n
}
