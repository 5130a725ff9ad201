package response

import (
	"time"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
	"github.com/mcoot/sleuthgame-go/internal/services/events"
)

// birthDateLayout is the calendar date format used for birth dates
const birthDateLayout = "2006-01-02"

// Player represents a seated player in API responses
type Player struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	IsHost           bool   `json:"is_host"`
	BirthDate        string `json:"birth_date,omitempty"`
	TurnOrder        int    `json:"turn_order,omitempty"`
	HandSize         int    `json:"hand_size"`
	SecretCount      int    `json:"secret_count"`
	SelectedForTrade bool   `json:"selected_for_trade,omitempty"`
}

// PlayerFromModel converts a player, counting what it holds in the session
func PlayerFromModel(s *model.Session, p *model.Player) Player {
	out := Player{
		ID:               int64(p.ID),
		Name:             p.Name,
		IsHost:           p.IsHost,
		TurnOrder:        p.TurnOrder,
		HandSize:         len(s.Hand(p.ID)),
		SecretCount:      len(s.PlayerSecrets(p.ID)),
		SelectedForTrade: p.SelectedForTrade,
	}
	if !p.BirthDate.IsZero() {
		out.BirthDate = p.BirthDate.Format(birthDateLayout)
	}
	return out
}

// Card represents a card in API responses
type Card struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	SetSize    int    `json:"set_size,omitempty"`
	IsWildcard bool   `json:"is_wildcard,omitempty"`
	OwnerID    int64  `json:"owner_id,omitempty"`
	DiscardSeq int    `json:"discard_seq,omitempty"`
}

// CardFromModel converts a model.Card
func CardFromModel(c *model.Card) Card {
	out := Card{
		ID:      int64(c.ID),
		Kind:    string(c.Kind),
		Name:    c.Name(),
		OwnerID: int64(c.OwnerID),
	}
	if c.Dropped {
		out.DiscardSeq = c.DiscardSeq
	}
	if c.Kind == model.CardKindDetective {
		out.SetSize = c.Detective.SetSize
		out.IsWildcard = c.Detective.IsWildcard()
	}
	return out
}

// CardsFromModel converts a slice of cards
func CardsFromModel(cs []*model.Card) []Card {
	out := make([]Card, 0, len(cs))
	for _, c := range cs {
		out = append(out, CardFromModel(c))
	}
	return out
}

// Secret roles as shown to clients
const (
	RoleMurderer   = "murderer"
	RoleAccomplice = "accomplice"
	RoleInnocent   = "innocent"
)

// Secret represents a secret card. Role is only filled in when the secret is
// revealed or shown to its owner.
type Secret struct {
	ID         int64  `json:"id"`
	OwnerID    int64  `json:"owner_id"`
	IsRevealed bool   `json:"is_revealed"`
	Role       string `json:"role,omitempty"`
}

// SecretFromModel converts a secret, hiding its role unless it is revealed
// or showRole is set
func SecretFromModel(s *model.Secret, showRole bool) Secret {
	out := Secret{
		ID:         int64(s.ID),
		OwnerID:    int64(s.OwnerID),
		IsRevealed: s.IsRevealed,
	}
	if showRole || s.IsRevealed {
		switch {
		case s.IsMurderer:
			out.Role = RoleMurderer
		case s.IsAccomplice:
			out.Role = RoleAccomplice
		default:
			out.Role = RoleInnocent
		}
	}
	return out
}

// SecretsFromModel converts secrets shown to their owner
func SecretsFromModel(ss []*model.Secret) []Secret {
	out := make([]Secret, 0, len(ss))
	for _, s := range ss {
		out = append(out, SecretFromModel(s, true))
	}
	return out
}

// Set represents a composed detective set
type Set struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CardIDs   []int64   `json:"card_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// SetFromModel converts a model.Set
func SetFromModel(set *model.Set) Set {
	out := Set{
		ID:        int64(set.ID),
		Name:      set.Name,
		OwnerID:   int64(set.OwnerID),
		CardIDs:   make([]int64, 0, len(set.CardIDs)),
		CreatedAt: set.CreatedAt,
	}
	for _, id := range set.CardIDs {
		out.CardIDs = append(out.CardIDs, int64(id))
	}
	return out
}

// SetsFromModel converts a slice of sets
func SetsFromModel(sets []*model.Set) []Set {
	out := make([]Set, 0, len(sets))
	for _, set := range sets {
		out = append(out, SetFromModel(set))
	}
	return out
}

// Session is the public view of a session: everything any observer may see
type Session struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Phase           string     `json:"phase"`
	MinPlayers      int        `json:"min_players"`
	MaxPlayers      int        `json:"max_players"`
	CurrentTurn     int        `json:"current_turn"`
	CardsRemaining  int        `json:"cards_remaining"`
	FinishReason    string     `json:"finish_reason,omitempty"`
	Players         []Player   `json:"players"`
	RevealedSecrets []Secret   `json:"revealed_secrets"`
	Sets            []Set      `json:"sets"`
	DraftPile       []Card     `json:"draft_pile"`
	RecentDiscards  []Card     `json:"recent_discards"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// SessionFromModel builds the public view of a session
func SessionFromModel(s *model.Session) Session {
	out := Session{
		ID:              int64(s.ID),
		Name:            s.Name,
		Phase:           string(s.Phase),
		MinPlayers:      s.MinPlayers,
		MaxPlayers:      s.MaxPlayers,
		CurrentTurn:     s.CurrentTurn,
		CardsRemaining:  s.CardsRemaining,
		FinishReason:    string(s.FinishReason),
		Players:         make([]Player, 0, len(s.Players)),
		RevealedSecrets: []Secret{},
		Sets:            make([]Set, 0, len(s.Sets)),
		DraftPile:       CardsFromModel(s.DraftPile()),
		RecentDiscards:  CardsFromModel(cards.RecentDiscards(s, model.RecentDiscardLimit)),
		CreatedAt:       s.CreatedAt,
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
	}
	for _, p := range s.PlayersInTurnOrder() {
		out.Players = append(out.Players, PlayerFromModel(s, p))
	}
	for i := range s.Secrets {
		if s.Secrets[i].IsRevealed {
			out.RevealedSecrets = append(out.RevealedSecrets, SecretFromModel(&s.Secrets[i], false))
		}
	}
	for i := range s.Sets {
		out.Sets = append(out.Sets, SetFromModel(&s.Sets[i]))
	}
	return out
}

// SessionSummary is a lobby listing entry
type SessionSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Phase       string    `json:"phase"`
	PlayerCount int       `json:"player_count"`
	MinPlayers  int       `json:"min_players"`
	MaxPlayers  int       `json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionSummariesFromModel converts sessions for listing
func SessionSummariesFromModel(sessions []*model.Session) []SessionSummary {
	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionSummary{
			ID:          int64(s.ID),
			Name:        s.Name,
			Phase:       string(s.Phase),
			PlayerCount: s.PlayerCount(),
			MinPlayers:  s.MinPlayers,
			MaxPlayers:  s.MaxPlayers,
			CreatedAt:   s.CreatedAt,
		})
	}
	return out
}

// JoinResponse is returned when a player takes a seat
type JoinResponse struct {
	Player  Player  `json:"player"`
	Session Session `json:"session"`
}

// LeaveResponse is returned when a player leaves a lobby
type LeaveResponse struct {
	Deleted bool     `json:"deleted"`
	Session *Session `json:"session,omitempty"`
}

// FinishResponse is returned when a session is finished
type FinishResponse struct {
	AlreadyFinished bool    `json:"already_finished"`
	Session         Session `json:"session"`
}

// TurnResponse names the player whose turn it now is
type TurnResponse struct {
	CurrentTurn int    `json:"current_turn"`
	PlayerID    int64  `json:"player_id"`
	PlayerName  string `json:"player_name"`
}

// TurnResponseFromModel converts the active player
func TurnResponseFromModel(p *model.Player) TurnResponse {
	return TurnResponse{
		CurrentTurn: p.TurnOrder,
		PlayerID:    int64(p.ID),
		PlayerName:  p.Name,
	}
}

// DrawResponse is returned when a card moves into a hand
type DrawResponse struct {
	Card          *Card  `json:"card,omitempty"`
	Replacement   *Card  `json:"replacement,omitempty"`
	DeckExhausted bool   `json:"deck_exhausted"`
	Phase         string `json:"phase"`
}

// DrawResponseFromResult converts a cards.DrawResult
func DrawResponseFromResult(r cards.DrawResult) DrawResponse {
	out := DrawResponse{
		DeckExhausted: r.DeckExhausted,
		Phase:         string(r.Session.Phase),
	}
	if r.Card != nil {
		c := CardFromModel(r.Card)
		out.Card = &c
	}
	if r.Replacement != nil {
		c := CardFromModel(r.Replacement)
		out.Replacement = &c
	}
	return out
}

// Outcome is the result of playing an event card
type Outcome struct {
	Event   string  `json:"event"`
	Result  string  `json:"result"`
	Cards   []Card  `json:"cards"`
	Secret  *Secret `json:"secret,omitempty"`
	Set     *Set    `json:"set,omitempty"`
	Session Session `json:"session"`
}

// OutcomeFromModel converts an events.Outcome
func OutcomeFromModel(o events.Outcome) Outcome {
	out := Outcome{
		Event:   string(o.Event),
		Result:  string(o.Result),
		Cards:   CardsFromModel(o.Cards),
		Session: SessionFromModel(o.Session),
	}
	if o.Secret != nil {
		s := SecretFromModel(o.Secret, false)
		out.Secret = &s
	}
	if o.Set != nil {
		s := SetFromModel(o.Set)
		out.Set = &s
	}
	return out
}
