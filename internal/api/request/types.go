package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// BirthDateLayout is the accepted birth date format
const BirthDateLayout = "2006-01-02"

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// PlayerRequest describes a player taking a seat
type PlayerRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"`
}

// ParseBirthDate returns the birth date, zero when omitted
func (p PlayerRequest) ParseBirthDate() (time.Time, error) {
	if p.BirthDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(BirthDateLayout, p.BirthDate)
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name       string        `json:"name"`
	MinPlayers int           `json:"min_players,omitempty"`
	MaxPlayers int           `json:"max_players,omitempty"`
	Host       PlayerRequest `json:"host"`
}

// LeaveRequest is the request body for leaving a lobby
type LeaveRequest struct {
	PlayerID int64 `json:"player_id"`
}

// FinishRequest is the request body for finishing a session
type FinishRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CardRequest names a single card, e.g. for drafting or discarding
type CardRequest struct {
	CardID int64 `json:"card_id"`
}

// TransferRequest names the player receiving a secret or set
type TransferRequest struct {
	TargetPlayerID int64 `json:"target_player_id"`
}

// ComposeSetRequest is the request body for laying down a set
type ComposeSetRequest struct {
	CardIDs []int64 `json:"card_ids"`
}

// PlayEventRequest is the request body for playing an event card. Only the
// fields the event uses are read.
type PlayEventRequest struct {
	Event          string  `json:"event"`
	PlayerID       int64   `json:"player_id"`
	EventCardID    int64   `json:"event_card_id,omitempty"`
	TargetPlayerID int64   `json:"target_player_id,omitempty"`
	TargetEvent    string  `json:"target_event,omitempty"`
	CardID         int64   `json:"card_id,omitempty"`
	CardIDs        []int64 `json:"card_ids,omitempty"`
	SecretID       int64   `json:"secret_id,omitempty"`
	SetID          int64   `json:"set_id,omitempty"`
}

// FinalizeTradeRequest is the request body for completing a card trade
type FinalizeTradeRequest struct {
	FromPlayerID int64 `json:"from_player_id"`
	FromCardID   int64 `json:"from_card_id"`
	ToPlayerID   int64 `json:"to_player_id"`
	ToCardID     int64 `json:"to_card_id"`
}

// Decode reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set.
func Decode(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// CardIDs converts wire ids to model ids
func CardIDs(ids []int64) []model.CardID {
	out := make([]model.CardID, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.CardID(id))
	}
	return out
}
