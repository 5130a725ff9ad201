package postgres

import (
	"time"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// sessionRow is the root row of a session; it is the row locked by updates
type sessionRow struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	Name           string
	Phase          string `gorm:"index"`
	MinPlayers     int
	MaxPlayers     int
	CurrentTurn    int
	CardsRemaining int
	FinishReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
}

func (sessionRow) TableName() string { return "sessions" }

type playerRow struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	SessionID        int64 `gorm:"index"`
	Name             string
	IsHost           bool
	BirthDate        time.Time
	TurnOrder        int
	SelectedForTrade bool
	JoinedAt         time.Time
}

func (playerRow) TableName() string { return "players" }

// cardRow flattens the card kinds into nullable-by-convention columns
type cardRow struct {
	SessionID  int64 `gorm:"primaryKey;autoIncrement:false"`
	CardID     int64 `gorm:"primaryKey;autoIncrement:false"`
	Kind       string
	Name       string
	SetSize    int
	SetID      int64
	OwnerID    int64 `gorm:"index"`
	PickedUp   bool
	Dropped    bool
	InDraft    bool
	DiscardSeq int
}

func (cardRow) TableName() string { return "cards" }

type secretRow struct {
	SessionID    int64 `gorm:"primaryKey;autoIncrement:false"`
	SecretID     int64 `gorm:"primaryKey;autoIncrement:false"`
	OwnerID      int64 `gorm:"index"`
	IsMurderer   bool
	IsAccomplice bool
	IsRevealed   bool
}

func (secretRow) TableName() string { return "secrets" }

type setRow struct {
	SessionID int64 `gorm:"primaryKey;autoIncrement:false"`
	SetID     int64 `gorm:"primaryKey;autoIncrement:false"`
	Name      string
	OwnerID   int64 `gorm:"index"`
	CreatedAt time.Time
}

func (setRow) TableName() string { return "sets" }

func toSessionRow(s *model.Session) sessionRow {
	return sessionRow{
		ID:             int64(s.ID),
		Name:           s.Name,
		Phase:          string(s.Phase),
		MinPlayers:     s.MinPlayers,
		MaxPlayers:     s.MaxPlayers,
		CurrentTurn:    s.CurrentTurn,
		CardsRemaining: s.CardsRemaining,
		FinishReason:   string(s.FinishReason),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
	}
}

func toPlayerRow(sessionID model.SessionID, p *model.Player) playerRow {
	return playerRow{
		ID:               int64(p.ID),
		SessionID:        int64(sessionID),
		Name:             p.Name,
		IsHost:           p.IsHost,
		BirthDate:        p.BirthDate,
		TurnOrder:        p.TurnOrder,
		SelectedForTrade: p.SelectedForTrade,
		JoinedAt:         p.JoinedAt,
	}
}

func toCardRow(sessionID model.SessionID, c *model.Card) cardRow {
	row := cardRow{
		SessionID:  int64(sessionID),
		CardID:     int64(c.ID),
		Kind:       string(c.Kind),
		Name:       c.Name(),
		OwnerID:    int64(c.OwnerID),
		PickedUp:   c.PickedUp,
		Dropped:    c.Dropped,
		InDraft:    c.InDraft,
		DiscardSeq: c.DiscardSeq,
	}
	if c.Kind == model.CardKindDetective {
		row.SetSize = c.Detective.SetSize
		row.SetID = int64(c.Detective.SetID)
	}
	return row
}

func toSecretRow(sessionID model.SessionID, s *model.Secret) secretRow {
	return secretRow{
		SessionID:    int64(sessionID),
		SecretID:     int64(s.ID),
		OwnerID:      int64(s.OwnerID),
		IsMurderer:   s.IsMurderer,
		IsAccomplice: s.IsAccomplice,
		IsRevealed:   s.IsRevealed,
	}
}

func toSetRow(sessionID model.SessionID, s *model.Set) setRow {
	return setRow{
		SessionID: int64(sessionID),
		SetID:     int64(s.ID),
		Name:      s.Name,
		OwnerID:   int64(s.OwnerID),
		CreatedAt: s.CreatedAt,
	}
}

func (r cardRow) toModel() model.Card {
	c := model.Card{
		ID:         model.CardID(r.CardID),
		Kind:       model.CardKind(r.Kind),
		OwnerID:    model.PlayerID(r.OwnerID),
		PickedUp:   r.PickedUp,
		Dropped:    r.Dropped,
		InDraft:    r.InDraft,
		DiscardSeq: r.DiscardSeq,
	}
	switch c.Kind {
	case model.CardKindGeneric:
		c.Generic = &model.GenericCard{Name: r.Name}
	case model.CardKindDetective:
		c.Detective = &model.DetectiveCard{
			Name:    model.DetectiveName(r.Name),
			SetSize: r.SetSize,
			SetID:   model.SetID(r.SetID),
		}
	case model.CardKindEvent:
		c.Event = &model.EventCard{Name: model.EventName(r.Name)}
	}
	return c
}

// assemble builds the aggregate from its rows. Set card lists are derived
// from the cards that point at each set.
func assemble(row sessionRow, players []playerRow, cards []cardRow, secrets []secretRow, sets []setRow) *model.Session {
	s := &model.Session{
		ID:             model.SessionID(row.ID),
		Name:           row.Name,
		Phase:          model.Phase(row.Phase),
		MinPlayers:     row.MinPlayers,
		MaxPlayers:     row.MaxPlayers,
		CurrentTurn:    row.CurrentTurn,
		CardsRemaining: row.CardsRemaining,
		FinishReason:   model.FinishReason(row.FinishReason),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		StartedAt:      row.StartedAt,
		FinishedAt:     row.FinishedAt,
	}

	for _, p := range players {
		s.Players = append(s.Players, model.Player{
			ID:               model.PlayerID(p.ID),
			SessionID:        s.ID,
			Name:             p.Name,
			IsHost:           p.IsHost,
			BirthDate:        p.BirthDate,
			TurnOrder:        p.TurnOrder,
			SelectedForTrade: p.SelectedForTrade,
			JoinedAt:         p.JoinedAt,
		})
	}
	for _, c := range cards {
		s.Cards = append(s.Cards, c.toModel())
	}
	for _, sec := range secrets {
		s.Secrets = append(s.Secrets, model.Secret{
			ID:           model.SecretID(sec.SecretID),
			OwnerID:      model.PlayerID(sec.OwnerID),
			IsMurderer:   sec.IsMurderer,
			IsAccomplice: sec.IsAccomplice,
			IsRevealed:   sec.IsRevealed,
		})
	}
	for _, st := range sets {
		set := model.Set{
			ID:        model.SetID(st.SetID),
			Name:      st.Name,
			OwnerID:   model.PlayerID(st.OwnerID),
			CreatedAt: st.CreatedAt,
		}
		for _, c := range cards {
			if c.Kind == string(model.CardKindDetective) && c.SetID == st.SetID {
				set.CardIDs = append(set.CardIDs, model.CardID(c.CardID))
			}
		}
		s.Sets = append(s.Sets, set)
	}
	return s
}
