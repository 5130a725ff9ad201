package turns

import (
	"sort"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// Turn order is measured from this calendar day, ignoring the year
const (
	referenceMonth = time.September
	referenceDay   = 15
)

// dayDistance returns how many days a birthday lies from the reference day
// within one (leap) year
func dayDistance(birth time.Time) int {
	ref := time.Date(2000, referenceMonth, referenceDay, 0, 0, 0, 0, time.UTC)
	day := time.Date(2000, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	d := int(day.Sub(ref).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}

// AssignTurnOrder ranks players by how close their birthday is to the
// reference day, closest first. Ties go to the lower player ID. The first
// ranked player takes the first turn.
func AssignTurnOrder(s *model.Session) {
	ranked := make([]*model.Player, 0, len(s.Players))
	for i := range s.Players {
		ranked = append(ranked, &s.Players[i])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := dayDistance(ranked[i].BirthDate), dayDistance(ranked[j].BirthDate)
		if di != dj {
			return di < dj
		}
		return ranked[i].ID < ranked[j].ID
	})
	for rank, p := range ranked {
		p.TurnOrder = rank + 1
	}
	s.CurrentTurn = 1
}

// AdvanceTurn passes the turn to the next player, wrapping after the last
func AdvanceTurn(s *model.Session) (*model.Player, error) {
	if err := s.RequireInProgress(); err != nil {
		return nil, err
	}
	n := s.PlayerCount()
	if n == 0 {
		return nil, model.ErrPlayerNotFound
	}
	s.CurrentTurn = s.CurrentTurn%n + 1
	return CurrentPlayer(s)
}

// CurrentPlayer returns the player whose turn it is
func CurrentPlayer(s *model.Session) (*model.Player, error) {
	p := s.PlayerByTurn(s.CurrentTurn)
	if p == nil || s.CurrentTurn == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return p, nil
}
