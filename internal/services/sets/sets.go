package sets

import (
	"fmt"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// Compose validates detective cards from one player's hand as a set and
// commits them to a new Set owned by that player.
//
// A pair needs two detectives of the same two-card name, one two-card
// detective plus the wildcard, or the Beresford brothers. A triple needs three
// of a three-card name or two of one plus the wildcard. Size rules are checked
// before name rules.
func Compose(s *model.Session, cardIDs []model.CardID, now time.Time) (*model.Set, error) {
	if len(cardIDs) != 2 && len(cardIDs) != 3 {
		return nil, fmt.Errorf("%w: a set needs 2 or 3 cards, got %d", model.ErrSetSizeMismatch, len(cardIDs))
	}

	cards := make([]*model.Card, 0, len(cardIDs))
	seen := make(map[model.CardID]bool, len(cardIDs))
	for _, id := range cardIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: card %d listed twice", model.ErrConstraintViolation, id)
		}
		seen[id] = true

		c := s.Card(id)
		if c == nil {
			return nil, model.ErrCardNotFound
		}
		if c.Kind != model.CardKindDetective {
			return nil, model.ErrNotDetective
		}
		if c.InSet() {
			return nil, model.ErrCardInSet
		}
		if !c.InHandOf(c.OwnerID) {
			return nil, fmt.Errorf("%w: card %d is not in a hand", model.ErrCardNotFound, id)
		}
		if len(cards) > 0 && cards[0].OwnerID != c.OwnerID {
			return nil, model.ErrSetOwnerMismatch
		}
		cards = append(cards, c)
	}

	var (
		name string
		err  error
	)
	if len(cards) == 2 {
		name, err = pairName(cards[0].Detective, cards[1].Detective)
	} else {
		name, err = tripleName(cards[0].Detective, cards[1].Detective, cards[2].Detective)
	}
	if err != nil {
		return nil, err
	}

	set := model.Set{
		ID:        s.NextSetID(),
		Name:      name,
		OwnerID:   cards[0].OwnerID,
		CreatedAt: now,
	}
	for _, c := range cards {
		c.Detective.SetID = set.ID
		c.OwnerID = model.NoPlayer
		set.CardIDs = append(set.CardIDs, c.ID)
	}
	s.Sets = append(s.Sets, set)
	return s.Set(set.ID), nil
}

func pairName(a, b *model.DetectiveCard) (string, error) {
	for _, d := range []*model.DetectiveCard{a, b} {
		if !d.IsWildcard() && d.SetSize != 2 {
			return "", fmt.Errorf("%w: %s needs a set of %d", model.ErrSetSizeMismatch, d.Name, d.SetSize)
		}
	}

	switch {
	case a.IsWildcard() && b.IsWildcard():
		return "", model.ErrDoubleWildcard
	case a.IsWildcard():
		return string(b.Name), nil
	case b.IsWildcard():
		return string(a.Name), nil
	case a.Name == b.Name:
		return string(a.Name), nil
	case isBeresford(a.Name, b.Name):
		return model.BeresfordSetName, nil
	default:
		return "", model.ErrSetNameMismatch
	}
}

func isBeresford(a, b model.DetectiveName) bool {
	return (a == model.DetectiveTommy && b == model.DetectiveTuppence) ||
		(a == model.DetectiveTuppence && b == model.DetectiveTommy)
}

func tripleName(cards ...*model.DetectiveCard) (string, error) {
	wildcards := 0
	var named []*model.DetectiveCard
	for _, d := range cards {
		if d.IsWildcard() {
			wildcards++
			continue
		}
		if d.SetSize != 3 {
			return "", fmt.Errorf("%w: %s needs a set of %d", model.ErrSetSizeMismatch, d.Name, d.SetSize)
		}
		named = append(named, d)
	}
	if wildcards > 1 {
		return "", model.ErrDoubleWildcard
	}
	for _, d := range named[1:] {
		if d.Name != named[0].Name {
			return "", model.ErrSetNameMismatch
		}
	}
	return string(named[0].Name), nil
}

// OwnedSet returns the player's first set by ID
func OwnedSet(s *model.Session, playerID model.PlayerID) (*model.Set, error) {
	owned := s.PlayerSets(playerID)
	if len(owned) == 0 {
		return nil, model.ErrSetNotFound
	}
	return owned[0], nil
}

// TransferSet hands a set to another player. Only the set's existence is
// checked here; callers resolve the target.
func TransferSet(s *model.Session, setID model.SetID, target model.PlayerID) (*model.Set, error) {
	set := s.Set(setID)
	if set == nil {
		return nil, model.ErrSetNotFound
	}
	set.OwnerID = target
	return set, nil
}
