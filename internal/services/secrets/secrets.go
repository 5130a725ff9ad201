package secrets

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
)

// MaxDealAttempts is the default number of shuffles DealSecrets tries before
// giving up with model.ErrSecretDealExhausted
const MaxDealAttempts = 100

// errCollocated rejects a deal that gives the murderer and accomplice to the
// same player
var errCollocated = errors.New("murderer and accomplice dealt to the same player")

// InitSecrets creates SecretsPerPlayer unowned secrets per player. The first
// is the murderer; with more than AccompliceThreshold players the second is
// the accomplice.
func InitSecrets(s *model.Session, playerCount int) error {
	if len(s.Secrets) > 0 {
		return model.ErrSecretsDealt
	}

	n := playerCount * model.SecretsPerPlayer
	s.Secrets = make([]model.Secret, 0, n)
	for i := 0; i < n; i++ {
		s.Secrets = append(s.Secrets, model.Secret{
			ID:           model.SecretID(i + 1),
			IsMurderer:   i == 0,
			IsAccomplice: i == 1 && playerCount > model.AccompliceThreshold,
		})
	}
	return nil
}

// DealSecrets shuffles the undealt secrets and deals SecretsPerPlayer to each
// player in turn order, reshuffling until the murderer and accomplice land
// with different players. Only the accepted deal is applied.
func DealSecrets(s *model.Session, rnd random.Random, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = MaxDealAttempts
	}

	players := s.PlayersInTurnOrder()
	var pool []*model.Secret
	for i := range s.Secrets {
		if s.Secrets[i].OwnerID == model.NoPlayer {
			pool = append(pool, &s.Secrets[i])
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })

	need := len(players) * model.SecretsPerPlayer
	if len(pool) < need {
		return fmt.Errorf("%w: %d undealt secrets for %d players", model.ErrConstraintViolation, len(pool), len(players))
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		order := append([]*model.Secret(nil), pool...)
		rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		owners, err := assign(order[:need], players)
		if errors.Is(err, errCollocated) {
			continue
		}
		for secret, owner := range owners {
			secret.OwnerID = owner
		}
		return nil
	}
	return model.ErrSecretDealExhausted
}

// assign maps each dealt secret to its owner, rejecting collocated deals
func assign(order []*model.Secret, players []*model.Player) (map[*model.Secret]model.PlayerID, error) {
	owners := make(map[*model.Secret]model.PlayerID, len(order))
	var murderer, accomplice model.PlayerID
	for k, secret := range order {
		owner := players[k/model.SecretsPerPlayer].ID
		owners[secret] = owner
		if secret.IsMurderer {
			murderer = owner
		}
		if secret.IsAccomplice {
			accomplice = owner
		}
	}
	if accomplice != model.NoPlayer && murderer == accomplice {
		return nil, errCollocated
	}
	return owners, nil
}

// Reveal turns a secret face up. Revealing the murderer solves the case and
// finishes the session; solved reports that.
func Reveal(s *model.Session, id model.SecretID, now time.Time) (secret *model.Secret, solved bool, err error) {
	secret = s.Secret(id)
	if secret == nil {
		return nil, false, model.ErrSecretNotFound
	}
	if secret.IsRevealed {
		return nil, false, model.ErrSecretAlreadyRevealed
	}
	secret.IsRevealed = true
	if secret.IsMurderer {
		solved = s.Finish(model.FinishMurdererRevealed, now)
	}
	return secret, solved, nil
}

// Hide turns a revealed secret face down again
func Hide(s *model.Session, id model.SecretID) (*model.Secret, error) {
	secret := s.Secret(id)
	if secret == nil {
		return nil, model.ErrSecretNotFound
	}
	if !secret.IsRevealed {
		return nil, model.ErrSecretNotRevealed
	}
	secret.IsRevealed = false
	return secret, nil
}

// Transfer moves a revealed secret to another player of the session, where
// it becomes hidden again
func Transfer(s *model.Session, id model.SecretID, target model.PlayerID) (*model.Secret, error) {
	secret := s.Secret(id)
	if secret == nil {
		return nil, model.ErrSecretNotFound
	}
	if s.Player(target) == nil {
		return nil, model.ErrPlayerNotFound
	}
	if !secret.IsRevealed {
		return nil, model.ErrSecretNotRevealed
	}
	secret.OwnerID = target
	secret.IsRevealed = false
	return secret, nil
}
