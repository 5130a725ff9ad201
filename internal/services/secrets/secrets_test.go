package secrets

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/mocks"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

type SecretsSuite struct {
	suite.Suite
	random *mocks.MockRandom
}

func TestSecretsSuite(t *testing.T) {
	suite.Run(t, new(SecretsSuite))
}

func (s *SecretsSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
}

func (s *SecretsSuite) session(players int) *model.Session {
	session := testutil.NumberPlayers(testutil.NewSession(players))
	session.Phase = model.PhaseInProgress
	s.Require().NoError(InitSecrets(session, players))
	return session
}

func guilty(session *model.Session) (murderer, accomplice *model.Secret) {
	for i := range session.Secrets {
		if session.Secrets[i].IsMurderer {
			murderer = &session.Secrets[i]
		}
		if session.Secrets[i].IsAccomplice {
			accomplice = &session.Secrets[i]
		}
	}
	return murderer, accomplice
}

// InitSecrets tests

func (s *SecretsSuite) TestInitSecretsFivePlayers() {
	session := s.session(5)

	s.Len(session.Secrets, 15)
	murderers, accomplices := 0, 0
	for _, secret := range session.Secrets {
		if secret.IsMurderer {
			murderers++
		}
		if secret.IsAccomplice {
			accomplices++
		}
		s.Equal(model.NoPlayer, secret.OwnerID)
		s.False(secret.IsRevealed)
	}
	s.Equal(1, murderers)
	s.Equal(1, accomplices)
}

func (s *SecretsSuite) TestInitSecretsFourPlayersHasNoAccomplice() {
	session := s.session(4)

	s.Len(session.Secrets, 12)
	murderer, accomplice := guilty(session)
	s.NotNil(murderer)
	s.Nil(accomplice)
}

func (s *SecretsSuite) TestInitSecretsTwice() {
	session := s.session(3)
	s.ErrorIs(InitSecrets(session, 3), model.ErrSecretsDealt)
	s.Len(session.Secrets, 9)
}

// DealSecrets tests

func (s *SecretsSuite) TestDealSecretsGivesEachPlayerThree() {
	session := s.session(5)
	s.Require().NoError(DealSecrets(session, s.random, MaxDealAttempts))

	for _, p := range session.Players {
		s.Len(session.PlayerSecrets(p.ID), model.SecretsPerPlayer)
	}
	murderer, accomplice := guilty(session)
	s.NotEqual(murderer.OwnerID, accomplice.OwnerID)
}

func (s *SecretsSuite) TestDealSecretsReshufflesCollocatedDeal() {
	session := s.session(5)
	// An identity shuffle deals the murderer and accomplice to the first player
	s.random.QueueIdentityShuffle(len(session.Secrets))

	s.Require().NoError(DealSecrets(session, s.random, MaxDealAttempts))
	s.Zero(s.random.Remaining())

	murderer, accomplice := guilty(session)
	s.Equal(model.PlayerID(5), murderer.OwnerID)
	s.Equal(model.PlayerID(1), accomplice.OwnerID)
}

func (s *SecretsSuite) TestDealSecretsExhausted() {
	session := s.session(5)
	for i := 0; i < 3; i++ {
		s.random.QueueIdentityShuffle(len(session.Secrets))
	}

	err := DealSecrets(session, s.random, 3)
	s.ErrorIs(err, model.ErrSecretDealExhausted)
	s.NotErrorIs(err, model.ErrConstraintViolation)
	for _, secret := range session.Secrets {
		s.Equal(model.NoPlayer, secret.OwnerID)
	}
}

func (s *SecretsSuite) TestDealSecretsWithoutAccompliceNeverRetries() {
	session := s.session(3)
	s.random.QueueIdentityShuffle(len(session.Secrets))

	s.Require().NoError(DealSecrets(session, s.random, 1))
	murderer, _ := guilty(session)
	s.Equal(model.PlayerID(1), murderer.OwnerID)
}

func (s *SecretsSuite) TestDealSecretsNeverCollocates() {
	rnd := random.New()
	for _, players := range []int{5, 6} {
		for i := 0; i < 50; i++ {
			session := s.session(players)
			s.Require().NoError(DealSecrets(session, rnd, MaxDealAttempts))
			murderer, accomplice := guilty(session)
			s.NotEqual(murderer.OwnerID, accomplice.OwnerID)
		}
	}
}

func (s *SecretsSuite) TestDealSecretsFollowsTurnOrder() {
	session := s.session(3)
	session.Players[0].TurnOrder = 3
	session.Players[1].TurnOrder = 1
	session.Players[2].TurnOrder = 2
	s.random.QueueIdentityShuffle(len(session.Secrets))

	s.Require().NoError(DealSecrets(session, s.random, 1))
	// Secrets 1..3 go to whoever plays first
	s.Equal(model.PlayerID(2), session.Secret(1).OwnerID)
	s.Equal(model.PlayerID(3), session.Secret(4).OwnerID)
	s.Equal(model.PlayerID(1), session.Secret(7).OwnerID)
}

// Reveal / Hide / Transfer tests

func (s *SecretsSuite) dealt() *model.Session {
	session := s.session(5)
	s.Require().NoError(DealSecrets(session, s.random, MaxDealAttempts))
	return session
}

func (s *SecretsSuite) innocent(session *model.Session) *model.Secret {
	for i := range session.Secrets {
		if !session.Secrets[i].IsGuilty() {
			return &session.Secrets[i]
		}
	}
	s.FailNow("no innocent secret")
	return nil
}

func (s *SecretsSuite) TestRevealAndHide() {
	session := s.dealt()
	target := s.innocent(session)

	secret, solved, err := Reveal(session, target.ID, testutil.Epoch)
	s.Require().NoError(err)
	s.False(solved)
	s.True(secret.IsRevealed)
	s.Equal(model.PhaseInProgress, session.Phase)

	_, _, err = Reveal(session, target.ID, testutil.Epoch)
	s.ErrorIs(err, model.ErrSecretAlreadyRevealed)

	secret, err = Hide(session, target.ID)
	s.Require().NoError(err)
	s.False(secret.IsRevealed)

	_, err = Hide(session, target.ID)
	s.ErrorIs(err, model.ErrSecretNotRevealed)
}

func (s *SecretsSuite) TestRevealMurdererFinishesSession() {
	session := s.dealt()
	murderer, _ := guilty(session)

	_, solved, err := Reveal(session, murderer.ID, testutil.Epoch)
	s.Require().NoError(err)
	s.True(solved)
	s.Equal(model.PhaseFinished, session.Phase)
	s.Equal(model.FinishMurdererRevealed, session.FinishReason)
}

func (s *SecretsSuite) TestRevealAccompliceDoesNotFinish() {
	session := s.dealt()
	_, accomplice := guilty(session)

	_, solved, err := Reveal(session, accomplice.ID, testutil.Epoch)
	s.Require().NoError(err)
	s.False(solved)
	s.Equal(model.PhaseInProgress, session.Phase)
}

func (s *SecretsSuite) TestRevealUnknownSecret() {
	session := s.dealt()
	_, _, err := Reveal(session, 999, testutil.Epoch)
	s.ErrorIs(err, model.ErrSecretNotFound)
}

func (s *SecretsSuite) TestTransferHidesSecret() {
	session := s.dealt()
	target := s.innocent(session)
	newOwner := model.PlayerID(4)
	if target.OwnerID == newOwner {
		newOwner = 3
	}

	_, err := Transfer(session, target.ID, newOwner)
	s.ErrorIs(err, model.ErrSecretNotRevealed)

	_, _, err = Reveal(session, target.ID, testutil.Epoch)
	s.Require().NoError(err)

	secret, err := Transfer(session, target.ID, newOwner)
	s.Require().NoError(err)
	s.Equal(newOwner, secret.OwnerID)
	s.False(secret.IsRevealed)
}

func (s *SecretsSuite) TestTransferToUnknownPlayer() {
	session := s.dealt()
	target := s.innocent(session)
	_, _, err := Reveal(session, target.ID, testutil.Epoch)
	s.Require().NoError(err)

	_, err = Transfer(session, target.ID, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.True(session.Secret(target.ID).IsRevealed)
}
