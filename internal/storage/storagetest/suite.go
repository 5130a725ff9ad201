// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

// Suite runs the storage contract against the store built by NewStorage.
// NewStorage is called once per test with that test's *testing.T.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Storage returns the store under test
func (s *Suite) Storage() storage.Storage {
	return s.storage
}

func (s *Suite) create(players int) *model.Session {
	session := testutil.NewSession(players)
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))
	return session
}

func (s *Suite) TestCreateSessionAllocatesIDs() {
	first := s.create(2)
	second := s.create(3)

	s.NotZero(first.ID)
	s.NotEqual(first.ID, second.ID)

	seen := map[model.PlayerID]bool{}
	for _, p := range append(first.Players, second.Players...) {
		s.NotZero(p.ID)
		s.False(seen[p.ID], "player IDs must be unique across sessions")
		seen[p.ID] = true
	}
	s.Equal(first.ID, first.Players[0].SessionID)
}

func (s *Suite) TestGetSession() {
	created := s.create(3)

	got, err := s.storage.GetSession(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(created.Name, got.Name)
	s.Equal(model.PhaseBootable, got.Phase)
	s.Require().Len(got.Players, 3)
	s.Equal(created.Players[1].ID, got.Players[1].ID)
	s.True(got.Players[0].IsHost)
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, 9999)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestListSessions() {
	a := s.create(2)
	b := s.create(2)

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(a.ID, sessions[0].ID)
	s.Equal(b.ID, sessions[1].ID)
}

func (s *Suite) TestUpdateSessionCommits() {
	created := s.create(2)

	updated, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
		session.CurrentTurn = 2
		session.Cards = append(session.Cards,
			testutil.Detective(1, session.Players[0].ID, model.DetectivePoirot, 3),
			testutil.Event(2, session.Players[1].ID, model.EventCardTrade),
			testutil.Generic(3, model.NoPlayer, "Blackmailed"),
		)
		session.Secrets = append(session.Secrets, model.Secret{ID: 1, OwnerID: session.Players[0].ID, IsMurderer: true})
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, updated.CurrentTurn)

	got, err := s.storage.GetSession(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(2, got.CurrentTurn)
	s.Require().Len(got.Cards, 3)
	s.Equal(model.CardKindDetective, got.Cards[0].Kind)
	s.Equal(model.DetectivePoirot, got.Cards[0].Detective.Name)
	s.Equal(3, got.Cards[0].Detective.SetSize)
	s.Equal(model.EventCardTrade, got.Cards[1].Event.Name)
	s.Equal("Blackmailed", got.Cards[2].Name())
	s.Equal(model.NotDiscarded, got.Cards[2].DiscardSeq)
	s.Require().Len(got.Secrets, 1)
	s.True(got.Secrets[0].IsMurderer)
}

func (s *Suite) TestUpdateSessionKeepsSets() {
	created := s.create(2)
	owner := created.Players[0].ID

	_, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
		a := testutil.Detective(1, model.NoPlayer, model.DetectivePyne, 2)
		b := testutil.Detective(2, model.NoPlayer, model.DetectivePyne, 2)
		a.Detective.SetID, b.Detective.SetID = 1, 1
		session.Cards = append(session.Cards, a, b)
		session.Sets = append(session.Sets, model.Set{ID: 1, Name: string(model.DetectivePyne), OwnerID: owner, CardIDs: []model.CardID{1, 2}})
		return nil
	})
	s.Require().NoError(err)

	got, err := s.storage.GetSession(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Sets, 1)
	s.Equal(owner, got.Sets[0].OwnerID)
	s.ElementsMatch([]model.CardID{1, 2}, got.Sets[0].CardIDs)
	s.Equal(model.SetID(1), got.Cards[0].Detective.SetID)
}

func (s *Suite) TestUpdateSessionRollsBackOnError() {
	created := s.create(2)
	boom := errors.New("boom")

	_, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
		session.CurrentTurn = 5
		session.Players = session.Players[:1]
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.storage.GetSession(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(0, got.CurrentTurn)
	s.Len(got.Players, 2)
}

func (s *Suite) TestUpdateSessionNotFound() {
	called := false
	_, err := s.storage.UpdateSession(s.ctx, 9999, func(session *model.Session) error {
		called = true
		return nil
	})
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.False(called)
}

func (s *Suite) TestUpdateSessionAllocatesNewPlayers() {
	created := s.create(2)

	updated, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
		session.Players = append(session.Players, model.Player{Name: "late", BirthDate: testutil.Epoch})
		return nil
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Players, 3)

	newcomer := updated.Players[2]
	s.NotZero(newcomer.ID)
	s.Equal(created.ID, newcomer.SessionID)

	sessionID, err := s.storage.FindPlayer(s.ctx, newcomer.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, sessionID)
}

func (s *Suite) TestUpdateSessionDropsRemovedPlayers() {
	created := s.create(3)
	leaver := created.Players[2].ID

	_, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
		session.Players = session.Players[:2]
		return nil
	})
	s.Require().NoError(err)

	_, err = s.storage.FindPlayer(s.ctx, leaver)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestConcurrentUpdatesAreSerialized() {
	created := s.create(2)
	const writers = 8

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
				session.CardsRemaining++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	got, err := s.storage.GetSession(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(writers, got.CardsRemaining)
}

func (s *Suite) TestFindPlayer() {
	a := s.create(2)
	b := s.create(2)

	sessionID, err := s.storage.FindPlayer(s.ctx, b.Players[1].ID)
	s.Require().NoError(err)
	s.Equal(b.ID, sessionID)

	sessionID, err = s.storage.FindPlayer(s.ctx, a.Players[0].ID)
	s.Require().NoError(err)
	s.Equal(a.ID, sessionID)

	_, err = s.storage.FindPlayer(s.ctx, 424242)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeleteSession() {
	created := s.create(2)

	s.Require().NoError(s.storage.DeleteSession(s.ctx, created.ID))

	_, err := s.storage.GetSession(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.storage.FindPlayer(s.ctx, created.Players[0].ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Empty(sessions)

	// Deleting again is not an error
	s.NoError(s.storage.DeleteSession(s.ctx, created.ID))
}

func (s *Suite) TestUpdateSessionCanDeleteSession() {
	created := s.create(2)

	final, err := s.storage.UpdateSession(s.ctx, created.ID, func(session *model.Session) error {
		session.Players = nil
		return storage.ErrDeleteSession
	})
	s.Require().NoError(err)
	s.Require().NotNil(final)
	s.Empty(final.Players)

	_, err = s.storage.GetSession(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	for _, p := range created.Players {
		_, err = s.storage.FindPlayer(s.ctx, p.ID)
		s.ErrorIs(err, model.ErrPlayerNotFound)
	}

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Empty(sessions)

	_, err = s.storage.UpdateSession(s.ctx, created.ID, func(*model.Session) error { return nil })
	s.ErrorIs(err, model.ErrSessionNotFound)
}
