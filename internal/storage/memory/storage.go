package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. Each
// session has its own lock held for the whole of an update, and updates are
// applied to a clone that replaces the stored session only on success.
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionID]*model.Session
	locks    map[model.SessionID]*sync.Mutex
	players  map[model.PlayerID]model.SessionID

	lastSessionID model.SessionID
	lastPlayerID  model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
		locks:    make(map[model.SessionID]*sync.Mutex),
		players:  make(map[model.PlayerID]model.SessionID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSessionID++
	session.ID = s.lastSessionID
	s.assignPlayerIDs(session)

	s.sessions[session.ID] = session.Clone()
	s.locks[session.ID] = &sync.Mutex{}
	s.indexPlayers(nil, session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (s *Storage) UpdateSession(ctx context.Context, id model.SessionID, fn storage.MutateFunc) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		// Deleted while we waited for the lock
		return nil, model.ErrSessionNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		if !errors.Is(err, storage.ErrDeleteSession) {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.remove(id, current)
		return working, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignPlayerIDs(working)
	s.indexPlayers(current, working)
	s.sessions[id] = working
	return working.Clone(), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id, s.sessions[id])
	return nil
}

// remove drops a session and its index entries. Callers hold the session
// lock and s.mu.
func (s *Storage) remove(id model.SessionID, session *model.Session) {
	if session != nil {
		for _, p := range session.Players {
			delete(s.players, p.ID)
		}
	}
	delete(s.sessions, id)
	delete(s.locks, id)
}

func (s *Storage) FindPlayer(ctx context.Context, id model.PlayerID) (model.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.players[id]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}
	return sessionID, nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// assignPlayerIDs must be called with mu held for writing
func (s *Storage) assignPlayerIDs(session *model.Session) {
	for i := range session.Players {
		if session.Players[i].ID == model.NoPlayer {
			s.lastPlayerID++
			session.Players[i].ID = s.lastPlayerID
		}
		session.Players[i].SessionID = session.ID
	}
}

// indexPlayers must be called with mu held for writing
func (s *Storage) indexPlayers(before, after *model.Session) {
	if before != nil {
		for _, p := range before.Players {
			delete(s.players, p.ID)
		}
	}
	for _, p := range after.Players {
		s.players[p.ID] = after.ID
	}
}
