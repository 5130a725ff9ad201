package storage

import (
	"context"
	"errors"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// MutateFunc changes a session in place. Returning an error discards every
// change it made.
type MutateFunc func(session *model.Session) error

// ErrDeleteSession is returned by a MutateFunc to remove the session in the
// same unit of work instead of saving it. UpdateSession then returns the
// final snapshot with a nil error.
var ErrDeleteSession = errors.New("delete session")

// Storage defines the interface for session persistence. A session and the
// players, cards, secrets and sets it owns are stored and committed as one
// aggregate.
type Storage interface {
	// CreateSession stores a new session, allocating its ID and the IDs of
	// its players. The IDs are written back into the given session.
	CreateSession(ctx context.Context, session *model.Session) error

	// GetSession returns a snapshot of the session
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)

	// ListSessions returns snapshots of every stored session ordered by ID
	ListSessions(ctx context.Context) ([]*model.Session, error)

	// UpdateSession reads the current session, applies fn and commits the
	// result atomically. Updates to the same session are serialized. Players
	// added by fn with a zero ID are allocated one on commit. The committed
	// snapshot is returned. See ErrDeleteSession for removing the session.
	UpdateSession(ctx context.Context, id model.SessionID, fn MutateFunc) (*model.Session, error)

	// DeleteSession removes a session and its player index entries
	DeleteSession(ctx context.Context, id model.SessionID) error

	// FindPlayer returns the session a player is seated in
	FindPlayer(ctx context.Context, id model.PlayerID) (model.SessionID, error)

	// Close releases any connections held by the store
	Close() error
}
