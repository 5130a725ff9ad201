package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. Each
// session is one JSON document; updates use WATCH/MULTI so a concurrent
// writer forces the update to re-read and re-run.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	id, err := s.client.Incr(ctx, sessionSeqKey()).Result()
	if err != nil {
		return failure(err)
	}
	session.ID = model.SessionID(id)
	if err := s.assignPlayerIDs(ctx, s.client, session); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return failure(err)
	}

	// Use pipeline for atomic save + index update
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
		pipe.SAdd(ctx, sessionIndexKey(), int64(session.ID))
		for _, p := range session.Players {
			pipe.HSet(ctx, playerIndexKey(), playerField(p.ID), int64(session.ID))
		}
		return nil
	})
	if err != nil {
		return failure(err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, failure(err)
	}
	return decodeSession(data)
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	members, err := s.client.SMembers(ctx, sessionIndexKey()).Result()
	if err != nil {
		return nil, failure(err)
	}
	if len(members) == 0 {
		return []*model.Session{}, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, sessionKey(model.SessionID(id)))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, failure(err)
	}

	sessions := make([]*model.Session, 0, len(values))
	for _, v := range values {
		// Expired sessions leave a stale index entry behind
		str, ok := v.(string)
		if !ok {
			continue
		}
		session, err := decodeSession([]byte(str))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (s *Storage) UpdateSession(ctx context.Context, id model.SessionID, fn storage.MutateFunc) (*model.Session, error) {
	key := sessionKey(id)

	for attempt := 0; attempt < MaxTxRetries; attempt++ {
		var committed *model.Session

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return model.ErrSessionNotFound
				}
				return failure(err)
			}

			session, err := decodeSession(data)
			if err != nil {
				return err
			}
			before := playerIDs(session)

			if err := fn(session); err != nil {
				if !errors.Is(err, storage.ErrDeleteSession) {
					return err
				}
				if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					s.queueDelete(ctx, pipe, id, before)
					return nil
				}); err != nil {
					if errors.Is(err, redis.TxFailedErr) {
						return err
					}
					return failure(err)
				}
				committed = session
				return nil
			}
			if err := s.assignPlayerIDs(ctx, tx, session); err != nil {
				return err
			}

			payload, err := json.Marshal(session)
			if err != nil {
				return failure(err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, s.cfg.SessionTTL)
				after := playerIDs(session)
				for pid := range before {
					if !after[pid] {
						pipe.HDel(ctx, playerIndexKey(), playerField(pid))
					}
				}
				for pid := range after {
					pipe.HSet(ctx, playerIndexKey(), playerField(pid), int64(id))
				}
				return nil
			})
			if err != nil {
				if errors.Is(err, redis.TxFailedErr) {
					return err
				}
				return failure(err)
			}
			committed = session
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return committed, nil
	}

	return nil, model.ErrStorageConflict
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	session, err := s.GetSession(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		s.queueDelete(ctx, pipe, id, playerIDs(session))
		return nil
	})
	if err != nil {
		return failure(err)
	}
	return nil
}

// queueDelete queues removal of a session document and its index entries
func (s *Storage) queueDelete(ctx context.Context, pipe redis.Pipeliner, id model.SessionID, players map[model.PlayerID]bool) {
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, sessionIndexKey(), int64(id))
	for pid := range players {
		pipe.HDel(ctx, playerIndexKey(), playerField(pid))
	}
}

func (s *Storage) FindPlayer(ctx context.Context, id model.PlayerID) (model.SessionID, error) {
	sessionID, err := s.client.HGet(ctx, playerIndexKey(), playerField(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrPlayerNotFound
		}
		return 0, failure(err)
	}
	return model.SessionID(sessionID), nil
}

// incrementer is satisfied by both the client and a WATCH transaction
type incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// assignPlayerIDs allocates IDs for players added since the last commit
func (s *Storage) assignPlayerIDs(ctx context.Context, c incrementer, session *model.Session) error {
	for i := range session.Players {
		if session.Players[i].ID == model.NoPlayer {
			id, err := c.Incr(ctx, playerSeqKey()).Result()
			if err != nil {
				return failure(err)
			}
			session.Players[i].ID = model.PlayerID(id)
		}
		session.Players[i].SessionID = session.ID
	}
	return nil
}

func decodeSession(data []byte) (*model.Session, error) {
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, failure(err)
	}
	return &session, nil
}

func playerIDs(session *model.Session) map[model.PlayerID]bool {
	ids := make(map[model.PlayerID]bool, len(session.Players))
	for _, p := range session.Players {
		ids[p.ID] = true
	}
	return ids
}

func playerField(id model.PlayerID) string {
	return strconv.FormatInt(int64(id), 10)
}

func failure(err error) error {
	return fmt.Errorf("%w: %w", model.ErrStorageFailure, err)
}
