package lobby

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/sleuthgame-go/internal/dependencies/clock"
	"github.com/mcoot/sleuthgame-go/internal/dependencies/random"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/cards"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/services/secrets"
	"github.com/mcoot/sleuthgame-go/internal/services/turns"
	"github.com/mcoot/sleuthgame-go/internal/storage"
	"github.com/mcoot/sleuthgame-go/internal/telemetry"
)

// NewPlayer describes a player taking a seat
type NewPlayer struct {
	Name      string
	BirthDate time.Time
}

// CreateParams configures a new session. Zero player limits take the
// MinSessionPlayers and MaxSessionPlayers defaults.
type CreateParams struct {
	Name       string
	MinPlayers int
	MaxPlayers int
	Host       NewPlayer
}

// Controller manages the session state machine from lobby to finish
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	notifier notify.Notifier
	logger   *slog.Logger

	// MaxDealAttempts bounds the secret dealing retries on start
	MaxDealAttempts int
}

// NewController creates a new lobby Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:         storage,
		clock:           clock,
		random:          random,
		notifier:        notifier,
		logger:          logger.With(slog.String("component", "lobby")),
		MaxDealAttempts: secrets.MaxDealAttempts,
	}
}

// Create opens a new session with its host seated
func (c *Controller) Create(ctx context.Context, params CreateParams) (*model.Session, error) {
	name := strings.TrimSpace(params.Name)
	hostName := strings.TrimSpace(params.Host.Name)
	if name == "" || hostName == "" {
		return nil, model.ErrNameRequired
	}

	minPlayers, maxPlayers := params.MinPlayers, params.MaxPlayers
	if minPlayers == 0 {
		minPlayers = model.MinSessionPlayers
	}
	if maxPlayers == 0 {
		maxPlayers = model.MaxSessionPlayers
	}
	if minPlayers < model.MinSessionPlayers || maxPlayers > model.MaxSessionPlayers || minPlayers > maxPlayers {
		return nil, model.ErrInvalidPlayerLimits
	}

	now := c.clock.Now()
	session := &model.Session{
		Name:       name,
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
		Players: []model.Player{
			{
				Name:      hostName,
				IsHost:    true,
				BirthDate: params.Host.BirthDate,
				JoinedAt:  now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	session.Phase = session.LobbyPhase()

	if err := c.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	c.notifier.Notify(session, model.ChangeSession|model.ChangePlayers)
	c.logger.Info("session created",
		slog.Int64("session_id", int64(session.ID)),
		slog.String("name", session.Name),
		slog.Int("min_players", minPlayers),
		slog.Int("max_players", maxPlayers),
	)
	return session, nil
}

// Get retrieves a session by ID
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// List returns every session, or only those in the given phase
func (c *Controller) List(ctx context.Context, phase model.Phase) ([]*model.Session, error) {
	all, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if phase == "" {
		return all, nil
	}
	filtered := make([]*model.Session, 0, len(all))
	for _, s := range all {
		if s.Phase == phase {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// Join seats a new player in a session that has not started
func (c *Controller) Join(ctx context.Context, id model.SessionID, player NewPlayer) (session *model.Session, joined *model.Player, err error) {
	ctx, span := telemetry.Start(ctx, "lobby.Join", id)
	defer telemetry.End(span, &err)

	name := strings.TrimSpace(player.Name)
	if name == "" {
		return nil, nil, model.ErrNameRequired
	}

	session, err = c.storage.UpdateSession(ctx, id, func(sess *model.Session) error {
		if sess.IsStarted() {
			return model.ErrSessionAlreadyStarted
		}
		if sess.PlayerCount() >= sess.MaxPlayers {
			return model.ErrSessionFull
		}
		now := c.clock.Now()
		sess.Players = append(sess.Players, model.Player{
			Name:      name,
			BirthDate: player.BirthDate,
			JoinedAt:  now,
		})
		sess.Phase = sess.LobbyPhase()
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// The newcomer holds the highest ID in the session
	for i := range session.Players {
		if joined == nil || session.Players[i].ID > joined.ID {
			joined = &session.Players[i]
		}
	}

	c.notifier.Notify(session, model.ChangeSession|model.ChangePlayers)
	c.logger.Info("player joined",
		slog.Int64("session_id", int64(id)),
		slog.Int64("player_id", int64(joined.ID)),
		slog.Int("players", session.PlayerCount()),
	)
	return session, joined, nil
}

// Leave removes a player before the session starts. The host role passes to
// the earliest joined remaining player, and a session left empty is deleted.
func (c *Controller) Leave(ctx context.Context, id model.SessionID, playerID model.PlayerID) (session *model.Session, deleted bool, err error) {
	ctx, span := telemetry.Start(ctx, "lobby.Leave", id, telemetry.Player(playerID))
	defer telemetry.End(span, &err)

	session, err = c.storage.UpdateSession(ctx, id, func(sess *model.Session) error {
		if sess.IsStarted() {
			return model.ErrSessionAlreadyStarted
		}
		leaving := sess.Player(playerID)
		if leaving == nil {
			return model.ErrPlayerNotFound
		}
		wasHost := leaving.IsHost

		for i := range sess.Players {
			if sess.Players[i].ID == playerID {
				sess.Players = append(sess.Players[:i], sess.Players[i+1:]...)
				break
			}
		}
		if len(sess.Players) == 0 {
			return storage.ErrDeleteSession
		}

		if wasHost {
			next := &sess.Players[0]
			for i := range sess.Players {
				if sess.Players[i].JoinedAt.Before(next.JoinedAt) {
					next = &sess.Players[i]
				}
			}
			next.IsHost = true
		}

		sess.Phase = sess.LobbyPhase()
		sess.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if session.PlayerCount() == 0 {
		c.logger.Info("empty session deleted", slog.Int64("session_id", int64(id)))
		return session, true, nil
	}

	c.notifier.Notify(session, model.ChangeSession|model.ChangePlayers)
	c.logger.Info("player left",
		slog.Int64("session_id", int64(id)),
		slog.Int64("player_id", int64(playerID)),
	)
	return session, false, nil
}

// Start runs the one-time game setup and moves the session to in progress:
// turn order, card pool, opening hands, draft pile and secrets, all in one
// commit
func (c *Controller) Start(ctx context.Context, id model.SessionID) (session *model.Session, err error) {
	ctx, span := telemetry.Start(ctx, "lobby.Start", id)
	defer telemetry.End(span, &err)

	session, err = c.storage.UpdateSession(ctx, id, func(sess *model.Session) error {
		if sess.IsStarted() {
			return model.ErrSessionAlreadyStarted
		}
		if sess.PlayerCount() < sess.MinPlayers {
			return model.ErrNotEnoughPlayers
		}

		turns.AssignTurnOrder(sess)
		if err := cards.InitPool(sess); err != nil {
			return err
		}
		if err := cards.DealInitialHands(sess, c.random); err != nil {
			return err
		}
		if err := cards.SetupDraftPile(sess, c.random); err != nil {
			return err
		}
		if err := secrets.InitSecrets(sess, sess.PlayerCount()); err != nil {
			return err
		}
		if err := secrets.DealSecrets(sess, c.random, c.MaxDealAttempts); err != nil {
			return err
		}

		now := c.clock.Now()
		sess.Phase = model.PhaseInProgress
		sess.StartedAt = &now
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrSecretDealExhausted) {
			c.logger.Error("secret dealing gave up",
				slog.Int64("session_id", int64(id)),
				slog.Int("attempts", c.MaxDealAttempts),
			)
		}
		return nil, err
	}

	c.notifier.Notify(session, model.ChangeSession|model.ChangePlayers)
	c.logger.Info("session started",
		slog.Int64("session_id", int64(id)),
		slog.Int("players", session.PlayerCount()),
		slog.Int("cards_remaining", session.CardsRemaining),
	)
	return session, nil
}

// Finish ends a running session. Finishing an already finished session is
// not an error; alreadyFinished reports it and nothing changes.
func (c *Controller) Finish(ctx context.Context, id model.SessionID, reason model.FinishReason) (session *model.Session, alreadyFinished bool, err error) {
	ctx, span := telemetry.Start(ctx, "lobby.Finish", id)
	defer telemetry.End(span, &err)

	if reason == "" {
		reason = model.FinishEndedByHost
	}

	current, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if current.Phase == model.PhaseFinished {
		return current, true, nil
	}

	session, err = c.storage.UpdateSession(ctx, id, func(sess *model.Session) error {
		if sess.Phase == model.PhaseFinished {
			alreadyFinished = true
			return nil
		}
		if err := sess.RequireInProgress(); err != nil {
			return err
		}
		now := c.clock.Now()
		sess.Finish(reason, now)
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if alreadyFinished {
		return session, true, nil
	}

	c.notifier.Notify(session, model.ChangeSession)
	c.logger.Info("session finished",
		slog.Int64("session_id", int64(id)),
		slog.String("reason", string(reason)),
	)
	return session, false, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	Create(ctx context.Context, params CreateParams) (*model.Session, error)
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)
	List(ctx context.Context, phase model.Phase) ([]*model.Session, error)
	Join(ctx context.Context, id model.SessionID, player NewPlayer) (*model.Session, *model.Player, error)
	Leave(ctx context.Context, id model.SessionID, playerID model.PlayerID) (*model.Session, bool, error)
	Start(ctx context.Context, id model.SessionID) (*model.Session, error)
	Finish(ctx context.Context, id model.SessionID, reason model.FinishReason) (*model.Session, bool, error)
}

var _ ControllerInterface = (*Controller)(nil)
