package sets

import (
	"context"
	"errors"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
	"github.com/mcoot/sleuthgame-go/internal/storage"
)

// ResolveTarget returns the session a set transfer target is seated in.
// Players can only leave a session before it starts, so a target in another
// session must belong to a started one to still be seated at commit.
func ResolveTarget(ctx context.Context, store storage.Storage, sessionID model.SessionID, target model.PlayerID) (model.SessionID, error) {
	targetSessionID, err := store.FindPlayer(ctx, target)
	if err != nil {
		return 0, err
	}
	if targetSessionID == sessionID {
		return targetSessionID, nil
	}

	targetSession, err := store.GetSession(ctx, targetSessionID)
	if errors.Is(err, model.ErrSessionNotFound) {
		return 0, model.ErrPlayerNotFound
	}
	if err != nil {
		return 0, err
	}
	if !targetSession.IsStarted() {
		return 0, model.ErrTargetNotPlaying
	}
	return targetSessionID, nil
}

// NotifyTarget tells another session that one of its players gained a set
func NotifyTarget(ctx context.Context, store storage.Storage, notifier notify.Notifier, sessionID, targetSessionID model.SessionID) error {
	if targetSessionID == sessionID {
		return nil
	}
	targetSession, err := store.GetSession(ctx, targetSessionID)
	if err != nil {
		return err
	}
	notifier.Notify(targetSession, model.ChangePlayers)
	return nil
}
