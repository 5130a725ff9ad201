package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
)

// Broadcaster pushes committed session changes to the session's hub as JSON
// public views
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify sends one event per changed part of the session. Sessions nobody is
// observing are skipped without rendering.
func (b *Broadcaster) Notify(session *model.Session, changes model.Change) {
	hub := b.hubManager.GetHub(session.ID)
	if hub == nil {
		return
	}

	data, err := RenderSession(session)
	if err != nil {
		b.logger.Error("sse failed to render session",
			slog.Int64("session_id", int64(session.ID)),
			slog.Any("error", err))
		return
	}
	for _, event := range changes.EventTypes() {
		hub.BroadcastEvent(event, string(data))
	}
}

// RenderSession encodes the public view of a session for the stream
func RenderSession(session *model.Session) ([]byte, error) {
	return json.Marshal(response.SessionFromModel(session))
}

var _ notify.Notifier = (*Broadcaster)(nil)
