package sse

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one connected SSE observer
type Client struct {
	id          string
	playerID    model.PlayerID // NoPlayer for spectators
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client with a fresh id
func NewClient(playerID model.PlayerID) *Client {
	return &Client{
		id:          uuid.NewString(),
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the client's connection id
func (c *Client) ID() string {
	return c.id
}

// ServeSSE streams a hub's events to one client until the request ends or
// the hub closes. initial, when not nil, is sent as a session-changed event
// before anything else so the client starts from a full view.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, initial []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(playerID)
	if !hub.Register(client) {
		http.Error(w, "Session stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage("connected", `{"client_id":"`+client.id+`"}`))
	if initial != nil {
		_, _ = w.Write(formatSSEMessage(string(model.EventSessionChanged), string(initial)))
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
