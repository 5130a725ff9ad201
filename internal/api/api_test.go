package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sleuthgame-go/internal/api"
	"github.com/mcoot/sleuthgame-go/internal/api/apierr"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/factory"
	"github.com/mcoot/sleuthgame-go/internal/middleware"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

// testServer routes requests through the full API over a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		LobbyController: app.LobbyController,
		CardService:     app.CardService,
		SecretService:   app.SecretService,
		SetService:      app.SetService,
		TurnService:     app.TurnService,
		EventService:    app.EventService,
		HubManager:      app.HubManager,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&reqBody).Encode(body)
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func requireError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
}

func host(name string) map[string]any {
	return map[string]any{"name": name, "birth_date": "1990-09-15"}
}

func (ts *testServer) createSession(t *testing.T) response.Session {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"name": "Styles",
		"host": host("Hastings"),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Session](t, rr)
}

func (ts *testServer) join(t *testing.T, id int64, name string) response.JoinResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/join", id), map[string]any{"name": name})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.JoinResponse](t, rr)
}

func (ts *testServer) startedSession(t *testing.T) response.Session {
	t.Helper()
	session := ts.createSession(t)
	ts.join(t, session.ID, "Japp")
	ts.join(t, session.ID, "Lemon")

	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/start", session.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.Session](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestCreateAndGetSession(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createSession(t)
	assert.Equal(t, "Styles", created.Name)
	assert.Equal(t, string(model.PhaseAwaitingPlayers), created.Phase)
	require.Len(t, created.Players, 1)
	assert.True(t, created.Players[0].IsHost)
	assert.Equal(t, "1990-09-15", created.Players[0].BirthDate)

	rr := ts.request(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decode[response.Session](t, rr).ID)
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"name": "", "host": host("Hastings")})
	requireError(t, rr, http.StatusUnprocessableEntity, apierr.CodeNameRequired)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"name": "Styles", "max_players": 9, "host": host("Hastings"),
	})
	requireError(t, rr, http.StatusUnprocessableEntity, apierr.CodeInvalidPlayerLimits)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"name": "Styles", "host": map[string]any{"name": "Hastings", "birth_date": "15/09/1990"},
	})
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"name": "Styles", "colour": "red"})
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/999", nil)
	requireError(t, rr, http.StatusNotFound, apierr.CodeSessionNotFound)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/abc", nil)
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestListSessionsByPhase(t *testing.T) {
	ts := newTestServer(t)

	ts.startedSession(t)
	ts.createSession(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]response.SessionSummary](t, rr), 2)

	rr = ts.request(http.MethodGet, "/api/v1/sessions?phase=in_progress", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	inProgress := decode[[]response.SessionSummary](t, rr)
	require.Len(t, inProgress, 1)
	assert.Equal(t, 3, inProgress[0].PlayerCount)

	rr = ts.request(http.MethodGet, "/api/v1/sessions?phase=paused", nil)
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestStartAndPlay(t *testing.T) {
	ts := newTestServer(t)

	session := ts.startedSession(t)
	assert.Equal(t, string(model.PhaseInProgress), session.Phase)
	assert.Equal(t, 1, session.CurrentTurn)
	assert.Len(t, session.DraftPile, model.DraftPileSize)
	for _, p := range session.Players {
		assert.Equal(t, model.HandLimit, p.HandSize)
		assert.Equal(t, model.SecretsPerPlayer, p.SecretCount)
	}
	assert.Empty(t, session.RevealedSecrets)

	pid := session.Players[0].ID
	base := fmt.Sprintf("/api/v1/sessions/%d/players/%d", session.ID, pid)

	// A full hand cannot draw
	rr := ts.request(http.MethodPost, base+"/hand/pickup", nil)
	requireError(t, rr, http.StatusUnprocessableEntity, apierr.CodeHandFull)

	rr = ts.request(http.MethodGet, base+"/hand", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	hand := decode[[]response.Card](t, rr)
	require.Len(t, hand, model.HandLimit)

	// Discard then draw from the draft pile
	rr = ts.request(http.MethodPost, base+"/hand/discard", map[string]any{"card_id": hand[0].ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, hand[0].ID, decode[response.Card](t, rr).ID)

	draftID := session.DraftPile[0].ID
	rr = ts.request(http.MethodPost, base+"/hand/draft", map[string]any{"card_id": draftID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	drawn := decode[response.DrawResponse](t, rr)
	require.NotNil(t, drawn.Card)
	assert.Equal(t, draftID, drawn.Card.ID)
	assert.NotNil(t, drawn.Replacement)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d/discards?limit=1", session.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	discards := decode[[]response.Card](t, rr)
	require.Len(t, discards, 1)
	assert.Equal(t, hand[0].ID, discards[0].ID)

	// Secrets are shown to their owner
	rr = ts.request(http.MethodGet, base+"/secrets", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, s := range decode[[]response.Secret](t, rr) {
		assert.NotEmpty(t, s.Role)
	}

	// Turn passes on
	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/turn/advance", session.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[response.TurnResponse](t, rr).CurrentTurn)

	// Joining a started session is a phase error
	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/join", session.ID), map[string]any{"name": "Late"})
	requireError(t, rr, http.StatusConflict, apierr.CodeSessionAlreadyStarted)
}

func TestComposeSet(t *testing.T) {
	ts := newTestServer(t)
	session := ts.startedSession(t)

	// The first seat is dealt the three Poirots
	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/sets", session.ID), map[string]any{"card_ids": []int64{1, 2, 3}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	set := decode[response.Set](t, rr)
	assert.Equal(t, string(model.DetectivePoirot), set.Name)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d/players/%d/sets", session.ID, set.OwnerID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]response.Set](t, rr), 1)

	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/sets", session.ID), map[string]any{"card_ids": []int64{4}})
	requireError(t, rr, http.StatusUnprocessableEntity, apierr.CodeSetSizeMismatch)
}

func TestPlayEventErrors(t *testing.T) {
	ts := newTestServer(t)
	session := ts.startedSession(t)
	path := fmt.Sprintf("/api/v1/sessions/%d/events", session.ID)

	rr := ts.request(http.MethodPost, path, map[string]any{
		"event": string(model.EventPointYourSuspicion), "player_id": session.Players[0].ID,
	})
	requireError(t, rr, http.StatusUnprocessableEntity, apierr.CodeEventNotPlayable)

	rr = ts.request(http.MethodPost, path, map[string]any{"event": string(model.EventEarlyTrain)})
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)

	rr = ts.request(http.MethodPost, path, map[string]any{
		"event": string(model.EventEarlyTrain), "player_id": 999,
	})
	requireError(t, rr, http.StatusNotFound, apierr.CodePlayerNotFound)
}

func TestLeaveAndFinish(t *testing.T) {
	ts := newTestServer(t)

	session := ts.createSession(t)
	joined := ts.join(t, session.ID, "Japp")

	// Finishing a lobby is a phase error
	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/finish", session.ID), nil)
	requireError(t, rr, http.StatusConflict, apierr.CodeSessionNotInProgress)

	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/leave", session.ID), map[string]any{"player_id": joined.Player.ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	left := decode[response.LeaveResponse](t, rr)
	assert.False(t, left.Deleted)
	require.NotNil(t, left.Session)
	assert.Len(t, left.Session.Players, 1)

	// Last one out deletes the session
	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/leave", session.ID), map[string]any{"player_id": session.Players[0].ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode[response.LeaveResponse](t, rr).Deleted)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d", session.ID), nil)
	requireError(t, rr, http.StatusNotFound, apierr.CodeSessionNotFound)
}

func TestFinishByHost(t *testing.T) {
	ts := newTestServer(t)
	session := ts.startedSession(t)
	path := fmt.Sprintf("/api/v1/sessions/%d/finish", session.ID)

	rr := ts.request(http.MethodPost, path, map[string]any{"reason": "murderer_revealed"})
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)

	rr = ts.request(http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	finished := decode[response.FinishResponse](t, rr)
	assert.False(t, finished.AlreadyFinished)
	assert.Equal(t, string(model.FinishEndedByHost), finished.Session.FinishReason)

	rr = ts.request(http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[response.FinishResponse](t, rr).AlreadyFinished)
}

// readEvent reads SSE lines until a complete event arrives
func readEvent(t *testing.T, scanner *bufio.Scanner) (string, string) {
	t.Helper()
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data += strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
	t.Fatalf("stream ended: %v", scanner.Err())
	return "", ""
}

func TestSessionStream(t *testing.T) {
	ts := newTestServer(t)
	session := ts.createSession(t)

	server := httptest.NewServer(ts.handler)
	t.Cleanup(server.Close)
	// Hubs must close before the server waits on open streams
	t.Cleanup(ts.app.HubManager.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/sessions/%d/stream", server.URL, session.ID), nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	event, _ := readEvent(t, scanner)
	assert.Equal(t, "connected", event)
	event, data := readEvent(t, scanner)
	assert.Equal(t, string(model.EventSessionChanged), event)
	var initial response.Session
	require.NoError(t, json.Unmarshal([]byte(data), &initial))
	assert.Len(t, initial.Players, 1)

	ts.join(t, session.ID, "Japp")

	event, data = readEvent(t, scanner)
	assert.Equal(t, string(model.EventSessionChanged), event)
	event, data = readEvent(t, scanner)
	assert.Equal(t, string(model.EventPlayersChanged), event)
	var updated response.Session
	require.NoError(t, json.Unmarshal([]byte(data), &updated))
	assert.Len(t, updated.Players, 2)
}
