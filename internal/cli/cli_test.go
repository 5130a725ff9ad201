package cli_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sleuthgame-go/internal/api"
	"github.com/mcoot/sleuthgame-go/internal/api/apierr"
	"github.com/mcoot/sleuthgame-go/internal/api/response"
	"github.com/mcoot/sleuthgame-go/internal/cli"
	"github.com/mcoot/sleuthgame-go/internal/factory"
	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/testutil"
)

// cliRunner executes the root command against a live test server
type cliRunner struct {
	serverURL string
}

func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()

	app := factory.NewTestApp()
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

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	// Runs before srv.Close so open streams end first
	t.Cleanup(func() { _ = app.Close() })

	return &cliRunner{serverURL: srv.URL}
}

func (r *cliRunner) runFormat(format string, args ...string) (string, error) {
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", r.serverURL, "--output", format}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runFormat("json", args...)
}

func runJSON[T any](t *testing.T, r *cliRunner, args ...string) T {
	t.Helper()
	out, err := r.run(args...)
	require.NoError(t, err, out)
	var result T
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result
}

func (r *cliRunner) startedSession(t *testing.T) response.Session {
	t.Helper()
	created := runJSON[response.Session](t, r, "session", "create",
		"--name", "Styles", "--host", "Hastings", "--host-birth-date", "1990-09-15")
	id := fmt.Sprint(created.ID)

	runJSON[response.JoinResponse](t, r, "session", "join", id, "--name", "Japp")
	runJSON[response.JoinResponse](t, r, "session", "join", id, "--name", "Lemon")
	return runJSON[response.Session](t, r, "session", "start", id)
}

func TestHealth(t *testing.T) {
	r := newCLIRunner(t)

	result := runJSON[cli.HealthResult](t, r, "health")
	assert.Equal(t, "ok", result.Status)

	out, err := r.runFormat("text", "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestSessionLifecycle(t *testing.T) {
	r := newCLIRunner(t)

	created := runJSON[response.Session](t, r, "session", "create", "--name", "Styles", "--host", "Hastings")
	assert.Equal(t, "Styles", created.Name)
	assert.Equal(t, string(model.PhaseAwaitingPlayers), created.Phase)
	id := fmt.Sprint(created.ID)

	joined := runJSON[response.JoinResponse](t, r, "session", "join", id, "--name", "Japp", "--birth-date", "1985-01-02")
	assert.Equal(t, "Japp", joined.Player.Name)
	assert.Equal(t, "1985-01-02", joined.Player.BirthDate)
	assert.Len(t, joined.Session.Players, 2)

	listed := runJSON[[]response.SessionSummary](t, r, "session", "list", "--phase", joined.Session.Phase)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	left := runJSON[response.LeaveResponse](t, r, "session", "leave", id, fmt.Sprint(joined.Player.ID))
	assert.False(t, left.Deleted)
	require.NotNil(t, left.Session)
	assert.Len(t, left.Session.Players, 1)

	left = runJSON[response.LeaveResponse](t, r, "session", "leave", id, fmt.Sprint(created.Players[0].ID))
	assert.True(t, left.Deleted)

	_, err := r.run("session", "get", id)
	require.Error(t, err)
	assert.Equal(t, apierr.CodeSessionNotFound, cli.ErrorCode(err))
}

func TestStartAndFinish(t *testing.T) {
	r := newCLIRunner(t)
	session := r.startedSession(t)
	id := fmt.Sprint(session.ID)

	assert.Equal(t, string(model.PhaseInProgress), session.Phase)
	assert.Equal(t, 37, session.CardsRemaining)
	assert.Len(t, session.DraftPile, model.DraftPileSize)

	text, err := r.runFormat("text", "session", "get", id)
	require.NoError(t, err)
	assert.Contains(t, text, "Phase: in_progress")
	assert.Contains(t, text, "Deck: 37 cards remaining")

	finished := runJSON[response.FinishResponse](t, r, "session", "finish", id)
	assert.False(t, finished.AlreadyFinished)
	assert.Equal(t, string(model.FinishEndedByHost), finished.Session.FinishReason)

	finished = runJSON[response.FinishResponse](t, r, "session", "finish", id)
	assert.True(t, finished.AlreadyFinished)
}

func TestCardCommands(t *testing.T) {
	r := newCLIRunner(t)
	session := r.startedSession(t)
	id := fmt.Sprint(session.ID)
	pid := fmt.Sprint(session.Players[0].ID)

	hand := runJSON[[]response.Card](t, r, "cards", "hand", id, pid)
	assert.Len(t, hand, model.HandLimit)

	_, err := r.run("cards", "pickup", id, pid)
	require.Error(t, err)
	assert.Equal(t, apierr.CodeHandFull, cli.ErrorCode(err))

	discarded := runJSON[response.Card](t, r, "cards", "discard", id, pid, fmt.Sprint(hand[0].ID))
	assert.Equal(t, hand[0].ID, discarded.ID)

	draft := runJSON[[]response.Card](t, r, "cards", "draft", id)
	require.Len(t, draft, model.DraftPileSize)

	drawn := runJSON[response.DrawResponse](t, r, "cards", "take", id, pid, fmt.Sprint(draft[0].ID))
	require.NotNil(t, drawn.Card)
	assert.Equal(t, draft[0].ID, drawn.Card.ID)
	assert.NotNil(t, drawn.Replacement)

	discards := runJSON[[]response.Card](t, r, "cards", "discards", id, "--limit", "1")
	require.Len(t, discards, 1)
	assert.Equal(t, hand[0].ID, discards[0].ID)
}

func TestSecretAndSetCommands(t *testing.T) {
	r := newCLIRunner(t)
	session := r.startedSession(t)
	id := fmt.Sprint(session.ID)

	secrets := runJSON[[]response.Secret](t, r, "secrets", "list", id, fmt.Sprint(session.Players[0].ID))
	require.Len(t, secrets, model.SecretsPerPlayer)
	for _, s := range secrets {
		assert.NotEmpty(t, s.Role)
	}

	set := runJSON[response.Set](t, r, "sets", "compose", id, "1", "2", "3")
	assert.Equal(t, string(model.DetectivePoirot), set.Name)

	owned := runJSON[[]response.Set](t, r, "sets", "list", id, fmt.Sprint(set.OwnerID))
	require.Len(t, owned, 1)
	first := runJSON[response.Set](t, r, "sets", "first", id, fmt.Sprint(set.OwnerID))
	assert.Equal(t, set.ID, first.ID)

	_, err := r.run("sets", "compose", id, "4")
	require.Error(t, err)
	assert.Equal(t, apierr.CodeSetSizeMismatch, cli.ErrorCode(err))
}

func TestTurnAndEventCommands(t *testing.T) {
	r := newCLIRunner(t)
	session := r.startedSession(t)
	id := fmt.Sprint(session.ID)

	turn := runJSON[response.TurnResponse](t, r, "turn", "get", id)
	assert.Equal(t, 1, turn.CurrentTurn)

	turn = runJSON[response.TurnResponse](t, r, "turn", "advance", id)
	assert.Equal(t, 2, turn.CurrentTurn)

	_, err := r.run("event", "play", id, "point-your-suspicions", "--player", fmt.Sprint(session.Players[0].ID))
	require.Error(t, err)
	assert.Equal(t, apierr.CodeEventNotPlayable, cli.ErrorCode(err))

	_, err = r.run("event", "play", id, "tea-party", "--player", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event")
}

func TestArgumentValidation(t *testing.T) {
	r := newCLIRunner(t)

	_, err := r.run("session", "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session id")

	_, err = r.run("cards", "hand", "1", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid player id")

	_, err = r.runFormat("yaml", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestWatch(t *testing.T) {
	r := newCLIRunner(t)
	created := runJSON[response.Session](t, r, "session", "create", "--name", "Styles", "--host", "Hastings")

	out, err := r.run("watch", fmt.Sprint(created.ID), "--count", "2")
	require.NoError(t, err)

	var events []cli.SSEEvent
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var evt cli.SSEEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &evt))
		events = append(events, evt)
	}
	require.Len(t, events, 2)
	assert.Equal(t, "connected", events[0].Event)
	assert.Equal(t, string(model.EventSessionChanged), events[1].Event)

	var view response.Session
	require.NoError(t, json.Unmarshal([]byte(events[1].Data), &view))
	assert.Equal(t, created.ID, view.ID)
}
