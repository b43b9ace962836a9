package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmatch/gridmatch/internal/api"
	"github.com/gridmatch/gridmatch/internal/api/response"
	"github.com/gridmatch/gridmatch/internal/factory"
	"github.com/gridmatch/gridmatch/internal/testutil"
)

// testServer bundles a router with its wired application
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.NopLogger()

	// API tests are integration tests - use the production factory
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		Registry:          app.Registry,
		Matchmaker:        app.Matchmaker,
		SessionController: app.SessionController,
		HubManager:        app.HubManager,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates a player and returns the response
func (ts *testServer) register(t *testing.T, name string) response.RegisterResponse {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"display_name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// find matches the token's player into a session
func (ts *testServer) find(t *testing.T, token string) response.Session {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/sessions/find", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) play(t *testing.T, token, sessionID string, cell int) response.Session {
	t.Helper()

	rr := ts.request(http.MethodPost,
		fmt.Sprintf("/api/v1/sessions/%s/play", sessionID),
		map[string]int{"cell": cell}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterPlayer(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.register(t, "Alice")
	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.NotEmpty(t, resp.Player.ID)
	assert.NotEmpty(t, resp.Token)
	assert.Zero(t, resp.Player.Score.Wins)
}

func TestRegisterRejectsBlankName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"display_name": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_NAME")
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/players", bytes.NewBufferString("{nope"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/players"},
		{http.MethodGet, "/api/v1/players/me"},
		{http.MethodPost, "/api/v1/sessions/find"},
	}

	for _, p := range paths {
		rr := ts.request(p.method, p.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", p.method, p.path)
	}

	// Garbage token is rejected too
	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var me response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, alice.Player.ID, me.ID)
}

func TestListPlayers(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")
	ts.register(t, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var list response.PlayerList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Players, 2)
	assert.Equal(t, "Alice", list.Players[0].DisplayName)
	assert.Equal(t, "Bob", list.Players[1].DisplayName)
}

func TestMatchmakingFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")
	bob := ts.register(t, "Bob")

	first := ts.find(t, alice.Token)
	assert.Equal(t, "waiting_for_opponent", string(first.Session.Phase))
	require.Len(t, first.Session.Occupants, 1)

	second := ts.find(t, bob.Token)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, "in_progress", string(second.Session.Phase))
	require.Len(t, second.Session.Occupants, 2)
}

func TestPlayFullGame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")
	bob := ts.register(t, "Bob")

	sess := ts.find(t, alice.Token)
	ts.find(t, bob.Token)
	id := string(sess.Session.ID)

	ts.play(t, alice.Token, id, 0)
	ts.play(t, bob.Token, id, 3)
	ts.play(t, alice.Token, id, 4)
	ts.play(t, bob.Token, id, 5)
	final := ts.play(t, alice.Token, id, 8)

	assert.Equal(t, "concluded", string(final.Session.Phase))
	assert.Equal(t, 0, final.Session.Board[0])
	assert.Equal(t, 0, final.Session.Board[4])
	assert.Equal(t, 0, final.Session.Board[8])

	// Scores are visible on the player list
	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var me response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, 1, me.Score.Wins)
}

func TestRejectedMoveReturnsUnchangedSnapshot(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")
	bob := ts.register(t, "Bob")

	sess := ts.find(t, alice.Token)
	ts.find(t, bob.Token)
	id := string(sess.Session.ID)

	// Bob moving out of turn is ignored, not an error
	resp := ts.play(t, bob.Token, id, 0)
	assert.Equal(t, -1, resp.Session.Board[0])
	assert.Equal(t, 0, resp.Session.Turn)
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")

	sess := ts.find(t, alice.Token)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+string(sess.Session.ID), nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var got response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, sess.Session.ID, got.Session.ID)
}

func TestGetUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOSUCH", nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "SESSION_NOT_FOUND")
}

func TestLeaveSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")
	bob := ts.register(t, "Bob")

	sess := ts.find(t, alice.Token)
	ts.find(t, bob.Token)
	id := string(sess.Session.ID)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/leave", nil, alice.Token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, bob.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUnregisterLeavesSessionsAndRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "Alice")
	bob := ts.register(t, "Bob")

	sess := ts.find(t, alice.Token)
	ts.find(t, bob.Token)
	id := string(sess.Session.ID)

	rr := ts.request(http.MethodDelete, "/api/v1/players/me", nil, alice.Token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The shared session is torn down
	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, bob.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The old token no longer works
	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, alice.Token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestEventStreamRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/events", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
