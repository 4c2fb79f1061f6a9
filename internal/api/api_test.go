package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetris-showcase/internal/api"
	"github.com/mcoot/tetris-showcase/internal/api/apierr"
	"github.com/mcoot/tetris-showcase/internal/api/middleware"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	"github.com/mcoot/tetris-showcase/internal/factory"
)

const (
	adminUser     = "admin"
	adminPassword = "showcase-admin"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Mocked clock and random keep session ids and timings deterministic
	app := factory.NewTestApp()
	require.NoError(t, app.AuthService.EnsureAdmin(t.Context(), adminUser, adminPassword))

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		SessionManager:     app.SessionManager,
		BotService:         app.BotService,
		HubManager:         app.HubManager,
		WSHub:              app.WSHub,
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

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": adminUser,
		"password": adminPassword,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.AdminSession](t, rr).SessionToken
}

func (ts *testServer) submit(t *testing.T, name string, score int) response.Record {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/leaderboard", map[string]any{
		"name":                     name,
		"score":                    score,
		"level":                    2,
		"lines":                    12,
		"average_reaction_time_ms": 180,
		"game_duration_ms":         90000,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Record](t, rr)
}

func (ts *testServer) createSession(t *testing.T, id string, names ...string) response.Session {
	t.Helper()
	ts.app.MockRandom.QueueString(id)

	players := make([]map[string]string, 0, len(names))
	for _, n := range names {
		players = append(players, map[string]string{"name": n})
	}
	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"players": players}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Session](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	health := decode[response.Health](t, rr)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Sessions)
}

// Leaderboard

func TestSubmitAndListLeaderboard(t *testing.T) {
	ts := newTestServer(t)

	low := ts.submit(t, "alice", 300)
	high := ts.submit(t, "bob", 1200)
	assert.NotEmpty(t, low.ID)
	assert.Equal(t, "single", low.GameMode)
	assert.Equal(t, int64(180), low.AverageReactionTimeMS)
	assert.Equal(t, int64(90000), low.GameDurationMS)

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[response.Leaderboard](t, rr)
	require.Len(t, board.Records, 2)
	assert.Equal(t, high.ID, board.Records[0].ID)
	assert.Equal(t, low.ID, board.Records[1].ID)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.Leaderboard](t, rr).Records, 1)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/leaderboard", map[string]any{"name": "  ", "score": 10}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNameRequired, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/leaderboard", map[string]any{"name": "x", "score": -1}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRecord, errorCode(t, rr))
}

func TestGetRecord(t *testing.T) {
	ts := newTestServer(t)
	record := ts.submit(t, "alice", 500)

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard/"+record.ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", decode[response.Record](t, rr).Name)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRecordNotFound, errorCode(t, rr))
}

func TestRecordEditsRequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	record := ts.submit(t, "alice", 500)

	rr := ts.request(http.MethodDelete, "/api/v1/leaderboard/"+record.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPut, "/api/v1/leaderboard/"+record.ID, map[string]any{"name": "x"}, "bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token := ts.login(t)

	rr = ts.request(http.MethodPut, "/api/v1/leaderboard/"+record.ID, map[string]any{"name": "alicia", "score": 900}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[response.Record](t, rr)
	assert.Equal(t, record.ID, updated.ID)
	assert.Equal(t, "alicia", updated.Name)
	assert.Equal(t, 900, updated.Score)

	rr = ts.request(http.MethodDelete, "/api/v1/leaderboard/"+record.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/leaderboard/"+record.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Admin

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": adminUser,
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{"username": adminUser}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminSessionAndLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodGet, "/api/v1/admin/session", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	session := decode[response.AdminSession](t, rr)
	assert.Equal(t, adminUser, session.Username)
	assert.Equal(t, token, session.SessionToken)
	assert.Equal(t, "2024-01-02T12:00:00Z", session.ExpiresAt)

	rr = ts.request(http.MethodPost, "/api/v1/admin/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/session", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestAdminTokenExpires(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.app.MockClock.Advance(25 * time.Hour)
	rr := ts.request(http.MethodGet, "/api/v1/admin/stats", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminCookieAuth(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookie, Value: token})
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/stats", nil, "")
	assert.Equal(t, `Bearer realm="tetris-admin"`, rr.Header().Get("WWW-Authenticate"))
}

func TestAdminStatsExportAndClear(t *testing.T) {
	ts := newTestServer(t)
	ts.submit(t, "alice", 100)
	ts.submit(t, "bob", 300)

	rr := ts.request(http.MethodGet, "/api/v1/admin/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token := ts.login(t)

	rr = ts.request(http.MethodGet, "/api/v1/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[response.Stats](t, rr)
	assert.Equal(t, 2, stats.TotalPlayers)
	assert.Equal(t, 400, stats.TotalScore)
	assert.Equal(t, float64(200), stats.AverageScore)
	assert.Equal(t, 300, stats.TopScore)

	rr = ts.request(http.MethodPost, "/api/v1/admin/export", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	export := decode[response.Export](t, rr)
	assert.Equal(t, 2, export.TotalRecords)
	assert.Len(t, export.Data, 2)
	assert.Equal(t, "2024-01-01T12:00:00Z", export.Timestamp)

	rr = ts.request(http.MethodDelete, "/api/v1/admin/records", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[response.ClearResult](t, rr).DeletedCount)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard", nil, "")
	assert.Empty(t, decode[response.Leaderboard](t, rr).Records)
}

// Sessions

func TestCreateAndGetSession(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createSession(t, "SESSION1", "alice", "bob")
	assert.Equal(t, "SESSION1", created.ID)
	assert.Equal(t, "multiplayer", created.Mode)
	require.Len(t, created.Players, 2)
	assert.Equal(t, 1, created.Players[0].Index)
	assert.Equal(t, "bob", created.Players[1].Name)

	state := created.Players[0].State
	assert.Equal(t, 10, state.Width)
	assert.Equal(t, 20, state.Height)
	assert.Len(t, state.Board, 20)
	require.NotNil(t, state.Piece)
	assert.Equal(t, "active", state.Phase)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/SESSION1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "SESSION1", decode[response.Session](t, rr).ID)

	rr = ts.request(http.MethodGet, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.SessionList](t, rr)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, []string{"alice", "bob"}, list.Sessions[0].Players)

	rr = ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, 1, decode[response.Health](t, rr).Sessions)
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"players": []any{}}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPlayerCount, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"players": []map[string]string{{"name": "a"}, {"name": "b"}, {"name": "c"}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"players": []map[string]string{{"name": ""}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNameRequired, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"players": []map[string]string{{"name": strings.Repeat("x", 70<<10)}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
	assert.Contains(t, rr.Body.String(), "exceeds")
}

func TestSessionCommands(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t, "SESSION1", "alice")
	startX := created.Players[0].State.Piece.X

	ts.app.MockClock.Advance(300 * time.Millisecond)
	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "move_left"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	view := decode[response.PlayerView](t, rr)
	require.NotNil(t, view.Changed)
	assert.True(t, *view.Changed)
	assert.Equal(t, startX-1, view.State.Piece.X)
	assert.Equal(t, 1, view.Stats.Keypresses)
	assert.Equal(t, map[string]int{"move_left": 1}, view.Stats.MovementPatterns)

	ts.app.MockClock.Advance(200 * time.Millisecond)
	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "right", "input_method": "gamepad"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[response.PlayerView](t, rr)
	assert.Equal(t, []int64{200}, view.Stats.ReactionTimesMS)
	assert.Equal(t, "gamepad", view.Stats.InputMethod)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "pause"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[response.PlayerView](t, rr)
	assert.True(t, view.State.IsPaused)

	// Movement while paused is ignored
	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "hard_drop"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[response.PlayerView](t, rr)
	assert.False(t, *view.Changed)
	assert.Equal(t, 2, view.Stats.Keypresses)
}

func TestSessionCommandErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "SESSION1", "alice")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "jump"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCommand, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/2/commands",
		map[string]string{"command": "left"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/one/commands",
		map[string]string{"command": "left"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "left", "input_method": "joystick"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/NOPE/players/1/commands",
		map[string]string{"command": "left"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSessionNotFound, errorCode(t, rr))
}

func TestSessionTick(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createSession(t, "SESSION1", "alice")
	startY := created.Players[0].State.Piece.Y

	// Level 1 gravity is 950ms
	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/tick", map[string]int{"delta_ms": 1000}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	session := decode[response.Session](t, rr)
	assert.Equal(t, startY+1, session.Players[0].State.Piece.Y)
	assert.Equal(t, 0, session.Players[0].Stats.Keypresses)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/tick", map[string]int{"delta_ms": -5}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEndSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "SESSION1", "alice")

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/SESSION1", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/SESSION1", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/SESSION1", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBotStrategies(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/bot/strategies", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"greedy", "random"}, decode[response.Strategies](t, rr).Strategies)
}

func TestAutoplay(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "SESSION1", "alice")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/autoplay", map[string]any{
		"strategy": "greedy",
		"pieces":   3,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	result := decode[response.Autoplay](t, rr)
	assert.Equal(t, "greedy", result.Strategy)
	require.Len(t, result.Moves, 3)
	assert.Equal(t, "I", result.Moves[0].Shape)
	assert.Equal(t, 3, result.Player.State.PiecesPlaced)
	assert.Equal(t, "bot", result.Player.Stats.InputMethod)

	// An empty body uses the default strategy and piece count
	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/autoplay", nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, decode[response.Autoplay](t, rr).Moves, 10)
}

func TestAutoplayGameOverSkipsLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "SESSION1", "alice")

	// Mock random keeps choosing the leftmost flat placement, stacking to the top
	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/autoplay", map[string]any{
		"strategy": "random",
		"pieces":   100,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[response.Autoplay](t, rr)
	assert.True(t, result.Player.State.IsGameOver)
	assert.Less(t, len(result.Moves), 100)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.Leaderboard](t, rr).Records)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/autoplay", nil, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "PLAYER_NOT_ACTIVE", errorCode(t, rr))
}

func TestAutoplayErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "SESSION1", "alice")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown strategy", "/api/v1/sessions/SESSION1/players/1/autoplay", map[string]any{"strategy": "psychic"}, http.StatusBadRequest, "INVALID_STRATEGY"},
		{"negative pieces", "/api/v1/sessions/SESSION1/players/1/autoplay", map[string]any{"pieces": -1}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad player", "/api/v1/sessions/SESSION1/players/x/autoplay", nil, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing player", "/api/v1/sessions/SESSION1/players/2/autoplay", nil, http.StatusNotFound, "PLAYER_NOT_FOUND"},
		{"missing session", "/api/v1/sessions/NOPE/players/1/autoplay", nil, http.StatusNotFound, "SESSION_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, tt.path, tt.body, "")
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rr))
		})
	}
}

func TestSessionEventsStream(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "SESSION1", "alice")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOPE/events", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/sessions/SESSION1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 16)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
				events <- name
			}
		}
	}()

	next := func() string {
		select {
		case name, ok := <-events:
			require.True(t, ok, "stream closed early")
			return name
		case <-ctx.Done():
			t.Fatal("timed out waiting for an event")
			return ""
		}
	}

	require.Equal(t, "connected", next())

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION1/players/1/commands",
		map[string]string{"command": "left"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "player-update", next())
	assert.Equal(t, "analytics", next())
	assert.Equal(t, "player-panel", next())

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/SESSION1", nil, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "session-ended", next())
}
