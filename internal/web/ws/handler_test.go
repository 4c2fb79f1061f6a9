package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetris-showcase/internal/dependencies/mocks"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/board"
	"github.com/mcoot/tetris-showcase/internal/services/scoring"
	"github.com/mcoot/tetris-showcase/internal/services/session"
	"github.com/mcoot/tetris-showcase/internal/testutil"
)

type inbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type HandlerSuite struct {
	suite.Suite
	random    *mocks.MockRandom
	manager   *session.Manager
	hub       *Hub
	server    *httptest.Server
	ctx       context.Context
	sessionID model.SessionID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.random = mocks.NewMockRandom()
	s.manager = session.NewManager(
		session.DefaultConfig(),
		board.New(board.DefaultConfig()),
		scoring.New(scoring.DefaultConfig()),
		mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		s.random,
		testutil.NopLogger(),
	)
	s.hub = NewHub(testutil.NopLogger())
	s.manager.SetPublisher(s.hub)

	r := mux.NewRouter()
	r.HandleFunc("/sessions/{id}/ws", NewHandler(s.hub, s.manager, testutil.NopLogger()).Serve)
	s.server = httptest.NewServer(r)

	s.random.QueueString("WSGAME01")
	view, err := s.manager.Create(s.ctx, []model.PlayerProfile{{Name: "alice"}})
	s.Require().NoError(err)
	s.sessionID = view.ID
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlerSuite) dial(id model.SessionID) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/sessions/" + string(id) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HandlerSuite) read(conn *websocket.Conn) inbound {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var msg inbound
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

func (s *HandlerSuite) TestUnknownSessionRejected() {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/sessions/NOPE/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Error(err)
	s.Require().NotNil(resp)
	s.Equal(404, resp.StatusCode)
}

func (s *HandlerSuite) TestInitialAnalytics() {
	conn := s.dial(s.sessionID)

	msg := s.read(conn)
	s.Equal(TypeAnalytics, msg.Type)

	var analytics struct {
		SessionID string `json:"session_id"`
		Player    int    `json:"player"`
	}
	s.Require().NoError(json.Unmarshal(msg.Data, &analytics))
	s.Equal(string(s.sessionID), analytics.SessionID)
	s.Equal(1, analytics.Player)
}

func (s *HandlerSuite) TestCommandRoundTrip() {
	conn := s.dial(s.sessionID)
	s.read(conn) // initial state

	s.Require().NoError(conn.WriteJSON(CommandMessage{Player: 1, Command: "left", InputMethod: "gamepad"}))

	pushed := s.read(conn)
	s.Equal(TypeAnalytics, pushed.Type)

	result := s.read(conn)
	s.Require().Equal(TypeCommand, result.Type)
	var view struct {
		Changed *bool `json:"changed"`
		Stats   struct {
			Keypresses  int    `json:"keypresses"`
			InputMethod string `json:"input_method"`
		} `json:"stats"`
	}
	s.Require().NoError(json.Unmarshal(result.Data, &view))
	s.Require().NotNil(view.Changed)
	s.True(*view.Changed)
	s.Equal(1, view.Stats.Keypresses)
	s.Equal("gamepad", view.Stats.InputMethod)
}

func (s *HandlerSuite) TestInvalidCommandReportsError() {
	conn := s.dial(s.sessionID)
	s.read(conn)

	s.Require().NoError(conn.WriteJSON(CommandMessage{Player: 1, Command: "jump"}))

	msg := s.read(conn)
	s.Equal(TypeError, msg.Type)
	s.Contains(msg.Error, "invalid command")
}

func (s *HandlerSuite) TestSessionEndClosesConnection() {
	conn := s.dial(s.sessionID)
	s.read(conn)
	s.Eventually(func() bool { return s.hub.ClientCount(s.sessionID) == 1 }, time.Second, 10*time.Millisecond)

	s.Require().NoError(s.manager.End(s.ctx, s.sessionID))

	msg := s.read(conn)
	s.Equal(TypeSessionEnded, msg.Type)

	_, _, err := conn.ReadMessage()
	s.True(websocket.IsCloseError(err, websocket.CloseNormalClosure), "expected a normal close, got %v", err)
	s.Equal(0, s.hub.ClientCount(s.sessionID))
}
