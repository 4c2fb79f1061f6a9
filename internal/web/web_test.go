package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetris-showcase/internal/factory"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/web"
	"github.com/mcoot/tetris-showcase/internal/web/sse"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()

	router := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		LeaderboardService: app.LeaderboardService,
		SessionManager:     app.SessionManager,
		StaticDir:          "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
	}
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// assertContainsText checks that the selection's text contains the substring
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	assert.Contains(t, doc.Find(selector).Text(), text, "selector %q", selector)
}

func (ts *webTestServer) submit(name, company string, score int) *model.LeaderboardRecord {
	ts.t.Helper()
	record, err := ts.app.LeaderboardService.Submit(ts.t.Context(), &model.LeaderboardRecord{
		Name:                name,
		Company:             company,
		Score:               score,
		Lines:               score / 100,
		Level:               score/1000 + 1,
		AverageReactionTime: 210 * time.Millisecond,
		InputAccuracy:       92.5,
		GameDuration:        95 * time.Second,
	})
	require.NoError(ts.t, err)
	return record
}

func TestLeaderboardPageEmpty(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	doc := parseHTML(rr.Body)
	assert.Equal(t, "Leaderboard | Tetris Showcase", doc.Find("title").Text())
	assertContainsText(t, doc, ".empty-state", "No games recorded yet")
	assert.Equal(t, 0, doc.Find(".leaderboard-row").Length())
}

func TestLeaderboardPageRanksByScore(t *testing.T) {
	ts := newWebTestServer(t)
	ts.submit("alice", "Acme", 400)
	top := ts.submit("bob", "Globex", 2600)
	ts.submit("carol", "", 900)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	rows := doc.Find(".leaderboard-row")
	require.Equal(t, 3, rows.Length())

	first := rows.First()
	assert.Equal(t, "1", first.Find(".rank").Text())
	assert.Equal(t, "bob", first.Find(".name").Text())
	assert.Equal(t, "Globex", first.Find(".company").Text())
	assert.Equal(t, "2600", first.Find(".score").Text())
	assert.Equal(t, "210ms", first.Find(".reaction").Text())
	assert.Equal(t, "92.5%", first.Find(".accuracy").Text())

	href, ok := first.Find(".name a").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/leaderboard/"+string(top.ID), href)

	var names []string
	rows.Each(func(_ int, s *goquery.Selection) {
		names = append(names, s.Find(".name").Text())
	})
	assert.Equal(t, []string{"bob", "carol", "alice"}, names)
}

func TestLeaderboardPageLimit(t *testing.T) {
	ts := newWebTestServer(t)
	ts.submit("alice", "", 100)
	ts.submit("bob", "", 200)

	rr := ts.get("/?limit=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, parseHTML(rr.Body).Find(".leaderboard-row").Length())
}

func TestLeaderboardEscapesNames(t *testing.T) {
	ts := newWebTestServer(t)
	ts.submit("<script>alert(1)</script>", "", 100)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")

	doc := parseHTML(strings.NewReader(rr.Body.String()))
	assert.Equal(t, "<script>alert(1)</script>", doc.Find(".leaderboard-row .name").Text())
}

func TestRecordPage(t *testing.T) {
	ts := newWebTestServer(t)
	record := ts.submit("alice", "Acme", 1500)

	rr := ts.get("/leaderboard/" + string(record.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assert.Equal(t, "alice", doc.Find("h1.player-name").Text())
	assertContainsText(t, doc, ".company", "Acme")
	assertContainsText(t, doc, ".record-stats", "1500")
	assertContainsText(t, doc, ".record-stats", "1:35")
	assertContainsText(t, doc, ".record-stats", "single")
}

func TestRecordPageNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/leaderboard/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "Record not found")
}

func TestSessionPage(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MockRandom.QueueString("WATCHME1")
	view, err := ts.app.SessionManager.Create(t.Context(), []model.PlayerProfile{{Name: "alice"}, {Name: "bob"}})
	require.NoError(t, err)

	rr := ts.get("/sessions/" + string(view.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	section := doc.Find("#session")
	connect, ok := section.Attr("sse-connect")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/sessions/WATCHME1/events", connect)

	sink := section.Find("[sse-swap]")
	require.Equal(t, 1, sink.Length())
	swap, _ := sink.Attr("sse-swap")
	assert.Equal(t, "player-panel", swap)
	assert.Equal(t, 1, doc.Find("#player-1 article.player").Length())
	assert.Equal(t, 1, doc.Find("#player-2 article.player").Length())

	players := doc.Find("article.player")
	require.Equal(t, 2, players.Length())
	assert.Equal(t, "alice", players.First().Find(".player-name").Text())
	assert.Equal(t, "playing", players.First().Find(".status").Text())

	board := players.First().Find(".board")
	assert.Equal(t, 20, board.Find(".board-row").Length())
	assert.Equal(t, 200, board.Find(".cell").Length())
	assert.Equal(t, 4, board.Find(".cell-active").Length())
	shape, _ := board.Find(".cell-active").First().Attr("data-shape")
	assert.Equal(t, "I", shape)
}

func TestSessionPageNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/sessions/NOPE")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "h1", "Session not found")
}

func TestSessionPagePanelsMatchStreamedUpdates(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MockRandom.QueueString("WATCHME2")
	view, err := ts.app.SessionManager.Create(t.Context(), []model.PlayerProfile{{Name: "alice"}, {Name: "bob"}})
	require.NoError(t, err)

	page := parseHTML(ts.get("/sessions/" + string(view.ID)).Body)

	player, changed, err := ts.app.SessionManager.Command(t.Context(), view.ID, 2, model.CommandHardDrop, model.InputKeyboard)
	require.NoError(t, err)
	require.True(t, changed)

	events, err := sse.NewRenderer().RenderPlayerUpdate(t.Context(), view.ID, *player)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, sse.EventPlayerPanel, events[2].EventName)

	fragment := parseHTML(strings.NewReader(events[2].Data))
	wrapper := fragment.Find("[hx-swap-oob]")
	require.Equal(t, 1, wrapper.Length())
	id, _ := wrapper.Attr("id")
	assert.Equal(t, "player-2", id)

	// The fragment replaces an element the page already has
	assert.Equal(t, 1, page.Find("#"+id).Length())
	assert.Equal(t, "bob", wrapper.Find(".player-name").Text())
	assert.Equal(t, 4, wrapper.Find(".cell-filled").Length())
}
