package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/tetris-showcase/internal/dependencies/clock"
	"github.com/mcoot/tetris-showcase/internal/dependencies/random"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/board"
	"github.com/mcoot/tetris-showcase/internal/services/game"
	"github.com/mcoot/tetris-showcase/internal/services/scoring"
	"github.com/mcoot/tetris-showcase/internal/services/stats"
)

const (
	// SessionIDLength is the length of generated session ids
	SessionIDLength = 8
	// SessionIDAlphabet is the characters used in session ids (avoid confusing chars)
	SessionIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxIDAttempts = 10
)

// Publisher receives snapshot updates for live consumers. Calls must not block.
type Publisher interface {
	PublishPlayerUpdate(ctx context.Context, sessionID model.SessionID, view model.PlayerView)
	PublishSessionEnded(ctx context.Context, sessionID model.SessionID)
}

// GameOverFunc is called once per player per game with the final stats
type GameOverFunc func(ctx context.Context, sessionID model.SessionID, mode model.GameMode, profile model.PlayerProfile, final model.StatsSnapshot)

// Config holds session manager settings
type Config struct {
	MaxSessions int // 0 means unlimited
	Stats       stats.Config
}

// DefaultConfig returns unlimited sessions with default stats windows
func DefaultConfig() Config {
	return Config{
		MaxSessions: 0,
		Stats:       stats.DefaultConfig(),
	}
}

type player struct {
	index    int
	profile  model.PlayerProfile
	game     *game.Engine
	stats    *stats.Engine
	gameOver bool // Set by the engine's game over event, cleared once reported
}

func (p *player) view() model.PlayerView {
	return model.PlayerView{
		Index:   p.index,
		Profile: p.profile,
		State:   p.game.Snapshot(),
		Stats:   p.stats.Snapshot(),
	}
}

// Session is one or two independent players sharing a screen
type Session struct {
	ID        model.SessionID
	Mode      model.GameMode
	CreatedAt time.Time

	mu       sync.Mutex
	players  []*player
	lastTick time.Time
}

func (s *Session) viewLocked() *model.SessionView {
	view := &model.SessionView{
		ID:        s.ID,
		Mode:      s.Mode,
		CreatedAt: s.CreatedAt,
		Players:   make([]model.PlayerView, 0, len(s.players)),
	}
	for _, p := range s.players {
		view.Players = append(view.Players, p.view())
	}
	return view
}

func (s *Session) summary() model.SessionSummary {
	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		names = append(names, p.profile.Name)
	}
	return model.SessionSummary{
		ID:        s.ID,
		Mode:      s.Mode,
		Players:   names,
		CreatedAt: s.CreatedAt,
	}
}

type finishedGame struct {
	profile model.PlayerProfile
	stats   model.StatsSnapshot
}

// drainGameOversLocked collects players whose game ended since the last call
func (s *Session) drainGameOversLocked() []finishedGame {
	var finished []finishedGame
	for _, p := range s.players {
		if p.gameOver {
			p.gameOver = false
			finished = append(finished, finishedGame{profile: p.profile, stats: p.stats.Snapshot()})
		}
	}
	return finished
}

// Manager owns live sessions and serialises access to each one
type Manager struct {
	config         Config
	boardService   *board.Service
	scoringService *scoring.Service
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	publisher  Publisher
	onGameOver GameOverFunc

	mu       sync.RWMutex
	sessions map[model.SessionID]*Session
}

// NewManager creates a new session Manager
func NewManager(
	config Config,
	boardService *board.Service,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		config:         config,
		boardService:   boardService,
		scoringService: scoringService,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "session")),
		sessions:       make(map[model.SessionID]*Session),
	}
}

// SetPublisher sets the consumer of live snapshot updates
func (m *Manager) SetPublisher(publisher Publisher) {
	m.publisher = publisher
}

// SetGameOverFunc sets the end-of-game callback
func (m *Manager) SetGameOverFunc(fn GameOverFunc) {
	m.onGameOver = fn
}

// Create starts a session with one or two players, each with a fresh game
func (m *Manager) Create(ctx context.Context, profiles []model.PlayerProfile) (*model.SessionView, error) {
	if len(profiles) == 0 || len(profiles) > model.MaxPlayersPerSession {
		return nil, model.ErrInvalidPlayerCount
	}
	profiles = slices.Clone(profiles)
	for i := range profiles {
		profiles[i].Name = strings.TrimSpace(profiles[i].Name)
		if profiles[i].Name == "" {
			return nil, fmt.Errorf("player %d: %w", i+1, model.ErrPlayerNameRequired)
		}
	}

	mode := model.GameModeSingle
	if len(profiles) > 1 {
		mode = model.GameModeMultiplayer
	}

	m.mu.Lock()
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		m.mu.Unlock()
		return nil, model.ErrTooManySessions
	}
	id, err := m.newIDLocked()
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.clock.Now()
	session := &Session{
		ID:        id,
		Mode:      mode,
		CreatedAt: now,
		lastTick:  now,
	}
	for i, profile := range profiles {
		session.players = append(session.players, m.newPlayer(i+1, profile))
	}
	m.sessions[id] = session
	m.mu.Unlock()

	session.mu.Lock()
	for _, p := range session.players {
		p.game.Start()
	}
	view := session.viewLocked()
	session.mu.Unlock()

	m.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("mode", string(mode)),
		slog.Int("player_count", len(profiles)),
	)
	return view, nil
}

func (m *Manager) newIDLocked() (model.SessionID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := model.SessionID(m.random.String(SessionIDLength, SessionIDAlphabet))
		if id == "" {
			continue
		}
		if _, exists := m.sessions[id]; !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate session id: exhausted %d attempts", maxIDAttempts)
}

func (m *Manager) newPlayer(index int, profile model.PlayerProfile) *player {
	p := &player{
		index:   index,
		profile: profile,
		game:    game.NewEngine(m.boardService, m.scoringService, m.clock, m.random, m.logger.With(slog.Int("player", index))),
		stats:   stats.New(m.config.Stats, m.clock),
	}
	p.game.Subscribe(p.stats.Observe)
	p.game.Subscribe(func(event model.Event) {
		if event.Type == model.EventGameOver {
			p.gameOver = true
		}
	})
	return p
}

func (m *Manager) get(id model.SessionID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

// Get returns a snapshot of every player in a session
func (m *Manager) Get(ctx context.Context, id model.SessionID) (*model.SessionView, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.viewLocked(), nil
}

// View returns the snapshot of a single player (1-based seat number)
func (m *Manager) View(ctx context.Context, id model.SessionID, playerIndex int) (*model.PlayerView, error) {
	view, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	player, ok := view.Player(playerIndex)
	if !ok {
		return nil, model.ErrPlayerNotInSession
	}
	return player, nil
}

// Command applies a player command. method, when set, records the input device
// on the player's input events.
// Returns the player's updated view and whether the command changed state.
func (m *Manager) Command(ctx context.Context, id model.SessionID, playerIndex int, cmd model.Command, method model.InputMethod) (*model.PlayerView, bool, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, false, err
	}

	session.mu.Lock()
	if playerIndex < 1 || playerIndex > len(session.players) {
		session.mu.Unlock()
		return nil, false, model.ErrPlayerNotInSession
	}
	p := session.players[playerIndex-1]
	changed := p.game.HandleCommand(cmd, method)
	view := p.view()
	finished := session.drainGameOversLocked()
	session.mu.Unlock()

	if changed {
		m.publish(ctx, id, view)
	}
	m.reportGameOvers(ctx, session, finished)
	return &view, changed, nil
}

// Tick advances gravity for every player in a session by delta
func (m *Manager) Tick(ctx context.Context, id model.SessionID, delta time.Duration) (*model.SessionView, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	session.lastTick = m.clock.Now()
	updated := m.tickLocked(session, delta)
	view := session.viewLocked()
	finished := session.drainGameOversLocked()
	session.mu.Unlock()

	for _, idx := range updated {
		m.publish(ctx, id, view.Players[idx])
	}
	m.reportGameOvers(ctx, session, finished)
	return view, nil
}

// tickLocked returns the positions of players whose piece moved
func (m *Manager) tickLocked(session *Session, delta time.Duration) []int {
	var updated []int
	for i, p := range session.players {
		if p.game.Tick(delta) {
			updated = append(updated, i)
		}
	}
	return updated
}

// TickAll advances every session by the time since its previous tick
func (m *Manager) TickAll(ctx context.Context) {
	for _, session := range m.snapshotSessions() {
		session.mu.Lock()
		now := m.clock.Now()
		delta := now.Sub(session.lastTick)
		session.lastTick = now
		updated := m.tickLocked(session, delta)
		var view *model.SessionView
		if len(updated) > 0 {
			view = session.viewLocked()
		}
		finished := session.drainGameOversLocked()
		session.mu.Unlock()

		for _, idx := range updated {
			m.publish(ctx, session.ID, view.Players[idx])
		}
		m.reportGameOvers(ctx, session, finished)
	}
}

func (m *Manager) snapshotSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// End discards a session and notifies live consumers
func (m *Manager) End(ctx context.Context, id model.SessionID) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return model.ErrSessionNotFound
	}
	if m.publisher != nil {
		m.publisher.PublishSessionEnded(ctx, id)
	}
	m.logger.Info("session ended", slog.String("session_id", string(id)))
	return nil
}

// List returns summaries of live sessions, oldest first
func (m *Manager) List(ctx context.Context) []model.SessionSummary {
	sessions := m.snapshotSessions()
	summaries := make([]model.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, session.summary())
	}
	slices.SortFunc(summaries, func(a, b model.SessionSummary) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return summaries
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run ticks every session at the given interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("session scheduler started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("session scheduler stopped")
			return
		case <-ticker.C():
			m.TickAll(ctx)
		}
	}
}

func (m *Manager) publish(ctx context.Context, id model.SessionID, view model.PlayerView) {
	if m.publisher != nil {
		m.publisher.PublishPlayerUpdate(ctx, id, view)
	}
}

func (m *Manager) reportGameOvers(ctx context.Context, session *Session, finished []finishedGame) {
	for _, f := range finished {
		m.logger.Info("player game over",
			slog.String("session_id", string(session.ID)),
			slog.String("player", f.profile.Name),
			slog.Int("score", f.stats.Score),
		)
		if m.onGameOver != nil {
			m.onGameOver(ctx, session.ID, session.Mode, f.profile, f.stats)
		}
	}
}

// ManagerInterface for dependency injection
type ManagerInterface interface {
	Create(ctx context.Context, profiles []model.PlayerProfile) (*model.SessionView, error)
	Get(ctx context.Context, id model.SessionID) (*model.SessionView, error)
	View(ctx context.Context, id model.SessionID, playerIndex int) (*model.PlayerView, error)
	Command(ctx context.Context, id model.SessionID, playerIndex int, cmd model.Command, method model.InputMethod) (*model.PlayerView, bool, error)
	Tick(ctx context.Context, id model.SessionID, delta time.Duration) (*model.SessionView, error)
	TickAll(ctx context.Context)
	End(ctx context.Context, id model.SessionID) error
	List(ctx context.Context) []model.SessionSummary
	Run(ctx context.Context, interval time.Duration)
}

var _ ManagerInterface = (*Manager)(nil)
