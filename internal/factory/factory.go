package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/tetris-showcase/internal/dependencies/clock"
	"github.com/mcoot/tetris-showcase/internal/dependencies/random"
	"github.com/mcoot/tetris-showcase/internal/services/auth"
	"github.com/mcoot/tetris-showcase/internal/services/board"
	"github.com/mcoot/tetris-showcase/internal/services/bot"
	"github.com/mcoot/tetris-showcase/internal/services/leaderboard"
	"github.com/mcoot/tetris-showcase/internal/services/scoring"
	"github.com/mcoot/tetris-showcase/internal/services/session"
	"github.com/mcoot/tetris-showcase/internal/storage"
	"github.com/mcoot/tetris-showcase/internal/storage/memory"
	redisstorage "github.com/mcoot/tetris-showcase/internal/storage/redis"
	"github.com/mcoot/tetris-showcase/internal/web/sse"
	"github.com/mcoot/tetris-showcase/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService       *board.Service
	ScoringService     *scoring.Service
	LeaderboardService *leaderboard.Service
	SessionManager     *session.Manager
	BotService         *bot.Service
	AuthService        *auth.Service
	HubManager         *sse.HubManager
	WSHub              *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// BoardConfig sets the playfield size (optional)
	BoardConfig board.Config
	// ScoringConfig selects flat or level-multiplied scoring and gravity (optional)
	ScoringConfig scoring.Config
	// SessionConfig caps live sessions and sizes stats windows (optional)
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Seed makes piece and session id sequences reproducible when non-zero
	Seed uint64
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.Seed != 0 {
		rnd = random.NewSeeded(cfg.Seed)
		logger.Warn("using seeded random source", slog.Uint64("seed", cfg.Seed))
	}

	return newWithDependencies(store, clk, rnd, cfg.withDefaults(), logger), nil
}

// withDefaults fills every unset section with its package default
func (cfg Config) withDefaults() Config {
	if cfg.AuthConfig.TokenTTL == 0 {
		cfg.AuthConfig = auth.DefaultConfig()
	}
	if cfg.BoardConfig == (board.Config{}) {
		cfg.BoardConfig = board.DefaultConfig()
	}
	if cfg.ScoringConfig == (scoring.Config{}) {
		cfg.ScoringConfig = scoring.DefaultConfig()
	}
	if cfg.SessionConfig == (session.Config{}) {
		cfg.SessionConfig = session.DefaultConfig()
	}
	return cfg
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	// Create services
	boardService := board.New(cfg.BoardConfig)
	scoringService := scoring.New(cfg.ScoringConfig)
	leaderboardService := leaderboard.New(store, clk, logger)
	authService := auth.New(store, clk, cfg.AuthConfig, logger)
	sessionManager := session.NewManager(cfg.SessionConfig, boardService, scoringService, clk, rnd, logger)
	botService := bot.NewService(sessionManager, boardService, map[string]bot.Strategy{
		"greedy": bot.NewGreedyStrategy(bot.DefaultWeights()),
		"random": bot.NewRandomStrategy(rnd),
	}, logger)
	hubManager := sse.NewHubManager(logger)
	wsHub := ws.NewHub(logger)

	// Live updates fan out to SSE and websocket watchers; finished games land on the leaderboard
	sessionManager.SetPublisher(session.Publishers{sse.NewBroadcaster(hubManager, logger), wsHub})
	sessionManager.SetGameOverFunc(leaderboardService.SubmitGameOver)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		BoardService:       boardService,
		ScoringService:     scoringService,
		LeaderboardService: leaderboardService,
		SessionManager:     sessionManager,
		BotService:         botService,
		AuthService:        authService,
		HubManager:         hubManager,
		WSHub:              wsHub,
	}
}
