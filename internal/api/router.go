package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetris-showcase/internal/api/apierr"
	"github.com/mcoot/tetris-showcase/internal/api/handler"
	"github.com/mcoot/tetris-showcase/internal/api/middleware"
	"github.com/mcoot/tetris-showcase/internal/api/response"
	sharedmw "github.com/mcoot/tetris-showcase/internal/middleware"
	"github.com/mcoot/tetris-showcase/internal/services/auth"
	"github.com/mcoot/tetris-showcase/internal/services/bot"
	"github.com/mcoot/tetris-showcase/internal/services/leaderboard"
	"github.com/mcoot/tetris-showcase/internal/services/session"
	"github.com/mcoot/tetris-showcase/internal/web/sse"
	"github.com/mcoot/tetris-showcase/internal/web/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	LeaderboardService leaderboard.ServiceInterface
	SessionManager     *session.Manager
	BotService         *bot.Service // Optional; autoplay routes are skipped when nil
	HubManager         *sse.HubManager
	WSHub              *ws.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the /api/v1 routes on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}
	wsHub := cfg.WSHub
	if wsHub == nil {
		wsHub = ws.NewHub(cfg.Logger)
	}

	// Create handlers
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.LeaderboardService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionManager)
	eventsHandler := handler.NewEventsHandler(cfg.SessionManager, hubManager)
	wsHandler := ws.NewHandler(wsHub, cfg.SessionManager, cfg.Logger)

	// Create middleware
	adminMiddleware := middleware.AdminAuth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := sharedmw.Recovery(cfg.Logger, apierr.WritePanic)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public leaderboard routes
	api.HandleFunc("/leaderboard", leaderboardHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard/{id}", leaderboardHandler.Get).Methods(http.MethodGet)

	// Record edits are admin only
	records := api.PathPrefix("/leaderboard").Subrouter()
	records.Use(adminMiddleware)
	records.HandleFunc("/{id}", leaderboardHandler.Update).Methods(http.MethodPut)
	records.HandleFunc("/{id}", leaderboardHandler.Delete).Methods(http.MethodDelete)

	// Admin login (no auth required)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Protected admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/logout", adminHandler.Logout).Methods(http.MethodPost)
	admin.HandleFunc("/session", adminHandler.Session).Methods(http.MethodGet)
	admin.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/export", adminHandler.Export).Methods(http.MethodPost)
	admin.HandleFunc("/records", adminHandler.ClearRecords).Methods(http.MethodDelete)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.End).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/players/{n}/commands", sessionHandler.Command).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/tick", sessionHandler.Tick).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/ws", wsHandler.Serve).Methods(http.MethodGet)

	// Demo autoplayer
	if cfg.BotService != nil {
		botHandler := handler.NewBotHandler(cfg.BotService)
		api.HandleFunc("/bot/strategies", botHandler.Strategies).Methods(http.MethodGet)
		api.HandleFunc("/sessions/{id}/players/{n}/autoplay", botHandler.Autoplay).Methods(http.MethodPost)
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.SessionManager)).Methods(http.MethodGet)
}

func healthHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Sessions: sessions.Count()})
	}
}
