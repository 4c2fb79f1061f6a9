package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetris-showcase/internal/middleware"
	"github.com/mcoot/tetris-showcase/internal/services/leaderboard"
	"github.com/mcoot/tetris-showcase/internal/services/session"
	"github.com/mcoot/tetris-showcase/internal/web/handler"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger             *slog.Logger
	LeaderboardService leaderboard.ServiceInterface
	SessionManager     session.ManagerInterface
	StaticDir          string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the HTML routes on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.SessionManager, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Recovery(cfg.Logger, handler.RenderPanic))
	pages.Use(middleware.Logging(cfg.Logger))

	pages.HandleFunc("/", leaderboardHandler.Index).Methods(http.MethodGet)
	pages.HandleFunc("/leaderboard/{id}", leaderboardHandler.Record).Methods(http.MethodGet)
	pages.HandleFunc("/sessions/{id}", sessionHandler.Watch).Methods(http.MethodGet)
}
