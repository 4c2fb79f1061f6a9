package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetris-showcase/internal/api"
	"github.com/mcoot/tetris-showcase/internal/factory"
	"github.com/mcoot/tetris-showcase/internal/web"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg serverConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.App.Logger = logger
	app, err := factory.New(cfg.App)
	if err != nil {
		return err
	}
	if closer, ok := app.Storage.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, admin login disabled")
	} else if err := app.AuthService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	router := mux.NewRouter()
	api.Mount(router, api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		SessionManager:     app.SessionManager,
		BotService:         app.BotService,
		HubManager:         app.HubManager,
		WSHub:              app.WSHub,
	})
	web.Mount(router, web.RouterConfig{
		Logger:             logger,
		LeaderboardService: app.LeaderboardService,
		SessionManager:     app.SessionManager,
		StaticDir:          findStaticDir(),
	})

	go app.SessionManager.Run(ctx, cfg.TickInterval)
	go app.HubManager.RunJanitor(ctx, time.Minute)

	server := api.NewServer(ctx, router, cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	app.HubManager.CloseAll()
	return server.Shutdown(context.Background())
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return "internal/web/static"
}
