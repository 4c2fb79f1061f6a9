package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/tetris-showcase/internal/api"
	"github.com/mcoot/tetris-showcase/internal/factory"
	"github.com/mcoot/tetris-showcase/internal/services/scoring"
	"github.com/mcoot/tetris-showcase/internal/services/session"
	redisstorage "github.com/mcoot/tetris-showcase/internal/storage/redis"
)

// serverConfig is everything main reads from the environment
type serverConfig struct {
	LogLevel      slog.Level
	Server        api.ServerConfig
	App           factory.Config
	AdminUsername string
	AdminPassword string
	TickInterval  time.Duration
}

// loadConfig reads an optional .env file, then the process environment
func loadConfig() (serverConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return serverConfig{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := serverConfig{
		Server:        api.DefaultServerConfig(),
		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		TickInterval:  50 * time.Millisecond,
		App: factory.Config{
			StorageType:   os.Getenv("STORAGE_TYPE"),
			ScoringConfig: scoring.DefaultConfig(),
			SessionConfig: session.DefaultConfig(),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg.Server.Host = os.Getenv("HOST")
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("PORT: invalid port %q", v)
		}
		cfg.Server.Port = port
	}

	mode, err := scoring.ParseMode(strings.ToLower(os.Getenv("SCORING_MODE")))
	if err != nil {
		return cfg, fmt.Errorf("SCORING_MODE: %w", err)
	}
	cfg.App.ScoringConfig.Mode = mode

	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			return cfg, fmt.Errorf("TICK_INTERVAL: invalid duration %q", v)
		}
		cfg.TickInterval = interval
	}

	if v := os.Getenv("MAX_SESSIONS"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return cfg, fmt.Errorf("MAX_SESSIONS: invalid limit %q", v)
		}
		cfg.App.SessionConfig.MaxSessions = limit
	}

	if v := os.Getenv("RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("RANDOM_SEED: invalid seed %q", v)
		}
		cfg.App.Seed = seed
	}

	if cfg.App.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		if prefix := os.Getenv("REDIS_KEY_PREFIX"); prefix != "" {
			redisCfg.KeyPrefix = prefix
		}
		cfg.App.RedisConfig = &redisCfg
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
