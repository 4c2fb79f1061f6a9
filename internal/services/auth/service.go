package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tetris-showcase/internal/dependencies/clock"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrWeakPassword       = errors.New("admin password must be at least 8 characters")
)

const minPasswordLength = 8

// Service provisions the admin account and issues bearer tokens for it.
// Tokens live in storage so a Redis-backed server keeps logins across restarts.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	tokenTTL time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		logger:   logger.With(slog.String("component", "auth")),
		tokenTTL: cfg.TokenTTL,
	}
}

// EnsureAdmin creates the admin account, or replaces its password if it changed
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}

	now := s.clock.Now()
	existing, err := s.storage.GetAdminAccount(ctx, username)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) == nil {
			return nil
		}
	case errors.Is(err, model.ErrAdminNotFound):
		existing = &model.AdminAccount{Username: username, CreatedAt: now}
	default:
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	existing.PasswordHash = string(hash)
	existing.UpdatedAt = now

	if err := s.storage.SaveAdminAccount(ctx, existing); err != nil {
		return err
	}
	s.logger.Info("admin account provisioned", slog.String("username", username))
	return nil
}

// Login checks the password and issues a new token
func (s *Service) Login(ctx context.Context, username, password string) (*model.AdminToken, error) {
	account, err := s.storage.GetAdminAccount(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			// Same bcrypt cost as a wrong password
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Warn("admin login failed", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("admin login failed", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	token := &model.AdminToken{
		Token:     newToken(),
		Username:  account.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.storage.SaveAdminToken(ctx, token, s.tokenTTL); err != nil {
		return nil, err
	}
	s.logger.Info("admin logged in", slog.String("username", account.Username))
	return token, nil
}

// Authenticate resolves a bearer token. Expired tokens are deleted.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*model.AdminToken, error) {
	if bearer == "" {
		return nil, ErrInvalidSession
	}
	token, err := s.storage.GetAdminToken(ctx, bearer)
	if errors.Is(err, model.ErrAdminTokenNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}

	if token.Expired(s.clock.Now()) {
		if err := s.storage.DeleteAdminToken(ctx, bearer); err != nil {
			s.logger.Warn("failed to delete expired admin token", slog.String("error", err.Error()))
		}
		return nil, ErrInvalidSession
	}
	return token, nil
}

// Logout revokes a token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, bearer string) error {
	return s.storage.DeleteAdminToken(ctx, bearer)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

func newToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return "adm_" + base64.RawURLEncoding.EncodeToString(b)
}
