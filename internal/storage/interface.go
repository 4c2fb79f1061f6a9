package storage

import (
	"context"
	"time"

	"github.com/mcoot/tetris-showcase/internal/model"
)

// Storage defines the interface for data persistence.
// Only finished games, admin credentials and admin tokens are persisted; live sessions stay in memory.
type Storage interface {
	// Leaderboard operations
	SaveRecord(ctx context.Context, record *model.LeaderboardRecord) error
	GetRecord(ctx context.Context, id model.RecordID) (*model.LeaderboardRecord, error)
	// ListRecords returns records by score descending, ties broken by id descending.
	// A limit of zero or less returns every record.
	ListRecords(ctx context.Context, limit int) ([]*model.LeaderboardRecord, error)
	DeleteRecord(ctx context.Context, id model.RecordID) error
	DeleteAllRecords(ctx context.Context) (int, error)

	// Admin operations
	SaveAdminAccount(ctx context.Context, account *model.AdminAccount) error
	GetAdminAccount(ctx context.Context, username string) (*model.AdminAccount, error)

	// Admin tokens. Backends with native expiry drop a token after ttl;
	// callers still check ExpiresAt.
	SaveAdminToken(ctx context.Context, token *model.AdminToken, ttl time.Duration) error
	GetAdminToken(ctx context.Context, token string) (*model.AdminToken, error)
	DeleteAdminToken(ctx context.Context, token string) error
}
