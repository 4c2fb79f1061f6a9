package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records are JSON documents indexed by a sorted set keyed on score.
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	cfg = cfg.withDefaults()
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client; tests pass one dialed at miniredis
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	cfg = cfg.withDefaults()
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keyspace(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Leaderboard operations

func (s *Storage) SaveRecord(ctx context.Context, record *model.LeaderboardRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.record(record.ID), data, s.cfg.RecordTTL)
	pipe.ZAdd(ctx, s.keys.leaderboard(), redis.Z{
		Score:  float64(record.Score),
		Member: string(record.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRecord(ctx context.Context, id model.RecordID) (*model.LeaderboardRecord, error) {
	data, err := s.client.Get(ctx, s.keys.record(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRecordNotFound
		}
		return nil, err
	}

	var record model.LeaderboardRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ListRecords(ctx context.Context, limit int) ([]*model.LeaderboardRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, s.keys.leaderboard(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.LeaderboardRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.keys.record(model.RecordID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.LeaderboardRecord, 0, len(values))
	var expired []any
	for i, value := range values {
		str, ok := value.(string)
		if !ok {
			// Document expired or was removed; drop the dangling index entry
			expired = append(expired, ids[i])
			continue
		}
		var record model.LeaderboardRecord
		if err := json.Unmarshal([]byte(str), &record); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", ids[i], err)
		}
		records = append(records, &record)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.keys.leaderboard(), expired...).Err(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Storage) DeleteRecord(ctx context.Context, id model.RecordID) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.keys.record(id))
	pipe.ZRem(ctx, s.keys.leaderboard(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return model.ErrRecordNotFound
	}
	return nil
}

func (s *Storage) DeleteAllRecords(ctx context.Context) (int, error) {
	ids, err := s.client.ZRange(ctx, s.keys.leaderboard(), 0, -1).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.keys.record(model.RecordID(id)))
	}

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, keys...)
	pipe.Del(ctx, s.keys.leaderboard())
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(del.Val()), nil
}

// Admin operations

func (s *Storage) SaveAdminAccount(ctx context.Context, account *model.AdminAccount) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.admin(account.Username), data, 0).Err()
}

func (s *Storage) GetAdminAccount(ctx context.Context, username string) (*model.AdminAccount, error) {
	data, err := s.client.Get(ctx, s.keys.admin(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}

	var account model.AdminAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) SaveAdminToken(ctx context.Context, token *model.AdminToken, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("admin token ttl must be positive, got %s", ttl)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.adminToken(token.Token), data, ttl).Err()
}

func (s *Storage) GetAdminToken(ctx context.Context, token string) (*model.AdminToken, error) {
	data, err := s.client.Get(ctx, s.keys.adminToken(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminTokenNotFound
		}
		return nil, err
	}

	var stored model.AdminToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Storage) DeleteAdminToken(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.keys.adminToken(token)).Err()
}
