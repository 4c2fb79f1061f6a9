package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	records map[model.RecordID]*model.LeaderboardRecord
	admins  map[string]*model.AdminAccount
	tokens  map[string]*model.AdminToken
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		records: make(map[model.RecordID]*model.LeaderboardRecord),
		admins:  make(map[string]*model.AdminAccount),
		tokens:  make(map[string]*model.AdminToken),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Leaderboard operations

func (s *Storage) SaveRecord(ctx context.Context, record *model.LeaderboardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *record
	s.records[record.ID] = &stored
	return nil
}

func (s *Storage) GetRecord(ctx context.Context, id model.RecordID) (*model.LeaderboardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	out := *record
	return &out, nil
}

func (s *Storage) ListRecords(ctx context.Context, limit int) ([]*model.LeaderboardRecord, error) {
	s.mu.RLock()
	records := make([]*model.LeaderboardRecord, 0, len(s.records))
	for _, record := range s.records {
		out := *record
		records = append(records, &out)
	}
	s.mu.RUnlock()

	slices.SortFunc(records, func(a, b *model.LeaderboardRecord) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(string(b.ID), string(a.ID))
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Storage) DeleteRecord(ctx context.Context, id model.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return model.ErrRecordNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *Storage) DeleteAllRecords(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.records)
	s.records = make(map[model.RecordID]*model.LeaderboardRecord)
	return count, nil
}

// Admin operations

func (s *Storage) SaveAdminAccount(ctx context.Context, account *model.AdminAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *account
	s.admins[account.Username] = &stored
	return nil
}

func (s *Storage) GetAdminAccount(ctx context.Context, username string) (*model.AdminAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.admins[username]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	out := *account
	return &out, nil
}

// SaveAdminToken keeps the token until it is deleted; expiry is left to the caller
func (s *Storage) SaveAdminToken(ctx context.Context, token *model.AdminToken, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *token
	s.tokens[token.Token] = &stored
	return nil
}

func (s *Storage) GetAdminToken(ctx context.Context, token string) (*model.AdminToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.tokens[token]
	if !ok {
		return nil, model.ErrAdminTokenNotFound
	}
	out := *stored
	return &out, nil
}

func (s *Storage) DeleteAdminToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
