package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/tetris-showcase/internal/dependencies/clock"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/storage"
)

// DefaultListLimit is used when a caller does not ask for a specific page size
const DefaultListLimit = 50

// Service manages finished-game records
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	newID   func() model.RecordID
}

// New creates a new leaderboard Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "leaderboard")),
		newID: func() model.RecordID {
			return model.RecordID(uuid.NewString())
		},
	}
}

func validate(record *model.LeaderboardRecord) error {
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return fmt.Errorf("%w: %w", model.ErrInvalidRecord, model.ErrPlayerNameRequired)
	}
	if record.Score < 0 || record.Lines < 0 || record.Level < 0 {
		return fmt.Errorf("%w: negative counters", model.ErrInvalidRecord)
	}
	switch record.GameMode {
	case "":
		record.GameMode = model.GameModeSingle
	case model.GameModeSingle, model.GameModeMultiplayer:
	default:
		return fmt.Errorf("%w: unknown game mode %q", model.ErrInvalidRecord, record.GameMode)
	}
	return nil
}

// Submit stores a new record, assigning its id and timestamp
func (s *Service) Submit(ctx context.Context, record *model.LeaderboardRecord) (*model.LeaderboardRecord, error) {
	if err := validate(record); err != nil {
		return nil, err
	}
	record.ID = s.newID()
	if record.Timestamp.IsZero() {
		record.Timestamp = s.clock.Now()
	}

	if err := s.storage.SaveRecord(ctx, record); err != nil {
		s.logger.Error("failed to save record",
			slog.String("record_id", string(record.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("record submitted",
		slog.String("record_id", string(record.ID)),
		slog.String("name", record.Name),
		slog.Int("score", record.Score),
	)
	return record, nil
}

// RecordFromSnapshot builds an unsaved record from a player's final stats
func (s *Service) RecordFromSnapshot(profile model.PlayerProfile, mode model.GameMode, final model.StatsSnapshot) *model.LeaderboardRecord {
	return model.NewLeaderboardRecord(profile, mode, final, s.clock.Now())
}

// SubmitGameOver records a finished game. Failures are logged, never returned.
func (s *Service) SubmitGameOver(ctx context.Context, sessionID model.SessionID, mode model.GameMode, profile model.PlayerProfile, final model.StatsSnapshot) {
	if final.InputMethod == model.InputBot {
		s.logger.Info("skipping autoplayed game",
			slog.String("session_id", string(sessionID)),
			slog.String("player", profile.Name),
		)
		return
	}

	record := s.RecordFromSnapshot(profile, mode, final)
	if _, err := s.Submit(ctx, record); err != nil {
		s.logger.Error("failed to submit finished game",
			slog.String("session_id", string(sessionID)),
			slog.String("player", profile.Name),
			slog.String("error", err.Error()),
		)
	}
}

// Get retrieves a record by id
func (s *Service) Get(ctx context.Context, id model.RecordID) (*model.LeaderboardRecord, error) {
	return s.storage.GetRecord(ctx, id)
}

// List returns the top records by score. A limit of zero or less uses DefaultListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]*model.LeaderboardRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.storage.ListRecords(ctx, limit)
}

// Update replaces an existing record, keeping its id
func (s *Service) Update(ctx context.Context, id model.RecordID, record *model.LeaderboardRecord) (*model.LeaderboardRecord, error) {
	existing, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validate(record); err != nil {
		return nil, err
	}
	record.ID = existing.ID
	if record.Timestamp.IsZero() {
		record.Timestamp = existing.Timestamp
	}

	if err := s.storage.SaveRecord(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("record updated", slog.String("record_id", string(id)))
	return record, nil
}

// Delete removes a record
func (s *Service) Delete(ctx context.Context, id model.RecordID) error {
	if err := s.storage.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", slog.String("record_id", string(id)))
	return nil
}

// Stats aggregates every stored record
func (s *Service) Stats(ctx context.Context) (*model.LeaderboardStats, error) {
	records, err := s.storage.ListRecords(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &model.LeaderboardStats{TotalPlayers: len(records)}
	for _, record := range records {
		stats.TotalScore += record.Score
		stats.TopScore = max(stats.TopScore, record.Score)
	}
	if len(records) > 0 {
		stats.AverageScore = float64(stats.TotalScore) / float64(len(records))
	}
	return stats, nil
}

// Export dumps every record, highest score first
func (s *Service) Export(ctx context.Context) (*model.LeaderboardExport, error) {
	records, err := s.storage.ListRecords(ctx, 0)
	if err != nil {
		return nil, err
	}
	return &model.LeaderboardExport{
		Timestamp:    s.clock.Now(),
		TotalRecords: len(records),
		Data:         records,
	}, nil
}

// ClearAll deletes every record and returns how many were removed
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	count, err := s.storage.DeleteAllRecords(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("leaderboard cleared", slog.Int("deleted", count))
	return count, nil
}

// ServiceInterface for dependency injection
type ServiceInterface interface {
	Submit(ctx context.Context, record *model.LeaderboardRecord) (*model.LeaderboardRecord, error)
	Get(ctx context.Context, id model.RecordID) (*model.LeaderboardRecord, error)
	List(ctx context.Context, limit int) ([]*model.LeaderboardRecord, error)
	Update(ctx context.Context, id model.RecordID, record *model.LeaderboardRecord) (*model.LeaderboardRecord, error)
	Delete(ctx context.Context, id model.RecordID) error
	Stats(ctx context.Context) (*model.LeaderboardStats, error)
	Export(ctx context.Context) (*model.LeaderboardExport, error)
	ClearAll(ctx context.Context) (int, error)
}

var _ ServiceInterface = (*Service)(nil)
