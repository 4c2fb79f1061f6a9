package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetris-showcase/internal/dependencies/mocks"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/storage/memory"
	"github.com/mcoot/tetris-showcase/internal/testutil"
)

type failingStorage struct {
	*memory.Storage
}

func (f failingStorage) SaveRecord(ctx context.Context, record *model.LeaderboardRecord) error {
	return errors.New("disk full")
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) submit(name string, score int) *model.LeaderboardRecord {
	record, err := s.service.Submit(s.ctx, &model.LeaderboardRecord{Name: name, Score: score})
	s.Require().NoError(err)
	return record
}

// Submit tests

func (s *ServiceSuite) TestSubmitAssignsIDAndTimestamp() {
	record := s.submit("alice", 1200)

	_, err := uuid.Parse(string(record.ID))
	s.NoError(err)
	s.Equal(s.clock.Now(), record.Timestamp)
	s.Equal(model.GameModeSingle, record.GameMode)

	stored, err := s.service.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(1200, stored.Score)
}

func (s *ServiceSuite) TestSubmitRequiresName() {
	_, err := s.service.Submit(s.ctx, &model.LeaderboardRecord{Name: "  ", Score: 10})
	s.ErrorIs(err, model.ErrInvalidRecord)
	s.ErrorIs(err, model.ErrPlayerNameRequired)
}

func (s *ServiceSuite) TestSubmitRejectsNegativeScore() {
	_, err := s.service.Submit(s.ctx, &model.LeaderboardRecord{Name: "alice", Score: -1})
	s.ErrorIs(err, model.ErrInvalidRecord)
}

func (s *ServiceSuite) TestSubmitRejectsUnknownMode() {
	_, err := s.service.Submit(s.ctx, &model.LeaderboardRecord{Name: "alice", GameMode: "coop"})
	s.ErrorIs(err, model.ErrInvalidRecord)
}

// SubmitGameOver tests

func (s *ServiceSuite) TestSubmitGameOverBuildsRecordFromStats() {
	final := model.StatsSnapshot{
		Score:               2300,
		Level:               3,
		Lines:               21,
		Tetrises:            2,
		PiecesPlaced:        60,
		AverageReactionTime: 180 * time.Millisecond,
		InputAccuracy:       95,
		Intensity:           120,
		LinesPerMinute:      7,
		PiecesPerMinute:     20,
		Elapsed:             3 * time.Minute,
	}
	profile := model.PlayerProfile{Name: "alice", Email: "a@example.com", Company: "Acme", RealName: "Alice A"}

	s.service.SubmitGameOver(s.ctx, "SESSION1", model.GameModeMultiplayer, profile, final)

	records, err := s.service.List(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	r := records[0]
	s.Equal("alice", r.Name)
	s.Equal("Acme", r.Company)
	s.Equal("Alice A", r.RealName)
	s.Equal(2300, r.Score)
	s.Equal(2, r.Tetrises)
	s.Equal(180*time.Millisecond, r.AverageReactionTime)
	s.Equal(3*time.Minute, r.GameDuration)
	s.Equal(model.GameModeMultiplayer, r.GameMode)
	s.Equal(s.clock.Now(), r.Timestamp)
}

func (s *ServiceSuite) TestSubmitGameOverSkipsAutoplayedGames() {
	final := model.StatsSnapshot{Score: 900, InputMethod: model.InputBot}

	s.service.SubmitGameOver(s.ctx, "SESSION1", model.GameModeSingle, model.PlayerProfile{Name: "demo"}, final)

	records, err := s.service.List(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *ServiceSuite) TestSubmitGameOverSwallowsStorageErrors() {
	service := New(failingStorage{s.storage}, s.clock, testutil.NopLogger())
	s.NotPanics(func() {
		service.SubmitGameOver(s.ctx, "SESSION1", model.GameModeSingle, model.PlayerProfile{Name: "alice"}, model.StatsSnapshot{})
	})
}

// List tests

func (s *ServiceSuite) TestListOrderedByScore() {
	s.submit("alice", 300)
	s.submit("bob", 1500)
	s.submit("carol", 800)

	records, err := s.service.List(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("bob", records[0].Name)
	s.Equal("carol", records[1].Name)
}

// Update tests

func (s *ServiceSuite) TestUpdateKeepsIDAndTimestamp() {
	original := s.submit("alice", 300)
	s.clock.Advance(time.Hour)

	updated, err := s.service.Update(s.ctx, original.ID, &model.LeaderboardRecord{Name: "alice", Score: 900, Company: "Acme"})
	s.Require().NoError(err)
	s.Equal(original.ID, updated.ID)
	s.Equal(original.Timestamp, updated.Timestamp)

	stored, _ := s.service.Get(s.ctx, original.ID)
	s.Equal(900, stored.Score)
	s.Equal("Acme", stored.Company)
}

func (s *ServiceSuite) TestUpdateNotFound() {
	_, err := s.service.Update(s.ctx, "missing", &model.LeaderboardRecord{Name: "alice"})
	s.ErrorIs(err, model.ErrRecordNotFound)
}

// Delete tests

func (s *ServiceSuite) TestDelete() {
	record := s.submit("alice", 300)
	s.Require().NoError(s.service.Delete(s.ctx, record.ID))

	_, err := s.service.Get(s.ctx, record.ID)
	s.ErrorIs(err, model.ErrRecordNotFound)
	s.ErrorIs(s.service.Delete(s.ctx, record.ID), model.ErrRecordNotFound)
}

// Admin aggregate tests

func (s *ServiceSuite) TestStats() {
	s.submit("alice", 300)
	s.submit("bob", 1500)
	s.submit("carol", 800)

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, stats.TotalPlayers)
	s.Equal(2600, stats.TotalScore)
	s.InDelta(866.67, stats.AverageScore, 0.01)
	s.Equal(1500, stats.TopScore)
}

func (s *ServiceSuite) TestStatsEmpty() {
	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.LeaderboardStats{}, *stats)
}

func (s *ServiceSuite) TestExport() {
	s.submit("alice", 300)
	s.submit("bob", 1500)
	s.clock.Advance(time.Minute)

	export, err := s.service.Export(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, export.TotalRecords)
	s.Equal(s.clock.Now(), export.Timestamp)
	s.Equal("bob", export.Data[0].Name)
}

func (s *ServiceSuite) TestClearAll() {
	s.submit("alice", 300)
	s.submit("bob", 1500)

	count, err := s.service.ClearAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	records, _ := s.service.List(s.ctx, 0)
	s.Empty(records)
}
