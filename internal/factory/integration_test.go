package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/scoring"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Mock random always yields shape index 0, so every piece is an I stacked in the same columns
func (s *IntegrationSuite) playUntilGameOver(id model.SessionID, player int) *model.PlayerView {
	var view *model.PlayerView
	for i := 0; i < 100; i++ {
		s.app.MockClock.Advance(250 * time.Millisecond)
		v, _, err := s.app.SessionManager.Command(s.ctx, id, player, model.CommandHardDrop, model.InputKeyboard)
		s.Require().NoError(err)
		view = v
		if view.State.IsGameOver {
			return view
		}
	}
	s.FailNow("game never ended")
	return nil
}

// Test: a finished game is recorded on the leaderboard with its final stats
func (s *IntegrationSuite) TestGameOverLandsOnLeaderboard() {
	s.app.MockRandom.QueueString("GAME0001")

	created, err := s.app.SessionManager.Create(s.ctx, []model.PlayerProfile{
		{Name: "alice", Email: "alice@example.com", Company: "Acme"},
	})
	s.Require().NoError(err)
	s.Equal(model.GameModeSingle, created.Mode)

	final := s.playUntilGameOver(created.ID, 1)
	s.Equal(20, final.State.PiecesPlaced)
	s.Equal(0, final.State.Lines)

	records, err := s.app.LeaderboardService.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	record := records[0]
	s.Equal("alice", record.Name)
	s.Equal("Acme", record.Company)
	s.Equal(model.GameModeSingle, record.GameMode)
	s.Equal(20, record.PiecesPlaced)
	s.Equal(final.Stats.Score, record.Score)
	s.Equal(float64(100), record.InputAccuracy)
	s.Equal(250*time.Millisecond, record.AverageReactionTime)
	s.Equal(final.Stats.Elapsed, record.GameDuration)

	// Commands after game over change nothing and never record twice
	_, changed, err := s.app.SessionManager.Command(s.ctx, created.ID, 1, model.CommandHardDrop, model.InputKeyboard)
	s.Require().NoError(err)
	s.False(changed)

	records, err = s.app.LeaderboardService.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(records, 1)
}

// Test: each player in a multiplayer session gets their own record
func (s *IntegrationSuite) TestMultiplayerRecordsBothPlayers() {
	s.app.MockRandom.QueueString("GAME0002")

	created, err := s.app.SessionManager.Create(s.ctx, []model.PlayerProfile{
		{Name: "alice"},
		{Name: "bob"},
	})
	s.Require().NoError(err)
	s.Equal(model.GameModeMultiplayer, created.Mode)

	s.playUntilGameOver(created.ID, 1)
	s.playUntilGameOver(created.ID, 2)

	stats, err := s.app.LeaderboardService.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalPlayers)

	records, err := s.app.LeaderboardService.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	for _, r := range records {
		s.Equal(model.GameModeMultiplayer, r.GameMode)
	}
}

// Test: the configured scoring mode reaches the engines
func (s *IntegrationSuite) TestLevelScoringConfig() {
	app := NewTestApp(WithConfig(Config{ScoringConfig: scoring.Config{Mode: scoring.ModeLevel}}))
	s.Equal(scoring.ModeLevel, app.ScoringService.Mode())
}

// Test: an admin can log in once seeded
func (s *IntegrationSuite) TestAdminLogin() {
	s.Require().NoError(s.app.AuthService.EnsureAdmin(s.ctx, "admin", "correct-horse"))

	session, err := s.app.AuthService.Login(s.ctx, "admin", "correct-horse")
	s.Require().NoError(err)
	s.Equal("admin", session.Username)

	_, err = s.app.AuthService.Authenticate(s.ctx, session.Token)
	s.NoError(err)
}

// Test: live updates reach the websocket hub without a watcher attached
func (s *IntegrationSuite) TestPublishingWithoutWatchers() {
	s.app.MockRandom.QueueString("GAME0003")
	created, err := s.app.SessionManager.Create(s.ctx, []model.PlayerProfile{{Name: "carol"}})
	s.Require().NoError(err)

	_, changed, err := s.app.SessionManager.Command(s.ctx, created.ID, 1, model.CommandMoveLeft, model.InputKeyboard)
	s.Require().NoError(err)
	s.True(changed)
	s.Equal(0, s.app.WSHub.ClientCount(created.ID))
	s.Nil(s.app.HubManager.GetHub(created.ID))

	s.Require().NoError(s.app.SessionManager.End(s.ctx, created.ID))
}
