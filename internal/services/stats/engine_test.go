package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetris-showcase/internal/dependencies/mocks"
	"github.com/mcoot/tetris-showcase/internal/model"
)

type EngineSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.engine = New(DefaultConfig(), s.clock)
}

func (s *EngineSuite) event(eventType model.EventType, payload any) model.Event {
	return model.Event{Type: eventType, Timestamp: s.clock.Now(), Payload: payload}
}

// Defaults

func (s *EngineSuite) TestFreshSnapshotHasNoDataSentinels() {
	snap := s.engine.Snapshot()

	s.Equal(1, snap.Level)
	s.Equal(0, snap.Score)
	s.Equal(100.0, snap.InputAccuracy)
	s.Zero(snap.AverageReactionTime)
	s.Zero(snap.BestReactionTime)
	s.Zero(snap.WorstReactionTime)
	s.Zero(snap.LinesPerMinute)
	s.Zero(snap.Intensity)
	s.Nil(snap.TimeToFirstTetris)
	s.Empty(snap.ReactionTimes)
	s.NotNil(snap.MovementPatterns)
	s.Equal(model.InputKeyboard, snap.InputMethod)
}

// RecordInput tests

func (s *EngineSuite) TestAccuracyAndErrors() {
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(100)
	s.engine.RecordInput(model.CommandMoveLeft, false)

	snap := s.engine.Snapshot()
	s.Equal(50.0, snap.InputAccuracy)
	s.Equal(1, snap.Errors)
	s.Equal(2, snap.Keypresses)
	s.Equal(2, snap.MovementPatterns[model.CommandMoveLeft])
}

func (s *EngineSuite) TestReactionTimeIsTimeSincePreviousInput() {
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(300)
	s.engine.RecordInput(model.CommandRotate, true)
	s.clock.AdvanceMillis(100)
	s.engine.RecordInput(model.CommandMoveRight, true)

	snap := s.engine.Snapshot()
	s.Equal([]time.Duration{300 * time.Millisecond, 100 * time.Millisecond}, snap.ReactionTimes)
	s.Equal(100*time.Millisecond, snap.BestReactionTime)
	s.Equal(300*time.Millisecond, snap.WorstReactionTime)
	s.Equal(200*time.Millisecond, snap.AverageReactionTime)
}

func (s *EngineSuite) TestReactionAtCutoffIsDiscarded() {
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(500)
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(2000)
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(5000)
	s.engine.RecordInput(model.CommandMoveLeft, true)

	snap := s.engine.Snapshot()
	s.Equal([]time.Duration{500 * time.Millisecond}, snap.ReactionTimes)
	s.Equal(500*time.Millisecond, snap.WorstReactionTime)
	s.Equal(500*time.Millisecond, snap.AverageReactionTime)
	s.Equal(4, snap.Keypresses)
}

func (s *EngineSuite) TestReactionHistoryIsBounded() {
	engine := New(Config{ReactionWindow: 3}, s.clock)
	engine.RecordInput(model.CommandMoveLeft, true)
	for i := 1; i <= 5; i++ {
		s.clock.AdvanceMillis(i * 10)
		engine.RecordInput(model.CommandMoveLeft, true)
	}

	snap := engine.Snapshot()
	s.Equal([]time.Duration{30 * time.Millisecond, 40 * time.Millisecond, 50 * time.Millisecond}, snap.ReactionTimes)
	// Aggregates cover every accepted sample, not just the window
	s.Equal(10*time.Millisecond, snap.BestReactionTime)
	s.Equal(30*time.Millisecond, snap.AverageReactionTime)
}

func (s *EngineSuite) TestIntensityIsKeypressesPerMinute() {
	for i := 0; i < 30; i++ {
		s.engine.RecordInput(model.CommandRotate, true)
		s.clock.AdvanceMillis(1000)
	}

	snap := s.engine.Snapshot()
	s.InDelta(60.0, snap.Intensity, 0.001)
}

// RecordPiecePlaced tests

func (s *EngineSuite) TestPiecePlacedAtZeroElapsedHasZeroRate() {
	s.engine.RecordPiecePlaced()

	snap := s.engine.Snapshot()
	s.Equal(1, snap.PiecesPlaced)
	s.Zero(snap.PiecesPerMinute)
	s.False(math.IsInf(snap.PiecesPerMinute, 0))
	s.False(math.IsNaN(snap.PiecesPerMinute))
}

func (s *EngineSuite) TestThroughputPerMinute() {
	s.clock.Advance(30 * time.Second)
	s.engine.RecordPiecePlaced()
	s.engine.RecordLinesCleared(2, false, false)
	s.engine.RecordScore(200)
	s.clock.Advance(30 * time.Second)
	s.engine.RecordPiecePlaced()

	snap := s.engine.Snapshot()
	s.InDelta(2.0, snap.PiecesPerMinute, 0.001)
	s.InDelta(2.0, snap.LinesPerMinute, 0.001)
	s.InDelta(200.0, snap.ScorePerMinute, 0.001)
	s.Equal([]time.Duration{30 * time.Second}, snap.DropTimes)
}

func (s *EngineSuite) TestFirstPieceRecordsNoDropTime() {
	s.clock.Advance(30 * time.Second)
	s.engine.RecordPiecePlaced()
	s.Empty(s.engine.Snapshot().DropTimes)

	s.clock.AdvanceMillis(800)
	s.engine.RecordPiecePlaced()
	s.Equal([]time.Duration{800 * time.Millisecond}, s.engine.Snapshot().DropTimes)

	s.engine.Reset()
	s.clock.Advance(time.Second)
	s.engine.RecordPiecePlaced()
	s.Empty(s.engine.Snapshot().DropTimes)
}

// RecordLinesCleared tests

func (s *EngineSuite) TestTetrisStreakResetsOnSingle() {
	s.engine.RecordLinesCleared(4, true, false)
	s.engine.RecordLinesCleared(4, true, false)
	s.Equal(2, s.engine.Snapshot().ConsecutiveTetrisCount)

	s.engine.RecordLinesCleared(1, false, false)
	snap := s.engine.Snapshot()
	s.Equal(0, snap.ConsecutiveTetrisCount)
	s.Equal(2, snap.BestTetrisStreak)
	s.Equal(2, snap.Tetrises)
	s.Equal(9, snap.Lines)
}

func (s *EngineSuite) TestTimeToFirstTetrisIsRecordedOnce() {
	s.clock.Advance(10 * time.Second)
	s.engine.RecordLinesCleared(4, true, false)
	s.clock.Advance(10 * time.Second)
	s.engine.RecordLinesCleared(4, true, false)

	snap := s.engine.Snapshot()
	s.Require().NotNil(snap.TimeToFirstTetris)
	s.Equal(10*time.Second, *snap.TimeToFirstTetris)
}

func (s *EngineSuite) TestLevelFollowsLines() {
	for i := 0; i < 9; i++ {
		s.engine.RecordLinesCleared(1, false, false)
	}
	s.Equal(1, s.engine.Snapshot().Level)
	s.engine.RecordLinesCleared(3, false, false)
	s.Equal(2, s.engine.Snapshot().Level)
}

func (s *EngineSuite) TestPerfectClearCounted() {
	s.engine.RecordLinesCleared(2, false, true)
	s.Equal(1, s.engine.Snapshot().PerfectClears)
}

// Pause tests

func (s *EngineSuite) TestPausedTimeExcludedFromElapsed() {
	s.clock.Advance(time.Minute)
	s.engine.Pause()
	s.clock.Advance(10 * time.Minute)
	s.Equal(time.Minute, s.engine.Elapsed())

	s.engine.Resume()
	s.clock.Advance(time.Minute)
	s.engine.RecordPiecePlaced()
	s.engine.RecordPiecePlaced()

	snap := s.engine.Snapshot()
	s.Equal(2*time.Minute, snap.Elapsed)
	s.InDelta(1.0, snap.PiecesPerMinute, 0.001)
}

func (s *EngineSuite) TestFinishFreezesElapsed() {
	s.clock.Advance(time.Minute)
	s.engine.Finish()
	s.clock.Advance(time.Hour)
	s.Equal(time.Minute, s.engine.Snapshot().Elapsed)
}

// Snapshot tests

func (s *EngineSuite) TestSnapshotDoesNotExposeBuffers() {
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(200)
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.engine.RecordLinesCleared(4, true, false)

	snap := s.engine.Snapshot()
	snap.ReactionTimes[0] = time.Hour
	snap.MovementPatterns[model.CommandMoveLeft] = 99
	*snap.TimeToFirstTetris = time.Hour

	fresh := s.engine.Snapshot()
	s.Equal(200*time.Millisecond, fresh.ReactionTimes[0])
	s.Equal(2, fresh.MovementPatterns[model.CommandMoveLeft])
	s.NotEqual(time.Hour, *fresh.TimeToFirstTetris)
}

// Reset tests

func (s *EngineSuite) TestResetRestoresDefaults() {
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.clock.AdvanceMillis(200)
	s.engine.RecordInput(model.CommandRotate, false)
	s.engine.RecordPiecePlaced()
	s.engine.RecordLinesCleared(4, true, true)
	s.engine.RecordScore(1000)
	s.clock.Advance(time.Minute)

	s.engine.Reset()
	snap := s.engine.Snapshot()

	s.Equal(0, snap.Score)
	s.Equal(1, snap.Level)
	s.Equal(0, snap.Lines)
	s.Equal(0, snap.Tetrises)
	s.Equal(0, snap.PerfectClears)
	s.Equal(0, snap.PiecesPlaced)
	s.Equal(0, snap.Keypresses)
	s.Equal(0, snap.Errors)
	s.Equal(100.0, snap.InputAccuracy)
	s.Empty(snap.ReactionTimes)
	s.Empty(snap.DropTimes)
	s.Empty(snap.MovementPatterns)
	s.Zero(snap.BestReactionTime)
	s.Nil(snap.TimeToFirstTetris)
	s.Equal(0, snap.ConsecutiveTetrisCount)
	s.Equal(s.clock.Now(), snap.SessionStart)

	// The first input after a reset has no previous input to react to
	s.engine.RecordInput(model.CommandMoveLeft, true)
	s.Empty(s.engine.Snapshot().ReactionTimes)
}

// Observe tests

func (s *EngineSuite) TestObserveFoldsEngineEvents() {
	s.engine.Observe(s.event(model.EventInput, model.InputPayload{Command: model.CommandMoveLeft, Valid: true}))
	s.clock.AdvanceMillis(150)
	s.engine.Observe(s.event(model.EventInput, model.InputPayload{Command: model.CommandHardDrop, Valid: true, Method: model.InputGamepad}))
	s.engine.Observe(s.event(model.EventPieceLocked, model.PieceLockedPayload{Shape: model.ShapeI, PiecesPlaced: 1}))
	s.engine.Observe(s.event(model.EventLinesCleared, model.LinesClearedPayload{Count: 4, IsTetris: true}))
	s.engine.Observe(s.event(model.EventScoreGained, model.ScoreGainedPayload{Amount: 1000, Total: 1000}))
	s.engine.Observe(s.event(model.EventPieceSpawned, model.PieceSpawnedPayload{Shape: model.ShapeO}))

	snap := s.engine.Snapshot()
	s.Equal(2, snap.Keypresses)
	s.Equal([]time.Duration{150 * time.Millisecond}, snap.ReactionTimes)
	s.Equal(1, snap.PiecesPlaced)
	s.Equal(4, snap.Lines)
	s.Equal(1, snap.Tetrises)
	s.Equal(1000, snap.Score)
	s.Equal(model.InputGamepad, snap.InputMethod)
}

func (s *EngineSuite) TestObservePauseResumeAndGameOver() {
	s.clock.Advance(time.Minute)
	s.engine.Observe(s.event(model.EventPaused, nil))
	s.clock.Advance(time.Minute)
	s.engine.Observe(s.event(model.EventResumed, nil))
	s.clock.Advance(time.Minute)
	s.engine.Observe(s.event(model.EventGameOver, model.GameOverPayload{}))
	s.clock.Advance(time.Minute)

	s.Equal(2*time.Minute, s.engine.Snapshot().Elapsed)
}

func (s *EngineSuite) TestObserveReset() {
	s.engine.RecordScore(500)
	s.engine.Observe(s.event(model.EventReset, nil))
	s.Equal(0, s.engine.Snapshot().Score)
}
