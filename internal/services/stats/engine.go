package stats

import (
	"time"

	"github.com/mcoot/tetris-showcase/internal/dependencies/clock"
	"github.com/mcoot/tetris-showcase/internal/model"
)

// Config holds the stats engine's windows and thresholds
type Config struct {
	ReactionWindow int           // Reaction times kept, oldest evicted first
	ReactionCutoff time.Duration // Gaps at or above this are idle time, not reactions
	DropWindow     int           // Inter-piece drop times kept
	Epsilon        time.Duration // Elapsed time below this yields zero rates
	LinesPerLevel  int
}

// DefaultConfig returns a 100 sample window with a 2s idle cutoff
func DefaultConfig() Config {
	return Config{
		ReactionWindow: 100,
		ReactionCutoff: 2000 * time.Millisecond,
		DropWindow:     100,
		Epsilon:        time.Millisecond,
		LinesPerLevel:  10,
	}
}

// Engine folds gameplay events into derived session statistics.
// It performs no I/O and is not safe for concurrent use.
type Engine struct {
	config Config
	clock  clock.Clock

	method       model.InputMethod
	sessionStart time.Time
	endedAt      time.Time // Zero while the session is running
	pausedAt     time.Time // Zero while not paused
	pausedTotal  time.Duration

	score         int
	level         int
	lines         int
	tetrises      int
	perfectClears int
	piecesPlaced  int
	keypresses    int
	validInputs   int
	errors        int

	lastInput     time.Time
	lastPiece     time.Time
	reactionTimes []time.Duration
	reactionCount int
	reactionSum   time.Duration
	bestReaction  time.Duration
	worstReaction time.Duration
	dropTimes     []time.Duration

	firstTetris *time.Duration
	streak      int
	bestStreak  int
	patterns    map[model.Command]int
}

// New creates a stats engine whose session starts now
func New(config Config, clock clock.Clock) *Engine {
	defaults := DefaultConfig()
	if config.ReactionWindow <= 0 {
		config.ReactionWindow = defaults.ReactionWindow
	}
	if config.ReactionCutoff <= 0 {
		config.ReactionCutoff = defaults.ReactionCutoff
	}
	if config.DropWindow <= 0 {
		config.DropWindow = defaults.DropWindow
	}
	if config.Epsilon <= 0 {
		config.Epsilon = defaults.Epsilon
	}
	if config.LinesPerLevel <= 0 {
		config.LinesPerLevel = defaults.LinesPerLevel
	}

	e := &Engine{
		config: config,
		clock:  clock,
		method: model.InputKeyboard,
	}
	e.Reset()
	return e
}

// Reset discards every counter and history and starts a new session now
func (e *Engine) Reset() {
	now := e.clock.Now()
	method := e.method

	*e = Engine{
		config:       e.config,
		clock:        e.clock,
		method:       method,
		sessionStart: now,
		level:        1,
		patterns:     make(map[model.Command]int),
	}
}

// SetInputMethod records the device the player is using
func (e *Engine) SetInputMethod(method model.InputMethod) {
	if method != "" {
		e.method = method
	}
}

// Observe folds an engine event into the statistics
func (e *Engine) Observe(event model.Event) {
	at := event.Timestamp
	if at.IsZero() {
		at = e.clock.Now()
	}

	switch event.Type {
	case model.EventInput:
		if p, ok := event.Payload.(model.InputPayload); ok {
			if p.Method != "" {
				e.SetInputMethod(p.Method)
			}
			e.recordInput(at, p.Command, p.Valid)
		}
	case model.EventPieceLocked:
		e.recordPiecePlaced(at)
	case model.EventLinesCleared:
		if p, ok := event.Payload.(model.LinesClearedPayload); ok {
			e.recordLinesCleared(at, p.Count, p.IsTetris, p.IsPerfectClear)
		}
	case model.EventScoreGained:
		if p, ok := event.Payload.(model.ScoreGainedPayload); ok {
			e.RecordScore(p.Amount)
		}
	case model.EventPaused:
		e.pause(at)
	case model.EventResumed:
		e.resume(at)
	case model.EventGameOver:
		e.finish(at)
	case model.EventReset:
		e.Reset()
	}
}

// RecordInput counts a player input and samples the time since the previous one
func (e *Engine) RecordInput(kind model.Command, valid bool) {
	e.recordInput(e.clock.Now(), kind, valid)
}

func (e *Engine) recordInput(at time.Time, kind model.Command, valid bool) {
	e.keypresses++
	e.patterns[kind]++
	if valid {
		e.validInputs++
	} else {
		e.errors++
	}

	if !e.lastInput.IsZero() {
		delta := at.Sub(e.lastInput)
		if delta >= 0 && delta < e.config.ReactionCutoff {
			e.addReaction(delta)
		}
	}
	e.lastInput = at
}

func (e *Engine) addReaction(delta time.Duration) {
	e.reactionTimes = appendBounded(e.reactionTimes, delta, e.config.ReactionWindow)
	e.reactionCount++
	e.reactionSum += delta
	if e.reactionCount == 1 || delta < e.bestReaction {
		e.bestReaction = delta
	}
	if delta > e.worstReaction {
		e.worstReaction = delta
	}
}

// RecordPiecePlaced counts a locked piece and samples the time since the previous lock
func (e *Engine) RecordPiecePlaced() {
	e.recordPiecePlaced(e.clock.Now())
}

func (e *Engine) recordPiecePlaced(at time.Time) {
	e.piecesPlaced++
	// Drop times are gaps between locks; the first lock has nothing to measure from
	if !e.lastPiece.IsZero() {
		e.dropTimes = appendBounded(e.dropTimes, max(at.Sub(e.lastPiece), 0), e.config.DropWindow)
	}
	e.lastPiece = at
}

// RecordLinesCleared accumulates a clear and tracks tetris streaks
func (e *Engine) RecordLinesCleared(count int, isTetris, isPerfectClear bool) {
	e.recordLinesCleared(e.clock.Now(), count, isTetris, isPerfectClear)
}

func (e *Engine) recordLinesCleared(at time.Time, count int, isTetris, isPerfectClear bool) {
	if count <= 0 {
		return
	}
	e.lines += count
	e.level = e.lines/e.config.LinesPerLevel + 1

	if isTetris {
		e.tetrises++
		e.streak++
		e.bestStreak = max(e.bestStreak, e.streak)
		if e.firstTetris == nil {
			elapsed := e.elapsedAt(at)
			e.firstTetris = &elapsed
		}
	} else {
		e.streak = 0
	}

	if isPerfectClear {
		e.perfectClears++
	}
}

// RecordScore adds a score delta
func (e *Engine) RecordScore(delta int) {
	e.score += delta
}

// Pause stops the session clock
func (e *Engine) Pause() {
	e.pause(e.clock.Now())
}

func (e *Engine) pause(at time.Time) {
	if e.pausedAt.IsZero() && e.endedAt.IsZero() {
		e.pausedAt = at
	}
}

// Resume restarts the session clock; time spent paused is excluded from elapsed time
func (e *Engine) Resume() {
	e.resume(e.clock.Now())
}

func (e *Engine) resume(at time.Time) {
	if e.pausedAt.IsZero() {
		return
	}
	e.pausedTotal += max(at.Sub(e.pausedAt), 0)
	e.pausedAt = time.Time{}
	// The first input after a pause is not a reaction to the previous one
	e.lastInput = time.Time{}
}

// Finish freezes the session clock at game over
func (e *Engine) Finish() {
	e.finish(e.clock.Now())
}

func (e *Engine) finish(at time.Time) {
	if !e.endedAt.IsZero() {
		return
	}
	e.resume(at)
	e.endedAt = at
}

// Elapsed returns session time so far, excluding pauses
func (e *Engine) Elapsed() time.Duration {
	return e.elapsedAt(e.clock.Now())
}

func (e *Engine) elapsedAt(at time.Time) time.Duration {
	if !e.endedAt.IsZero() {
		at = e.endedAt
	}
	if !e.pausedAt.IsZero() && e.pausedAt.Before(at) {
		at = e.pausedAt
	}
	return max(at.Sub(e.sessionStart)-e.pausedTotal, 0)
}

// perMinute divides count by elapsed minutes, returning 0 for degenerate elapsed time
func (e *Engine) perMinute(count int, elapsed time.Duration) float64 {
	if elapsed < e.config.Epsilon {
		return 0
	}
	return float64(count) / elapsed.Minutes()
}

// Snapshot returns a copy of the current statistics with rates computed against now
func (e *Engine) Snapshot() model.StatsSnapshot {
	elapsed := e.Elapsed()

	snapshot := model.StatsSnapshot{
		Score:                  e.score,
		Level:                  e.level,
		Lines:                  e.lines,
		Tetrises:               e.tetrises,
		PerfectClears:          e.perfectClears,
		PiecesPlaced:           e.piecesPlaced,
		Keypresses:             e.keypresses,
		Errors:                 e.errors,
		ReactionTimes:          e.reactionTimes,
		DropTimes:              e.dropTimes,
		BestReactionTime:       e.bestReaction,
		WorstReactionTime:      e.worstReaction,
		LinesPerMinute:         e.perMinute(e.lines, elapsed),
		PiecesPerMinute:        e.perMinute(e.piecesPlaced, elapsed),
		ScorePerMinute:         e.perMinute(e.score, elapsed),
		Intensity:              e.perMinute(e.keypresses, elapsed),
		InputAccuracy:          100,
		TimeToFirstTetris:      e.firstTetris,
		ConsecutiveTetrisCount: e.streak,
		BestTetrisStreak:       e.bestStreak,
		MovementPatterns:       e.patterns,
		InputMethod:            e.method,
		SessionStart:           e.sessionStart,
		Elapsed:                elapsed,
	}
	if e.reactionCount > 0 {
		snapshot.AverageReactionTime = e.reactionSum / time.Duration(e.reactionCount)
	}
	if e.keypresses > 0 {
		snapshot.InputAccuracy = float64(e.validInputs) / float64(e.keypresses) * 100
	}

	// Never hand out internal buffers
	return snapshot.Clone()
}

func appendBounded(values []time.Duration, v time.Duration, limit int) []time.Duration {
	values = append(values, v)
	if len(values) > limit {
		values = append(values[:0:0], values[len(values)-limit:]...)
	}
	return values
}

// EngineInterface for dependency injection
type EngineInterface interface {
	Observe(event model.Event)
	RecordInput(kind model.Command, valid bool)
	RecordPiecePlaced()
	RecordLinesCleared(count int, isTetris, isPerfectClear bool)
	RecordScore(delta int)
	SetInputMethod(method model.InputMethod)
	Pause()
	Resume()
	Finish()
	Elapsed() time.Duration
	Snapshot() model.StatsSnapshot
	Reset()
}

var _ EngineInterface = (*Engine)(nil)
