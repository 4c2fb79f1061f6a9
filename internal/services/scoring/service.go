package scoring

import (
	"fmt"
	"time"
)

// Mode selects how line clears are scored
type Mode string

const (
	// ModeFlat awards 100 per line and 1000 for a tetris
	ModeFlat Mode = "flat"
	// ModeLevel multiplies the flat award by the level before the clear
	ModeLevel Mode = "level"
)

// ParseMode converts a config string to a Mode, defaulting empty input to flat
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFlat:
		return ModeFlat, nil
	case ModeLevel:
		return ModeLevel, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
}

const (
	pointsPerLine   = 100
	pointsPerTetris = 1000
	linesPerLevel   = 10
)

// Config holds scoring and gravity settings
type Config struct {
	Mode         Mode
	BaseInterval time.Duration // Gravity interval at level 0
	LevelStep    time.Duration // Interval reduction per level
	MinInterval  time.Duration // Fastest gravity interval
}

// DefaultConfig returns flat scoring with 1s gravity sped up 50ms per level
func DefaultConfig() Config {
	return Config{
		Mode:         ModeFlat,
		BaseInterval: 1000 * time.Millisecond,
		LevelStep:    50 * time.Millisecond,
		MinInterval:  50 * time.Millisecond,
	}
}

// Service computes scores, levels and gravity speed
type Service struct {
	config Config
}

// New creates a new scoring Service
func New(config Config) *Service {
	defaults := DefaultConfig()
	if config.Mode == "" {
		config.Mode = defaults.Mode
	}
	if config.BaseInterval <= 0 {
		config.BaseInterval = defaults.BaseInterval
	}
	if config.MinInterval <= 0 {
		config.MinInterval = defaults.MinInterval
	}
	return &Service{
		config: config,
	}
}

// Mode returns the configured scoring mode
func (s *Service) Mode() Mode {
	return s.config.Mode
}

// LineClearScore returns the points for clearing the given number of rows.
// level is the level in effect before the clear.
func (s *Service) LineClearScore(cleared, level int) int {
	if cleared <= 0 {
		return 0
	}
	points := cleared * pointsPerLine
	if cleared == 4 {
		points = pointsPerTetris
	}
	if s.config.Mode == ModeLevel {
		points *= max(level, 1)
	}
	return points
}

// Level returns the level for a running line total: one level per ten lines, starting at 1
func (s *Service) Level(totalLines int) int {
	if totalLines < 0 {
		totalLines = 0
	}
	return totalLines/linesPerLevel + 1
}

// GravityInterval returns how long a piece waits between automatic soft drops at a level
func (s *Service) GravityInterval(level int) time.Duration {
	interval := s.config.BaseInterval - time.Duration(level)*s.config.LevelStep
	return max(interval, s.config.MinInterval)
}

// Interface for dependency injection
type ServiceInterface interface {
	LineClearScore(cleared, level int) int
	Level(totalLines int) int
	GravityInterval(level int) time.Duration
}

var _ ServiceInterface = (*Service)(nil)
