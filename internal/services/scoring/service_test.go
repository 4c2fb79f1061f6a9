package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(DefaultConfig())
}

func (s *ServiceSuite) TestParseMode() {
	mode, err := ParseMode("")
	s.Require().NoError(err)
	s.Equal(ModeFlat, mode)

	mode, err = ParseMode("level")
	s.Require().NoError(err)
	s.Equal(ModeLevel, mode)

	_, err = ParseMode("combo")
	s.Error(err)
}

func (s *ServiceSuite) TestFlatLineClearScore() {
	s.Equal(0, s.service.LineClearScore(0, 1))
	s.Equal(100, s.service.LineClearScore(1, 1))
	s.Equal(200, s.service.LineClearScore(2, 5))
	s.Equal(300, s.service.LineClearScore(3, 1))
	s.Equal(1000, s.service.LineClearScore(4, 9))
}

func (s *ServiceSuite) TestLevelModeMultipliesByLevel() {
	service := New(Config{Mode: ModeLevel, BaseInterval: time.Second})
	s.Equal(300, service.LineClearScore(1, 3))
	s.Equal(2000, service.LineClearScore(4, 2))
	// Level 0 never zeroes the award
	s.Equal(100, service.LineClearScore(1, 0))
}

func (s *ServiceSuite) TestEmptyModeDefaultsToFlat() {
	service := New(Config{})
	s.Equal(ModeFlat, service.Mode())
}

func (s *ServiceSuite) TestLevel() {
	s.Equal(1, s.service.Level(0))
	s.Equal(1, s.service.Level(9))
	s.Equal(2, s.service.Level(10))
	s.Equal(3, s.service.Level(25))
	s.Equal(1, s.service.Level(-3))
}

func (s *ServiceSuite) TestGravityInterval() {
	s.Equal(950*time.Millisecond, s.service.GravityInterval(1))
	s.Equal(500*time.Millisecond, s.service.GravityInterval(10))
	s.Equal(50*time.Millisecond, s.service.GravityInterval(19))
	s.Equal(50*time.Millisecond, s.service.GravityInterval(40))
}
