// Package storagetest holds behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/storage"
)

// Suite runs the shared storage contract against a backend.
// Embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func record(id string, name string, score int) *model.LeaderboardRecord {
	return &model.LeaderboardRecord{
		ID:                  model.RecordID(id),
		Name:                name,
		Email:               name + "@example.com",
		Score:               score,
		Level:               score/1000 + 1,
		Lines:               score / 100,
		AverageReactionTime: 250 * time.Millisecond,
		InputAccuracy:       92.5,
		GameDuration:        3 * time.Minute,
		Timestamp:           time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		GameMode:            model.GameModeSingle,
	}
}

// Leaderboard tests

func (s *Suite) TestSaveAndGetRecord() {
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-1", "alice", 1200)))

	got, err := s.Storage.GetRecord(s.Ctx, "rec-1")
	s.Require().NoError(err)
	s.Equal("alice", got.Name)
	s.Equal("alice@example.com", got.Email)
	s.Equal(1200, got.Score)
	s.Equal(250*time.Millisecond, got.AverageReactionTime)
	s.Equal(92.5, got.InputAccuracy)
	s.Equal(model.GameModeSingle, got.GameMode)
	s.True(got.Timestamp.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func (s *Suite) TestGetRecordNotFound() {
	_, err := s.Storage.GetRecord(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrRecordNotFound)
}

func (s *Suite) TestSaveRecordOverwrites() {
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-1", "alice", 100)))
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-1", "alice", 900)))

	got, err := s.Storage.GetRecord(s.Ctx, "rec-1")
	s.Require().NoError(err)
	s.Equal(900, got.Score)

	all, err := s.Storage.ListRecords(s.Ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *Suite) TestListRecordsByScoreDescending() {
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-a", "alice", 300)))
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-b", "bob", 1500)))
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-c", "carol", 800)))
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-d", "dave", 800)))

	all, err := s.Storage.ListRecords(s.Ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	ids := make([]model.RecordID, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	s.Equal([]model.RecordID{"rec-b", "rec-d", "rec-c", "rec-a"}, ids)

	top, err := s.Storage.ListRecords(s.Ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.RecordID("rec-b"), top[0].ID)
}

func (s *Suite) TestListRecordsEmpty() {
	all, err := s.Storage.ListRecords(s.Ctx, 10)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *Suite) TestDeleteRecord() {
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-1", "alice", 100)))
	s.Require().NoError(s.Storage.DeleteRecord(s.Ctx, "rec-1"))

	_, err := s.Storage.GetRecord(s.Ctx, "rec-1")
	s.ErrorIs(err, model.ErrRecordNotFound)

	all, err := s.Storage.ListRecords(s.Ctx, 0)
	s.Require().NoError(err)
	s.Empty(all)

	s.ErrorIs(s.Storage.DeleteRecord(s.Ctx, "rec-1"), model.ErrRecordNotFound)
}

func (s *Suite) TestDeleteAllRecords() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record(fmt.Sprintf("rec-%d", i), "p", i*100)))
	}

	count, err := s.Storage.DeleteAllRecords(s.Ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	all, err := s.Storage.ListRecords(s.Ctx, 0)
	s.Require().NoError(err)
	s.Empty(all)

	count, err = s.Storage.DeleteAllRecords(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *Suite) TestReturnedRecordsAreCopies() {
	s.Require().NoError(s.Storage.SaveRecord(s.Ctx, record("rec-1", "alice", 100)))

	got, err := s.Storage.GetRecord(s.Ctx, "rec-1")
	s.Require().NoError(err)
	got.Score = 999999

	again, err := s.Storage.GetRecord(s.Ctx, "rec-1")
	s.Require().NoError(err)
	s.Equal(100, again.Score)
}

// Admin tests

func (s *Suite) TestSaveAndGetAdminAccount() {
	account := &model.AdminAccount{
		Username:     "admin",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.Storage.SaveAdminAccount(s.Ctx, account))

	got, err := s.Storage.GetAdminAccount(s.Ctx, "admin")
	s.Require().NoError(err)
	s.Equal("$2a$10$hash", got.PasswordHash)
}

func (s *Suite) TestGetAdminAccountNotFound() {
	_, err := s.Storage.GetAdminAccount(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrAdminNotFound)
}

// Admin token tests

func adminToken(value string) *model.AdminToken {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.AdminToken{Token: value, Username: "admin", CreatedAt: issued, ExpiresAt: issued.Add(24 * time.Hour)}
}

func (s *Suite) TestSaveAndGetAdminToken() {
	s.Require().NoError(s.Storage.SaveAdminToken(s.Ctx, adminToken("adm_one"), time.Hour))

	got, err := s.Storage.GetAdminToken(s.Ctx, "adm_one")
	s.Require().NoError(err)
	s.Equal("admin", got.Username)
	s.Equal(adminToken("adm_one").ExpiresAt, got.ExpiresAt.UTC())
}

func (s *Suite) TestGetAdminTokenNotFound() {
	_, err := s.Storage.GetAdminToken(s.Ctx, "adm_missing")
	s.ErrorIs(err, model.ErrAdminTokenNotFound)
}

func (s *Suite) TestDeleteAdminToken() {
	s.Require().NoError(s.Storage.SaveAdminToken(s.Ctx, adminToken("adm_one"), time.Hour))
	s.Require().NoError(s.Storage.SaveAdminToken(s.Ctx, adminToken("adm_two"), time.Hour))

	s.Require().NoError(s.Storage.DeleteAdminToken(s.Ctx, "adm_one"))
	s.Require().NoError(s.Storage.DeleteAdminToken(s.Ctx, "adm_one"))

	_, err := s.Storage.GetAdminToken(s.Ctx, "adm_one")
	s.ErrorIs(err, model.ErrAdminTokenNotFound)
	_, err = s.Storage.GetAdminToken(s.Ctx, "adm_two")
	s.NoError(err)
}
