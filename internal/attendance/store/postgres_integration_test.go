//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"geomark/internal/attendance/models"
	"geomark/internal/attendance/store"
	"geomark/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	store *store.PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	pool := containers.StartPostgres(s.T())
	s.store = store.NewPostgres(pool)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresStoreSuite) newRecord(userID *string, ts int64) *models.Record {
	return &models.Record{
		UserID:         userID,
		Timestamp:      ts,
		Latitude:       12.801473,
		Longitude:      80.223728,
		Distance:       12.0,
		Confidence:     0.9,
		StagedFilename: "1700000000_ab12cd34_selfie.jpg",
	}
}

func (s *PostgresStoreSuite) TestAppendAndRecent() {
	userID := "user42"

	first, err := s.store.Append(s.ctx, s.newRecord(&userID, 1700000000))
	s.Require().NoError(err)
	second, err := s.store.Append(s.ctx, s.newRecord(nil, 1700000005))
	s.Require().NoError(err)
	s.Greater(second, first)

	recent, err := s.store.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(recent), 2)

	s.Equal(second, recent[0].ID)
	s.Nil(recent[0].UserID)
	s.Equal(first, recent[1].ID)
	s.Require().NotNil(recent[1].UserID)
	s.Equal("user42", *recent[1].UserID)
}

func (s *PostgresStoreSuite) TestRejectsInvalidRecord() {
	record := s.newRecord(nil, 1700000000)
	record.Distance = -1
	_, err := s.store.Append(s.ctx, record)
	s.Error(err)
}
