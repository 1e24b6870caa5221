//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"idverify/internal/ocr"
	"idverify/internal/verification/models"
	"idverify/internal/verification/store/postgres"
	id "idverify/pkg/domain"
	"idverify/pkg/platform/sentinel"
	"idverify/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "verification_results"))
}

func newRecord(caller id.UserID, at time.Time) *models.Record {
	vid := id.NewVerificationID()
	return &models.Record{
		ID:         vid,
		CallerID:   caller,
		Bucket:     "ids",
		FrontPath:  "front.jpg",
		DocTypeKey: "philid",
		Result: models.Result{
			ID:            vid,
			CallerID:      caller,
			Accepted:      true,
			PrimarySource: ocr.SlotFront,
			FailedImages:  []ocr.Slot{},
			EvaluatedAt:   at,
		},
		CreatedAt: at,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	rec := newRecord(id.UserID(uuid.New()), time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Append(ctx, rec))

	got, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.CallerID, got.CallerID)
	s.True(got.Result.Accepted)
	s.True(rec.CreatedAt.Equal(got.CreatedAt))
}

func (s *PostgresStoreSuite) TestDuplicateAppendConflicts() {
	ctx := context.Background()
	rec := newRecord(id.UserID(uuid.New()), time.Now())
	s.Require().NoError(s.store.Append(ctx, rec))
	s.ErrorIs(s.store.Append(ctx, rec), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestRowsCannotBeUpdated() {
	ctx := context.Background()
	rec := newRecord(id.UserID(uuid.New()), time.Now())
	s.Require().NoError(s.store.Append(ctx, rec))

	_, err := s.postgres.Exec(ctx, `UPDATE verification_results SET accepted = false WHERE id = $1`, uuid.UUID(rec.ID))
	s.Error(err)
}

func (s *PostgresStoreSuite) TestListByCallerNewestFirst() {
	ctx := context.Background()
	caller := id.UserID(uuid.New())
	base := time.Now().UTC().Truncate(time.Second)
	older := newRecord(caller, base)
	newer := newRecord(caller, base.Add(time.Minute))
	s.Require().NoError(s.store.Append(ctx, older))
	s.Require().NoError(s.store.Append(ctx, newer))
	s.Require().NoError(s.store.Append(ctx, newRecord(id.UserID(uuid.New()), base)))

	got, err := s.store.ListByCaller(ctx, caller, 10)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(newer.ID, got[0].ID)
	s.Equal(older.ID, got[1].ID)
}

func (s *PostgresStoreSuite) TestFindUnknown() {
	_, err := s.store.FindByID(context.Background(), id.NewVerificationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
