//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/audits/models"
	"dealeraudit/internal/audits/store"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/testutil/containers"
)

type PostgresAuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	stores   store.Stores
}

func TestPostgresAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditStoreSuite))
}

func (s *PostgresAuditStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(store.EnsureSchema(context.Background(), s.postgres.DB))
	s.stores = store.NewPostgresStores(s.postgres.DB)
}

func (s *PostgresAuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audits"))
}

func newTestAudit(name string) *models.Audit {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Audit{
		ID:                     domain.NewAuditID(),
		Name:                   name,
		Status:                 models.StatusCreated,
		StartDate:              "2026-09-07",
		EndDate:                "2026-09-11",
		Installations:          []domain.InstallationID{domain.NewInstallationID()},
		InstallationExceptions: []domain.InstallationID{},
		Criterions:             []models.AuditCriterion{},
		AuditResponsables:      []domain.ResponsableID{domain.NewResponsableID()},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func (s *PostgresAuditStoreSuite) TestAuditRoundTrip() {
	ctx := context.Background()

	recorded := 4.5
	audit := newTestAudit("Q3 northern region")
	audit.Criterions = []models.AuditCriterion{
		{
			Criterion:  domain.NewCriterionID(),
			Exceptions: []domain.InstallationID{domain.NewInstallationID()},
			Value:      &recorded,
		},
		{
			Criterion:  domain.NewCriterionID(),
			Exceptions: []domain.InstallationID{},
		},
	}
	s.Require().NoError(s.stores.Audits.Create(ctx, audit))

	got, err := s.stores.Audits.FindByID(ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal(audit.Name, got.Name)
	s.Equal(models.StatusCreated, got.Status)
	s.Equal("2026-09-07", got.StartDate)
	s.Equal(audit.Installations, got.Installations)
	s.Equal(audit.AuditResponsables, got.AuditResponsables)

	// The criterion entries survive the jsonb column intact, recorded
	// value and per-entry exceptions included.
	s.Require().Len(got.Criterions, 2)
	s.Equal(audit.Criterions[0].Criterion, got.Criterions[0].Criterion)
	s.Require().NotNil(got.Criterions[0].Value)
	s.InDelta(4.5, *got.Criterions[0].Value, 1e-9)
	s.Equal(audit.Criterions[0].Exceptions, got.Criterions[0].Exceptions)
	s.Nil(got.Criterions[1].Value)
}

func (s *PostgresAuditStoreSuite) TestNameLookupIsCaseInsensitive() {
	ctx := context.Background()

	audit := newTestAudit("Annual Review")
	s.Require().NoError(s.stores.Audits.Create(ctx, audit))

	got, err := s.stores.Audits.FindByName(ctx, "annual review")
	s.Require().NoError(err)
	s.Equal(audit.ID, got.ID)

	_, err = s.stores.Audits.FindByName(ctx, "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresAuditStoreSuite) TestListByStatus() {
	ctx := context.Background()

	created := newTestAudit("still being drafted")
	s.Require().NoError(s.stores.Audits.Create(ctx, created))

	planned := newTestAudit("scheduled for autumn")
	planned.Status = models.StatusPlanned
	s.Require().NoError(s.stores.Audits.Create(ctx, planned))

	got, err := s.stores.Audits.ListByStatus(ctx, models.StatusPlanned)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(planned.ID, got[0].ID)

	all, err := s.stores.Audits.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostgresAuditStoreSuite) TestSavePersistsStatusAndValues() {
	ctx := context.Background()

	audit := newTestAudit("value capture")
	criterionID := domain.NewCriterionID()
	audit.Criterions = []models.AuditCriterion{{Criterion: criterionID, Exceptions: []domain.InstallationID{}}}
	s.Require().NoError(s.stores.Audits.Create(ctx, audit))

	audit.Status = models.StatusInProcess
	recorded := 3.0
	audit.Criterions[0].Value = &recorded
	s.Require().NoError(s.stores.Audits.Save(ctx, audit))

	got, err := s.stores.Audits.FindByID(ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInProcess, got.Status)
	s.Require().NotNil(got.Criterions[0].Value)
	s.InDelta(3.0, *got.Criterions[0].Value, 1e-9)
}

func (s *PostgresAuditStoreSuite) TestDelete() {
	ctx := context.Background()

	audit := newTestAudit("short lived")
	s.Require().NoError(s.stores.Audits.Create(ctx, audit))
	s.Require().NoError(s.stores.Audits.Delete(ctx, audit.ID))

	_, err := s.stores.Audits.FindByID(ctx, audit.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.stores.Audits.Delete(ctx, audit.ID), sentinel.ErrNotFound)
}
