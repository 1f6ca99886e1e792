//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/internal/masterdata/store"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/testutil/containers"
)

type PostgresMasterDataSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	stores   store.Stores
}

func TestPostgresMasterDataSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresMasterDataSuite))
}

func (s *PostgresMasterDataSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(store.EnsureSchema(context.Background(), s.postgres.DB))
	s.stores = store.NewPostgresStores(s.postgres.DB)
}

func (s *PostgresMasterDataSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"installations", "dealerships", "installation_types", "criterion_types", "responsables")
	s.Require().NoError(err)
}

func (s *PostgresMasterDataSuite) newDealership(name string) *models.Dealership {
	ctx := context.Background()
	now := time.Now().UTC()
	d := &models.Dealership{
		ID:                  domain.NewDealershipID(),
		Name:                name,
		PostSaleDailyIncome: 1200,
		ReferentialSales:    350,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.Require().NoError(s.stores.Dealerships.Create(ctx, d))
	return d
}

func (s *PostgresMasterDataSuite) TestDealershipRoundTrip() {
	ctx := context.Background()

	dealership := s.newDealership("North Motors")

	got, err := s.stores.Dealerships.FindByID(ctx, dealership.ID)
	s.Require().NoError(err)
	s.Equal("North Motors", got.Name)
	s.InDelta(1200, got.PostSaleDailyIncome, 1e-9)
	s.InDelta(350, got.ReferentialSales, 1e-9)

	byName, err := s.stores.Dealerships.FindByName(ctx, "north motors")
	s.Require().NoError(err)
	s.Equal(dealership.ID, byName.ID)
}

func (s *PostgresMasterDataSuite) TestInstallationLifecycle() {
	ctx := context.Background()

	dealership := s.newDealership("North Motors")
	now := time.Now().UTC()

	installationType := &models.InstallationType{
		ID:        domain.NewInstallationTypeID(),
		Name:      "Principal installation",
		Code:      "IP",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.stores.InstallationTypes.Create(ctx, installationType))

	installation := &models.Installation{
		ID:               domain.NewInstallationID(),
		Name:             "North main site",
		Dealership:       dealership.ID,
		InstallationType: installationType.ID,
		SalesWeight:      60,
		ExhibitionCount:  4,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.Require().NoError(s.stores.Installations.Create(ctx, installation))

	got, err := s.stores.Installations.FindByID(ctx, installation.ID)
	s.Require().NoError(err)
	s.Equal(dealership.ID, got.Dealership)
	s.Equal(installationType.ID, got.InstallationType)
	s.InDelta(60, got.SalesWeight, 1e-9)
	s.Equal(4, got.ExhibitionCount)

	byDealership, err := s.stores.Installations.ListByDealership(ctx, dealership.ID)
	s.Require().NoError(err)
	s.Require().Len(byDealership, 1)

	got.SalesWeight = 45
	s.Require().NoError(s.stores.Installations.Save(ctx, got))
	updated, err := s.stores.Installations.FindByID(ctx, installation.ID)
	s.Require().NoError(err)
	s.InDelta(45, updated.SalesWeight, 1e-9)

	s.Require().NoError(s.stores.Installations.Delete(ctx, installation.ID))
	_, err = s.stores.Installations.FindByID(ctx, installation.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresMasterDataSuite) TestResponsableAndTypeLookups() {
	ctx := context.Background()
	now := time.Now().UTC()

	responsable := &models.Responsable{
		ID:        domain.NewResponsableID(),
		Name:      "Sales director",
		Email:     "sales@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.stores.Responsables.Create(ctx, responsable))

	got, err := s.stores.Responsables.FindByName(ctx, "SALES DIRECTOR")
	s.Require().NoError(err)
	s.Equal(responsable.ID, got.ID)

	criterionType := &models.CriterionType{
		ID:        domain.NewCriterionTypeID(),
		Name:      "Facility",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.stores.CriterionTypes.Create(ctx, criterionType))

	types, err := s.stores.CriterionTypes.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(types, 1)
	s.Equal("Facility", types[0].Name)
}

func (s *PostgresMasterDataSuite) TestSaveMissingReturnsNotFound() {
	ctx := context.Background()
	err := s.stores.Dealerships.Save(ctx, &models.Dealership{ID: domain.NewDealershipID(), Name: "ghost"})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
