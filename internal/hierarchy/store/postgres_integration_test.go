//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/internal/hierarchy/store"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/testutil/containers"
)

type PostgresTreeStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	stores   store.Stores
}

func TestPostgresTreeStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresTreeStoreSuite))
}

func (s *PostgresTreeStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(store.EnsureSchema(context.Background(), s.postgres.DB))
	s.stores = store.NewPostgresStores(s.postgres.DB)
}

func (s *PostgresTreeStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"criterions", "standards", "areas", "blocks", "categories")
	s.Require().NoError(err)
}

func newTestCategory(name, abbreviation string) *models.Category {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Category{
		ID:           domain.NewCategoryID(),
		Name:         name,
		Abbreviation: abbreviation,
		Blocks:       []domain.BlockID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *PostgresTreeStoreSuite) TestCategoryRoundTrip() {
	ctx := context.Background()

	category := newTestCategory("Sales process", "SP")
	category.Value = 12.5
	category.Blocks = []domain.BlockID{domain.NewBlockID(), domain.NewBlockID()}
	s.Require().NoError(s.stores.Categories.Create(ctx, category))

	got, err := s.stores.Categories.FindByID(ctx, category.ID)
	s.Require().NoError(err)
	s.Equal(category.Name, got.Name)
	s.Equal(category.Abbreviation, got.Abbreviation)
	s.InDelta(12.5, got.Value, 1e-9)
	s.Equal(category.Blocks, got.Blocks)
}

func (s *PostgresTreeStoreSuite) TestCategoryNameLookupIsCaseInsensitive() {
	ctx := context.Background()

	category := newTestCategory("After Sales", "AS")
	s.Require().NoError(s.stores.Categories.Create(ctx, category))

	got, err := s.stores.Categories.FindByName(ctx, "after sales", false)
	s.Require().NoError(err)
	s.Equal(category.ID, got.ID)

	// The agency partition is separate; the same name misses there.
	_, err = s.stores.Categories.FindByName(ctx, "after sales", true)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresTreeStoreSuite) TestCriterionArrayColumnsRoundTrip() {
	ctx := context.Background()

	criterion := &models.Criterion{
		ID:           domain.NewCriterionID(),
		Description:  "Customer parking spots",
		Number:       1,
		Value:        2,
		Standard:     domain.NewStandardID(),
		Area:         domain.NewAreaID(),
		Block:        domain.NewBlockID(),
		Category:     domain.NewCategoryID(),
		Abbreviation: "SP.1.1.1.1",
		InstallationTypes: []domain.InstallationTypeID{
			domain.NewInstallationTypeID(),
		},
		Exceptions: []domain.InstallationID{
			domain.NewInstallationID(),
			domain.NewInstallationID(),
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.stores.Criterions.Create(ctx, criterion))

	got, err := s.stores.Criterions.FindByID(ctx, criterion.ID)
	s.Require().NoError(err)
	s.Equal(criterion.InstallationTypes, got.InstallationTypes)
	s.Equal(criterion.Exceptions, got.Exceptions)
	s.Equal(criterion.Standard, got.Standard)
}

func (s *PostgresTreeStoreSuite) TestFindByIDsPreservesOrderAndSkipsMissing() {
	ctx := context.Background()

	var ids []domain.CriterionID
	for i := 0; i < 3; i++ {
		c := &models.Criterion{
			ID:                domain.NewCriterionID(),
			Description:       "crit",
			Number:            float64(i + 1),
			Standard:          domain.NewStandardID(),
			Area:              domain.NewAreaID(),
			Block:             domain.NewBlockID(),
			Category:          domain.NewCategoryID(),
			InstallationTypes: []domain.InstallationTypeID{},
			Exceptions:        []domain.InstallationID{},
			CreatedAt:         time.Now().UTC(),
			UpdatedAt:         time.Now().UTC(),
		}
		s.Require().NoError(s.stores.Criterions.Create(ctx, c))
		ids = append(ids, c.ID)
	}

	// Request in reverse with a deleted id in the middle.
	missing := domain.NewCriterionID()
	got, err := s.stores.Criterions.FindByIDs(ctx, []domain.CriterionID{ids[2], missing, ids[0]})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(ids[2], got[0].ID)
	s.Equal(ids[0], got[1].ID)
}

func (s *PostgresTreeStoreSuite) TestCascadeDeleteHelpers() {
	ctx := context.Background()

	categoryID := domain.NewCategoryID()
	blockID := domain.NewBlockID()

	block := &models.Block{
		ID:        blockID,
		Name:      "Facilities",
		Number:    1,
		Category:  categoryID,
		Areas:     []domain.AreaID{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.stores.Blocks.Create(ctx, block))

	area := &models.Area{
		ID:        domain.NewAreaID(),
		Name:      "Exterior",
		Number:    1,
		Block:     blockID,
		Category:  categoryID,
		Standards: []domain.StandardID{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.stores.Areas.Create(ctx, area))

	s.Require().NoError(s.stores.Areas.DeleteByCategory(ctx, categoryID))
	s.Require().NoError(s.stores.Blocks.DeleteByCategory(ctx, categoryID))

	_, err := s.stores.Areas.FindByID(ctx, area.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.stores.Blocks.FindByID(ctx, blockID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresTreeStoreSuite) TestSaveRewritesChildLists() {
	ctx := context.Background()

	standard := &models.Standard{
		ID:          domain.NewStandardID(),
		Description: "Signage",
		Number:      2,
		Area:        domain.NewAreaID(),
		Block:       domain.NewBlockID(),
		Category:    domain.NewCategoryID(),
		Criterions:  []domain.CriterionID{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	s.Require().NoError(s.stores.Standards.Create(ctx, standard))

	standard.Criterions = []domain.CriterionID{domain.NewCriterionID()}
	standard.Value = 7
	s.Require().NoError(s.stores.Standards.Save(ctx, standard))

	got, err := s.stores.Standards.FindByID(ctx, standard.ID)
	s.Require().NoError(err)
	s.Equal(standard.Criterions, got.Criterions)
	s.InDelta(7, got.Value, 1e-9)
}

func (s *PostgresTreeStoreSuite) TestDeleteMissingReturnsNotFound() {
	ctx := context.Background()
	err := s.stores.Categories.Delete(ctx, domain.NewCategoryID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
