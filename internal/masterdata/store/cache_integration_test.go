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
	"dealeraudit/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CachedStoreSuite) TestInstallationReadThrough() {
	ctx := context.Background()
	inner := store.NewMemoryStores()
	cached := store.NewCachedInstallationStore(inner.Installations, s.redis.Client, time.Minute)

	installation := &models.Installation{
		ID:               domain.NewInstallationID(),
		Name:             "North main site",
		Dealership:       domain.NewDealershipID(),
		InstallationType: domain.NewInstallationTypeID(),
		SalesWeight:      60,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	s.Require().NoError(cached.Create(ctx, installation))

	// First read populates the cache; a second read is served from redis
	// even after the backing record mutates underneath the decorator.
	first, err := cached.FindByID(ctx, installation.ID)
	s.Require().NoError(err)
	s.Equal("North main site", first.Name)

	raw, err := inner.Installations.FindByID(ctx, installation.ID)
	s.Require().NoError(err)
	raw.Name = "renamed behind the cache"
	s.Require().NoError(inner.Installations.Save(ctx, raw))

	second, err := cached.FindByID(ctx, installation.ID)
	s.Require().NoError(err)
	s.Equal("North main site", second.Name)
}

func (s *CachedStoreSuite) TestSaveInvalidatesCache() {
	ctx := context.Background()
	inner := store.NewMemoryStores()
	cached := store.NewCachedInstallationStore(inner.Installations, s.redis.Client, time.Minute)

	installation := &models.Installation{
		ID:               domain.NewInstallationID(),
		Name:             "North annex",
		Dealership:       domain.NewDealershipID(),
		InstallationType: domain.NewInstallationTypeID(),
		SalesWeight:      40,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	s.Require().NoError(cached.Create(ctx, installation))

	warm, err := cached.FindByID(ctx, installation.ID)
	s.Require().NoError(err)

	warm.SalesWeight = 55
	s.Require().NoError(cached.Save(ctx, warm))

	got, err := cached.FindByID(ctx, installation.ID)
	s.Require().NoError(err)
	s.InDelta(55, got.SalesWeight, 1e-9)
}

func (s *CachedStoreSuite) TestDealershipDeleteInvalidatesCache() {
	ctx := context.Background()
	inner := store.NewMemoryStores()
	cached := store.NewCachedDealershipStore(inner.Dealerships, s.redis.Client, time.Minute)

	dealership := &models.Dealership{
		ID:               domain.NewDealershipID(),
		Name:             "North Motors",
		ReferentialSales: 350,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	s.Require().NoError(cached.Create(ctx, dealership))

	_, err := cached.FindByID(ctx, dealership.ID)
	s.Require().NoError(err)

	s.Require().NoError(cached.Delete(ctx, dealership.ID))

	_, err = cached.FindByID(ctx, dealership.ID)
	s.Require().Error(err)
}
