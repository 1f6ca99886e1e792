package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
)

// Read-through redis caches for the records the exception resolver and
// sizing engine hit on every fillable-criteria request. Cache failures are
// ignored; the wrapped store is always the source of truth.

const (
	installationKeyPrefix = "md:inst:"
	dealershipKeyPrefix   = "md:dlr:"
)

// CachedInstallationStore decorates an InstallationStore with a redis
// read-through cache on FindByID.
type CachedInstallationStore struct {
	InstallationStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedInstallationStore(inner InstallationStore, client *redis.Client, ttl time.Duration) *CachedInstallationStore {
	return &CachedInstallationStore{InstallationStore: inner, client: client, ttl: ttl}
}

func (s *CachedInstallationStore) FindByID(ctx context.Context, id domain.InstallationID) (*models.Installation, error) {
	key := installationKeyPrefix + id.String()
	if payload, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var cached models.Installation
		if json.Unmarshal(payload, &cached) == nil {
			return &cached, nil
		}
	}

	installation, err := s.InstallationStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(installation); err == nil {
		s.client.Set(ctx, key, payload, s.ttl)
	}
	return installation, nil
}

func (s *CachedInstallationStore) Save(ctx context.Context, installation *models.Installation) error {
	if err := s.InstallationStore.Save(ctx, installation); err != nil {
		return err
	}
	s.client.Del(ctx, installationKeyPrefix+installation.ID.String())
	return nil
}

func (s *CachedInstallationStore) Delete(ctx context.Context, id domain.InstallationID) error {
	if err := s.InstallationStore.Delete(ctx, id); err != nil {
		return err
	}
	s.client.Del(ctx, installationKeyPrefix+id.String())
	return nil
}

// CachedDealershipStore decorates a DealershipStore the same way.
type CachedDealershipStore struct {
	DealershipStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedDealershipStore(inner DealershipStore, client *redis.Client, ttl time.Duration) *CachedDealershipStore {
	return &CachedDealershipStore{DealershipStore: inner, client: client, ttl: ttl}
}

func (s *CachedDealershipStore) FindByID(ctx context.Context, id domain.DealershipID) (*models.Dealership, error) {
	key := dealershipKeyPrefix + id.String()
	if payload, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var cached models.Dealership
		if json.Unmarshal(payload, &cached) == nil {
			return &cached, nil
		}
	}

	dealership, err := s.DealershipStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(dealership); err == nil {
		s.client.Set(ctx, key, payload, s.ttl)
	}
	return dealership, nil
}

func (s *CachedDealershipStore) Save(ctx context.Context, dealership *models.Dealership) error {
	if err := s.DealershipStore.Save(ctx, dealership); err != nil {
		return err
	}
	s.client.Del(ctx, dealershipKeyPrefix+dealership.ID.String())
	return nil
}

func (s *CachedDealershipStore) Delete(ctx context.Context, id domain.DealershipID) error {
	if err := s.DealershipStore.Delete(ctx, id); err != nil {
		return err
	}
	s.client.Del(ctx, dealershipKeyPrefix+id.String())
	return nil
}
