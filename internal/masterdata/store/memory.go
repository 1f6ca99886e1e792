package store

import (
	"context"
	"sync"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/platform/sets"
)

// collection mirrors the hierarchy store's insertion-ordered record set.
// Master-data records are flat value structs, so cloning is a copy.
type collection[K comparable, V any] struct {
	mu      sync.RWMutex
	records map[K]V
	order   []K
}

func newCollection[K comparable, V any]() *collection[K, V] {
	return &collection[K, V]{records: make(map[K]V)}
}

func (c *collection[K, V]) create(key K, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[key]; ok {
		return sentinel.ErrConflict
	}
	c.records[key] = value
	c.order = append(c.order, key)
	return nil
}

func (c *collection[K, V]) find(key K) (V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.records[key]
	if !ok {
		var zero V
		return zero, sentinel.ErrNotFound
	}
	return v, nil
}

func (c *collection[K, V]) save(key K, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[key]; !ok {
		return sentinel.ErrNotFound
	}
	c.records[key] = value
	return nil
}

func (c *collection[K, V]) delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(c.records, key)
	c.order = sets.Remove(c.order, key)
	return nil
}

func (c *collection[K, V]) list(keep func(V) bool) []V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]V, 0, len(c.order))
	for _, key := range c.order {
		if keep == nil || keep(c.records[key]) {
			out = append(out, c.records[key])
		}
	}
	return out
}

func (c *collection[K, V]) first(match func(V) bool) (V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, key := range c.order {
		if match(c.records[key]) {
			return c.records[key], nil
		}
	}
	var zero V
	return zero, sentinel.ErrNotFound
}

// MemoryDealershipStore is the in-memory DealershipStore for tests and dev.
type MemoryDealershipStore struct {
	records *collection[domain.DealershipID, models.Dealership]
}

func NewMemoryDealershipStore() *MemoryDealershipStore {
	return &MemoryDealershipStore{records: newCollection[domain.DealershipID, models.Dealership]()}
}

func (s *MemoryDealershipStore) Create(_ context.Context, d *models.Dealership) error {
	return s.records.create(d.ID, *d)
}

func (s *MemoryDealershipStore) FindByID(_ context.Context, id domain.DealershipID) (*models.Dealership, error) {
	d, err := s.records.find(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryDealershipStore) FindByName(_ context.Context, name string) (*models.Dealership, error) {
	want := sets.NormalizeName(name)
	d, err := s.records.first(func(d models.Dealership) bool {
		return sets.NormalizeName(d.Name) == want
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryDealershipStore) List(_ context.Context) ([]*models.Dealership, error) {
	return asPointers(s.records.list(nil)), nil
}

func (s *MemoryDealershipStore) Save(_ context.Context, d *models.Dealership) error {
	return s.records.save(d.ID, *d)
}

func (s *MemoryDealershipStore) Delete(_ context.Context, id domain.DealershipID) error {
	return s.records.delete(id)
}

// MemoryInstallationStore is the in-memory InstallationStore.
type MemoryInstallationStore struct {
	records *collection[domain.InstallationID, models.Installation]
}

func NewMemoryInstallationStore() *MemoryInstallationStore {
	return &MemoryInstallationStore{records: newCollection[domain.InstallationID, models.Installation]()}
}

func (s *MemoryInstallationStore) Create(_ context.Context, inst *models.Installation) error {
	return s.records.create(inst.ID, *inst)
}

func (s *MemoryInstallationStore) FindByID(_ context.Context, id domain.InstallationID) (*models.Installation, error) {
	inst, err := s.records.find(id)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *MemoryInstallationStore) FindByName(_ context.Context, name string) (*models.Installation, error) {
	want := sets.NormalizeName(name)
	inst, err := s.records.first(func(i models.Installation) bool {
		return sets.NormalizeName(i.Name) == want
	})
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *MemoryInstallationStore) List(_ context.Context) ([]*models.Installation, error) {
	return asPointers(s.records.list(nil)), nil
}

func (s *MemoryInstallationStore) ListByDealership(_ context.Context, dealershipID domain.DealershipID) ([]*models.Installation, error) {
	return asPointers(s.records.list(func(i models.Installation) bool {
		return i.Dealership == dealershipID
	})), nil
}

func (s *MemoryInstallationStore) Save(_ context.Context, inst *models.Installation) error {
	return s.records.save(inst.ID, *inst)
}

func (s *MemoryInstallationStore) Delete(_ context.Context, id domain.InstallationID) error {
	return s.records.delete(id)
}

// MemoryInstallationTypeStore is the in-memory InstallationTypeStore.
type MemoryInstallationTypeStore struct {
	records *collection[domain.InstallationTypeID, models.InstallationType]
}

func NewMemoryInstallationTypeStore() *MemoryInstallationTypeStore {
	return &MemoryInstallationTypeStore{records: newCollection[domain.InstallationTypeID, models.InstallationType]()}
}

func (s *MemoryInstallationTypeStore) Create(_ context.Context, t *models.InstallationType) error {
	return s.records.create(t.ID, *t)
}

func (s *MemoryInstallationTypeStore) FindByID(_ context.Context, id domain.InstallationTypeID) (*models.InstallationType, error) {
	t, err := s.records.find(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemoryInstallationTypeStore) FindByName(_ context.Context, name string) (*models.InstallationType, error) {
	want := sets.NormalizeName(name)
	t, err := s.records.first(func(t models.InstallationType) bool {
		return sets.NormalizeName(t.Name) == want
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemoryInstallationTypeStore) List(_ context.Context) ([]*models.InstallationType, error) {
	return asPointers(s.records.list(nil)), nil
}

func (s *MemoryInstallationTypeStore) Save(_ context.Context, t *models.InstallationType) error {
	return s.records.save(t.ID, *t)
}

func (s *MemoryInstallationTypeStore) Delete(_ context.Context, id domain.InstallationTypeID) error {
	return s.records.delete(id)
}

// MemoryCriterionTypeStore is the in-memory CriterionTypeStore.
type MemoryCriterionTypeStore struct {
	records *collection[domain.CriterionTypeID, models.CriterionType]
}

func NewMemoryCriterionTypeStore() *MemoryCriterionTypeStore {
	return &MemoryCriterionTypeStore{records: newCollection[domain.CriterionTypeID, models.CriterionType]()}
}

func (s *MemoryCriterionTypeStore) Create(_ context.Context, t *models.CriterionType) error {
	return s.records.create(t.ID, *t)
}

func (s *MemoryCriterionTypeStore) FindByID(_ context.Context, id domain.CriterionTypeID) (*models.CriterionType, error) {
	t, err := s.records.find(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemoryCriterionTypeStore) FindByName(_ context.Context, name string) (*models.CriterionType, error) {
	want := sets.NormalizeName(name)
	t, err := s.records.first(func(t models.CriterionType) bool {
		return sets.NormalizeName(t.Name) == want
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemoryCriterionTypeStore) List(_ context.Context) ([]*models.CriterionType, error) {
	return asPointers(s.records.list(nil)), nil
}

func (s *MemoryCriterionTypeStore) Save(_ context.Context, t *models.CriterionType) error {
	return s.records.save(t.ID, *t)
}

func (s *MemoryCriterionTypeStore) Delete(_ context.Context, id domain.CriterionTypeID) error {
	return s.records.delete(id)
}

// MemoryResponsableStore is the in-memory ResponsableStore.
type MemoryResponsableStore struct {
	records *collection[domain.ResponsableID, models.Responsable]
}

func NewMemoryResponsableStore() *MemoryResponsableStore {
	return &MemoryResponsableStore{records: newCollection[domain.ResponsableID, models.Responsable]()}
}

func (s *MemoryResponsableStore) Create(_ context.Context, r *models.Responsable) error {
	return s.records.create(r.ID, *r)
}

func (s *MemoryResponsableStore) FindByID(_ context.Context, id domain.ResponsableID) (*models.Responsable, error) {
	r, err := s.records.find(id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MemoryResponsableStore) FindByName(_ context.Context, name string) (*models.Responsable, error) {
	want := sets.NormalizeName(name)
	r, err := s.records.first(func(r models.Responsable) bool {
		return sets.NormalizeName(r.Name) == want
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MemoryResponsableStore) List(_ context.Context) ([]*models.Responsable, error) {
	return asPointers(s.records.list(nil)), nil
}

func (s *MemoryResponsableStore) Save(_ context.Context, r *models.Responsable) error {
	return s.records.save(r.ID, *r)
}

func (s *MemoryResponsableStore) Delete(_ context.Context, id domain.ResponsableID) error {
	return s.records.delete(id)
}

func asPointers[V any](values []V) []*V {
	out := make([]*V, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

// NewMemoryStores bundles fresh in-memory stores for wiring and tests.
func NewMemoryStores() Stores {
	return Stores{
		Dealerships:       NewMemoryDealershipStore(),
		Installations:     NewMemoryInstallationStore(),
		InstallationTypes: NewMemoryInstallationTypeStore(),
		CriterionTypes:    NewMemoryCriterionTypeStore(),
		Responsables:      NewMemoryResponsableStore(),
	}
}
