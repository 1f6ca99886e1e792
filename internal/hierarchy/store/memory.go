package store

import (
	"context"
	"sync"

	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/platform/sets"
)

// collection is an insertion-ordered, mutex-guarded record set shared by
// the five in-memory stores. List results keep insertion order because the
// API contract depends on it for ties.
type collection[K comparable, V any] struct {
	mu      sync.RWMutex
	records map[K]V
	order   []K
	clone   func(V) V
}

func newCollection[K comparable, V any](clone func(V) V) *collection[K, V] {
	return &collection[K, V]{records: make(map[K]V), clone: clone}
}

func (c *collection[K, V]) create(key K, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[key]; ok {
		return sentinel.ErrConflict
	}
	c.records[key] = c.clone(value)
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
	return c.clone(v), nil
}

func (c *collection[K, V]) save(key K, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[key]; !ok {
		return sentinel.ErrNotFound
	}
	c.records[key] = c.clone(value)
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

// list returns records in insertion order, filtered when keep is non-nil.
func (c *collection[K, V]) list(keep func(V) bool) []V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]V, 0, len(c.order))
	for _, key := range c.order {
		v := c.records[key]
		if keep == nil || keep(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}

// first returns the first record in insertion order matching the predicate.
func (c *collection[K, V]) first(match func(V) bool) (V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, key := range c.order {
		if match(c.records[key]) {
			return c.clone(c.records[key]), nil
		}
	}
	var zero V
	return zero, sentinel.ErrNotFound
}

// deleteWhere removes every record matching the predicate.
func (c *collection[K, V]) deleteWhere(match func(V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	for _, key := range c.order {
		if match(c.records[key]) {
			delete(c.records, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

func cloneCategory(c *models.Category) *models.Category {
	cp := *c
	cp.Blocks = append([]domain.BlockID{}, c.Blocks...)
	return &cp
}

func cloneBlock(b *models.Block) *models.Block {
	cp := *b
	cp.Areas = append([]domain.AreaID{}, b.Areas...)
	return &cp
}

func cloneArea(a *models.Area) *models.Area {
	cp := *a
	cp.Standards = append([]domain.StandardID{}, a.Standards...)
	return &cp
}

func cloneStandard(s *models.Standard) *models.Standard {
	cp := *s
	cp.Criterions = append([]domain.CriterionID{}, s.Criterions...)
	return &cp
}

func cloneCriterion(c *models.Criterion) *models.Criterion {
	cp := *c
	cp.InstallationTypes = append([]domain.InstallationTypeID{}, c.InstallationTypes...)
	cp.Exceptions = append([]domain.InstallationID{}, c.Exceptions...)
	return &cp
}

// MemoryCategoryStore is the in-memory CategoryStore used by tests and dev.
type MemoryCategoryStore struct {
	records *collection[domain.CategoryID, *models.Category]
}

func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{records: newCollection[domain.CategoryID](cloneCategory)}
}

func (s *MemoryCategoryStore) Create(_ context.Context, category *models.Category) error {
	return s.records.create(category.ID, category)
}

func (s *MemoryCategoryStore) FindByID(_ context.Context, id domain.CategoryID) (*models.Category, error) {
	return s.records.find(id)
}

func (s *MemoryCategoryStore) List(_ context.Context) ([]*models.Category, error) {
	return s.records.list(nil), nil
}

func (s *MemoryCategoryStore) Save(_ context.Context, category *models.Category) error {
	return s.records.save(category.ID, category)
}

func (s *MemoryCategoryStore) Delete(_ context.Context, id domain.CategoryID) error {
	return s.records.delete(id)
}

func (s *MemoryCategoryStore) FindByName(_ context.Context, name string, isAgency bool) (*models.Category, error) {
	want := sets.NormalizeName(name)
	return s.records.first(func(c *models.Category) bool {
		return c.IsAgency == isAgency && sets.NormalizeName(c.Name) == want
	})
}

func (s *MemoryCategoryStore) FindByAbbreviation(_ context.Context, abbreviation string, isAgency bool) (*models.Category, error) {
	want := sets.NormalizeName(abbreviation)
	return s.records.first(func(c *models.Category) bool {
		return c.IsAgency == isAgency && sets.NormalizeName(c.Abbreviation) == want
	})
}

// MemoryBlockStore is the in-memory BlockStore.
type MemoryBlockStore struct {
	records *collection[domain.BlockID, *models.Block]
}

func NewMemoryBlockStore() *MemoryBlockStore {
	return &MemoryBlockStore{records: newCollection[domain.BlockID](cloneBlock)}
}

func (s *MemoryBlockStore) Create(_ context.Context, block *models.Block) error {
	return s.records.create(block.ID, block)
}

func (s *MemoryBlockStore) FindByID(_ context.Context, id domain.BlockID) (*models.Block, error) {
	return s.records.find(id)
}

func (s *MemoryBlockStore) List(_ context.Context) ([]*models.Block, error) {
	return s.records.list(nil), nil
}

func (s *MemoryBlockStore) Save(_ context.Context, block *models.Block) error {
	return s.records.save(block.ID, block)
}

func (s *MemoryBlockStore) Delete(_ context.Context, id domain.BlockID) error {
	return s.records.delete(id)
}

func (s *MemoryBlockStore) FindByName(_ context.Context, name string) (*models.Block, error) {
	want := sets.NormalizeName(name)
	return s.records.first(func(b *models.Block) bool {
		return sets.NormalizeName(b.Name) == want
	})
}

func (s *MemoryBlockStore) ListByCategory(_ context.Context, categoryID domain.CategoryID) ([]*models.Block, error) {
	return s.records.list(func(b *models.Block) bool { return b.Category == categoryID }), nil
}

func (s *MemoryBlockStore) DeleteByCategory(_ context.Context, categoryID domain.CategoryID) error {
	s.records.deleteWhere(func(b *models.Block) bool { return b.Category == categoryID })
	return nil
}

// MemoryAreaStore is the in-memory AreaStore.
type MemoryAreaStore struct {
	records *collection[domain.AreaID, *models.Area]
}

func NewMemoryAreaStore() *MemoryAreaStore {
	return &MemoryAreaStore{records: newCollection[domain.AreaID](cloneArea)}
}

func (s *MemoryAreaStore) Create(_ context.Context, area *models.Area) error {
	return s.records.create(area.ID, area)
}

func (s *MemoryAreaStore) FindByID(_ context.Context, id domain.AreaID) (*models.Area, error) {
	return s.records.find(id)
}

func (s *MemoryAreaStore) List(_ context.Context) ([]*models.Area, error) {
	return s.records.list(nil), nil
}

func (s *MemoryAreaStore) Save(_ context.Context, area *models.Area) error {
	return s.records.save(area.ID, area)
}

func (s *MemoryAreaStore) Delete(_ context.Context, id domain.AreaID) error {
	return s.records.delete(id)
}

func (s *MemoryAreaStore) FindByName(_ context.Context, name string) (*models.Area, error) {
	want := sets.NormalizeName(name)
	return s.records.first(func(a *models.Area) bool {
		return sets.NormalizeName(a.Name) == want
	})
}

func (s *MemoryAreaStore) ListByBlock(_ context.Context, blockID domain.BlockID) ([]*models.Area, error) {
	return s.records.list(func(a *models.Area) bool { return a.Block == blockID }), nil
}

func (s *MemoryAreaStore) DeleteByBlock(_ context.Context, blockID domain.BlockID) error {
	s.records.deleteWhere(func(a *models.Area) bool { return a.Block == blockID })
	return nil
}

func (s *MemoryAreaStore) DeleteByCategory(_ context.Context, categoryID domain.CategoryID) error {
	s.records.deleteWhere(func(a *models.Area) bool { return a.Category == categoryID })
	return nil
}

// MemoryStandardStore is the in-memory StandardStore.
type MemoryStandardStore struct {
	records *collection[domain.StandardID, *models.Standard]
}

func NewMemoryStandardStore() *MemoryStandardStore {
	return &MemoryStandardStore{records: newCollection[domain.StandardID](cloneStandard)}
}

func (s *MemoryStandardStore) Create(_ context.Context, standard *models.Standard) error {
	return s.records.create(standard.ID, standard)
}

func (s *MemoryStandardStore) FindByID(_ context.Context, id domain.StandardID) (*models.Standard, error) {
	return s.records.find(id)
}

func (s *MemoryStandardStore) List(_ context.Context) ([]*models.Standard, error) {
	return s.records.list(nil), nil
}

func (s *MemoryStandardStore) Save(_ context.Context, standard *models.Standard) error {
	return s.records.save(standard.ID, standard)
}

func (s *MemoryStandardStore) Delete(_ context.Context, id domain.StandardID) error {
	return s.records.delete(id)
}

func (s *MemoryStandardStore) FindByDescription(_ context.Context, description string) (*models.Standard, error) {
	want := sets.NormalizeName(description)
	return s.records.first(func(st *models.Standard) bool {
		return sets.NormalizeName(st.Description) == want
	})
}

func (s *MemoryStandardStore) ListByArea(_ context.Context, areaID domain.AreaID) ([]*models.Standard, error) {
	return s.records.list(func(st *models.Standard) bool { return st.Area == areaID }), nil
}

func (s *MemoryStandardStore) DeleteByArea(_ context.Context, areaID domain.AreaID) error {
	s.records.deleteWhere(func(st *models.Standard) bool { return st.Area == areaID })
	return nil
}

func (s *MemoryStandardStore) DeleteByBlock(_ context.Context, blockID domain.BlockID) error {
	s.records.deleteWhere(func(st *models.Standard) bool { return st.Block == blockID })
	return nil
}

func (s *MemoryStandardStore) DeleteByCategory(_ context.Context, categoryID domain.CategoryID) error {
	s.records.deleteWhere(func(st *models.Standard) bool { return st.Category == categoryID })
	return nil
}

// MemoryCriterionStore is the in-memory CriterionStore.
type MemoryCriterionStore struct {
	records *collection[domain.CriterionID, *models.Criterion]
}

func NewMemoryCriterionStore() *MemoryCriterionStore {
	return &MemoryCriterionStore{records: newCollection[domain.CriterionID](cloneCriterion)}
}

func (s *MemoryCriterionStore) Create(_ context.Context, criterion *models.Criterion) error {
	return s.records.create(criterion.ID, criterion)
}

func (s *MemoryCriterionStore) FindByID(_ context.Context, id domain.CriterionID) (*models.Criterion, error) {
	return s.records.find(id)
}

func (s *MemoryCriterionStore) FindByIDs(_ context.Context, ids []domain.CriterionID) ([]*models.Criterion, error) {
	out := make([]*models.Criterion, 0, len(ids))
	for _, id := range ids {
		c, err := s.records.find(id)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryCriterionStore) List(_ context.Context) ([]*models.Criterion, error) {
	return s.records.list(nil), nil
}

func (s *MemoryCriterionStore) Save(_ context.Context, criterion *models.Criterion) error {
	return s.records.save(criterion.ID, criterion)
}

func (s *MemoryCriterionStore) Delete(_ context.Context, id domain.CriterionID) error {
	return s.records.delete(id)
}

func (s *MemoryCriterionStore) ListByStandard(_ context.Context, standardID domain.StandardID) ([]*models.Criterion, error) {
	return s.records.list(func(c *models.Criterion) bool { return c.Standard == standardID }), nil
}

func (s *MemoryCriterionStore) DeleteByStandard(_ context.Context, standardID domain.StandardID) error {
	s.records.deleteWhere(func(c *models.Criterion) bool { return c.Standard == standardID })
	return nil
}

func (s *MemoryCriterionStore) DeleteByArea(_ context.Context, areaID domain.AreaID) error {
	s.records.deleteWhere(func(c *models.Criterion) bool { return c.Area == areaID })
	return nil
}

func (s *MemoryCriterionStore) DeleteByBlock(_ context.Context, blockID domain.BlockID) error {
	s.records.deleteWhere(func(c *models.Criterion) bool { return c.Block == blockID })
	return nil
}

func (s *MemoryCriterionStore) DeleteByCategory(_ context.Context, categoryID domain.CategoryID) error {
	s.records.deleteWhere(func(c *models.Criterion) bool { return c.Category == categoryID })
	return nil
}

// NewMemoryStores bundles fresh in-memory stores for wiring and tests.
func NewMemoryStores() Stores {
	return Stores{
		Categories: NewMemoryCategoryStore(),
		Blocks:     NewMemoryBlockStore(),
		Areas:      NewMemoryAreaStore(),
		Standards:  NewMemoryStandardStore(),
		Criterions: NewMemoryCriterionStore(),
	}
}
