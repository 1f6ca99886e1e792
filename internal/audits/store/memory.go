package store

import (
	"context"
	"sync"

	"dealeraudit/internal/audits/models"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/platform/sets"
)

// MemoryAuditStore is the in-memory AuditStore for tests and dev. Reads
// and writes deep-copy the record so callers never share slices with the
// store.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	records map[domain.AuditID]*models.Audit
	order   []domain.AuditID
}

func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{records: make(map[domain.AuditID]*models.Audit)}
}

func cloneAudit(a *models.Audit) *models.Audit {
	cp := *a
	cp.Installations = append([]domain.InstallationID{}, a.Installations...)
	cp.InstallationExceptions = append([]domain.InstallationID{}, a.InstallationExceptions...)
	cp.AuditResponsables = append([]domain.ResponsableID{}, a.AuditResponsables...)
	cp.Criterions = make([]models.AuditCriterion, len(a.Criterions))
	for i, entry := range a.Criterions {
		cp.Criterions[i] = models.AuditCriterion{
			Criterion:  entry.Criterion,
			Exceptions: append([]domain.InstallationID{}, entry.Exceptions...),
		}
		if entry.Value != nil {
			v := *entry.Value
			cp.Criterions[i].Value = &v
		}
	}
	return &cp
}

func (s *MemoryAuditStore) Create(_ context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[audit.ID]; ok {
		return sentinel.ErrConflict
	}
	s.records[audit.ID] = cloneAudit(audit)
	s.order = append(s.order, audit.ID)
	return nil
}

func (s *MemoryAuditStore) FindByID(_ context.Context, id domain.AuditID) (*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	audit, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneAudit(audit), nil
}

func (s *MemoryAuditStore) FindByName(_ context.Context, name string) (*models.Audit, error) {
	want := sets.NormalizeName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if sets.NormalizeName(s.records[id].Name) == want {
			return cloneAudit(s.records[id]), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryAuditStore) List(_ context.Context) ([]*models.Audit, error) {
	return s.listWhere(nil), nil
}

func (s *MemoryAuditStore) ListByStatus(_ context.Context, status models.Status) ([]*models.Audit, error) {
	return s.listWhere(func(a *models.Audit) bool { return a.Status == status }), nil
}

func (s *MemoryAuditStore) listWhere(keep func(*models.Audit) bool) []*models.Audit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Audit, 0, len(s.order))
	for _, id := range s.order {
		if keep == nil || keep(s.records[id]) {
			out = append(out, cloneAudit(s.records[id]))
		}
	}
	return out
}

func (s *MemoryAuditStore) Save(_ context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[audit.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[audit.ID] = cloneAudit(audit)
	return nil
}

func (s *MemoryAuditStore) Delete(_ context.Context, id domain.AuditID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	s.order = sets.Remove(s.order, id)
	return nil
}

// NewMemoryStores bundles fresh in-memory stores for wiring and tests.
func NewMemoryStores() Stores {
	return Stores{Audits: NewMemoryAuditStore()}
}
