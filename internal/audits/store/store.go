// Package store persists audits. The memory implementation backs tests
// and dev; postgres is the production store. Both return sentinel errors
// (sentinel.ErrNotFound, sentinel.ErrConflict) and leave domain error
// translation to the service layer.
package store

import (
	"context"

	"dealeraudit/internal/audits/models"
	"dealeraudit/pkg/domain"
)

type AuditStore interface {
	Create(ctx context.Context, audit *models.Audit) error
	FindByID(ctx context.Context, id domain.AuditID) (*models.Audit, error)
	FindByName(ctx context.Context, name string) (*models.Audit, error)
	List(ctx context.Context) ([]*models.Audit, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Audit, error)
	Save(ctx context.Context, audit *models.Audit) error
	Delete(ctx context.Context, id domain.AuditID) error
}

// Stores bundles the package's store interfaces for wiring.
type Stores struct {
	Audits AuditStore
}
