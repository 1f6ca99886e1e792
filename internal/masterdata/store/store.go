// Package store defines persistence interfaces for master-data records,
// with in-memory and postgres implementations. Stores return
// sentinel.ErrNotFound / sentinel.ErrConflict; services translate.
package store

import (
	"context"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
)

type DealershipStore interface {
	Create(ctx context.Context, dealership *models.Dealership) error
	FindByID(ctx context.Context, id domain.DealershipID) (*models.Dealership, error)
	FindByName(ctx context.Context, name string) (*models.Dealership, error)
	List(ctx context.Context) ([]*models.Dealership, error)
	Save(ctx context.Context, dealership *models.Dealership) error
	Delete(ctx context.Context, id domain.DealershipID) error
}

type InstallationStore interface {
	Create(ctx context.Context, installation *models.Installation) error
	FindByID(ctx context.Context, id domain.InstallationID) (*models.Installation, error)
	FindByName(ctx context.Context, name string) (*models.Installation, error)
	List(ctx context.Context) ([]*models.Installation, error)
	ListByDealership(ctx context.Context, dealershipID domain.DealershipID) ([]*models.Installation, error)
	Save(ctx context.Context, installation *models.Installation) error
	Delete(ctx context.Context, id domain.InstallationID) error
}

type InstallationTypeStore interface {
	Create(ctx context.Context, installationType *models.InstallationType) error
	FindByID(ctx context.Context, id domain.InstallationTypeID) (*models.InstallationType, error)
	FindByName(ctx context.Context, name string) (*models.InstallationType, error)
	List(ctx context.Context) ([]*models.InstallationType, error)
	Save(ctx context.Context, installationType *models.InstallationType) error
	Delete(ctx context.Context, id domain.InstallationTypeID) error
}

type CriterionTypeStore interface {
	Create(ctx context.Context, criterionType *models.CriterionType) error
	FindByID(ctx context.Context, id domain.CriterionTypeID) (*models.CriterionType, error)
	FindByName(ctx context.Context, name string) (*models.CriterionType, error)
	List(ctx context.Context) ([]*models.CriterionType, error)
	Save(ctx context.Context, criterionType *models.CriterionType) error
	Delete(ctx context.Context, id domain.CriterionTypeID) error
}

type ResponsableStore interface {
	Create(ctx context.Context, responsable *models.Responsable) error
	FindByID(ctx context.Context, id domain.ResponsableID) (*models.Responsable, error)
	FindByName(ctx context.Context, name string) (*models.Responsable, error)
	List(ctx context.Context) ([]*models.Responsable, error)
	Save(ctx context.Context, responsable *models.Responsable) error
	Delete(ctx context.Context, id domain.ResponsableID) error
}

// Stores bundles the five master-data stores for wiring.
type Stores struct {
	Dealerships       DealershipStore
	Installations     InstallationStore
	InstallationTypes InstallationTypeStore
	CriterionTypes    CriterionTypeStore
	Responsables      ResponsableStore
}
