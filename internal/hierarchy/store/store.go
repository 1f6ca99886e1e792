// Package store persists the scoring tree. Interfaces are the contract;
// the in-memory implementation backs tests and dev, PostgreSQL backs
// production. Both return pkg/platform/sentinel errors so the service
// layer stays implementation-agnostic.
package store

import (
	"context"

	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/pkg/domain"
)

// CategoryStore persists tree roots. Name and abbreviation lookups are
// case-insensitive and scoped to an isAgency partition.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id domain.CategoryID) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Save(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id domain.CategoryID) error
	FindByName(ctx context.Context, name string, isAgency bool) (*models.Category, error)
	FindByAbbreviation(ctx context.Context, abbreviation string, isAgency bool) (*models.Category, error)
}

type BlockStore interface {
	Create(ctx context.Context, block *models.Block) error
	FindByID(ctx context.Context, id domain.BlockID) (*models.Block, error)
	List(ctx context.Context) ([]*models.Block, error)
	Save(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, id domain.BlockID) error
	FindByName(ctx context.Context, name string) (*models.Block, error)
	ListByCategory(ctx context.Context, categoryID domain.CategoryID) ([]*models.Block, error)
	DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error
}

type AreaStore interface {
	Create(ctx context.Context, area *models.Area) error
	FindByID(ctx context.Context, id domain.AreaID) (*models.Area, error)
	List(ctx context.Context) ([]*models.Area, error)
	Save(ctx context.Context, area *models.Area) error
	Delete(ctx context.Context, id domain.AreaID) error
	FindByName(ctx context.Context, name string) (*models.Area, error)
	ListByBlock(ctx context.Context, blockID domain.BlockID) ([]*models.Area, error)
	DeleteByBlock(ctx context.Context, blockID domain.BlockID) error
	DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error
}

type StandardStore interface {
	Create(ctx context.Context, standard *models.Standard) error
	FindByID(ctx context.Context, id domain.StandardID) (*models.Standard, error)
	List(ctx context.Context) ([]*models.Standard, error)
	Save(ctx context.Context, standard *models.Standard) error
	Delete(ctx context.Context, id domain.StandardID) error
	FindByDescription(ctx context.Context, description string) (*models.Standard, error)
	ListByArea(ctx context.Context, areaID domain.AreaID) ([]*models.Standard, error)
	DeleteByArea(ctx context.Context, areaID domain.AreaID) error
	DeleteByBlock(ctx context.Context, blockID domain.BlockID) error
	DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error
}

type CriterionStore interface {
	Create(ctx context.Context, criterion *models.Criterion) error
	FindByID(ctx context.Context, id domain.CriterionID) (*models.Criterion, error)
	FindByIDs(ctx context.Context, ids []domain.CriterionID) ([]*models.Criterion, error)
	List(ctx context.Context) ([]*models.Criterion, error)
	Save(ctx context.Context, criterion *models.Criterion) error
	Delete(ctx context.Context, id domain.CriterionID) error
	ListByStandard(ctx context.Context, standardID domain.StandardID) ([]*models.Criterion, error)
	DeleteByStandard(ctx context.Context, standardID domain.StandardID) error
	DeleteByArea(ctx context.Context, areaID domain.AreaID) error
	DeleteByBlock(ctx context.Context, blockID domain.BlockID) error
	DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error
}

// Stores bundles the five tree stores for wiring.
type Stores struct {
	Categories CategoryStore
	Blocks     BlockStore
	Areas      AreaStore
	Standards  StandardStore
	Criterions CriterionStore
}
