package service

import (
	"context"
	"errors"
	"strings"

	"dealeraudit/internal/events"
	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/requestcontext"
)

// CreateCategoryInput creates a tree root. Abbreviation is user-supplied
// here and only here; every lower level derives its own.
type CreateCategoryInput struct {
	Name         string
	Abbreviation string
	IsAgency     bool
	CategoryType string
}

// UpdateCategoryInput is a partial update: nil fields keep prior values.
type UpdateCategoryInput struct {
	Name         *string
	Abbreviation *string
	CategoryType *string
}

func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Abbreviation = strings.TrimSpace(in.Abbreviation)

	var list dErrors.List
	if in.Name == "" {
		list.Addf(dErrors.CodeValidation, "name", "is required")
	}
	if in.Abbreviation == "" {
		list.Addf(dErrors.CodeValidation, "abbreviation", "is required")
	}
	if err := list.Err(); err != nil {
		return nil, err
	}

	// Name and abbreviation are unique inside one isAgency partition;
	// agency and non-agency trees may reuse both independently. Both
	// violations are reported together.
	if err := s.checkCategoryUnique(ctx, in.Name, in.Abbreviation, in.IsAgency, domain.CategoryID{}); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	category := &models.Category{
		ID:           domain.NewCategoryID(),
		Name:         in.Name,
		Abbreviation: in.Abbreviation,
		IsAgency:     in.IsAgency,
		CategoryType: in.CategoryType,
		Blocks:       []domain.BlockID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.stores.Categories.Create(ctx, category); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create category")
	}

	s.countCreated("category")
	s.publish(ctx, events.Event{
		Kind:     "category",
		Action:   events.ActionCreated,
		EntityID: category.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, id domain.CategoryID) (*models.Category, error) {
	category, err := s.stores.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "category not found")
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.stores.Categories.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list categories")
	}
	return categories, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id domain.CategoryID, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.stores.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "category not found")
	}

	name := category.Name
	abbreviation := category.Abbreviation
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
	}
	if in.Abbreviation != nil {
		abbreviation = strings.TrimSpace(*in.Abbreviation)
		if abbreviation == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "abbreviation", "must not be empty")
		}
	}
	if in.Name != nil || in.Abbreviation != nil {
		if err := s.checkCategoryUnique(ctx, name, abbreviation, category.IsAgency, id); err != nil {
			return nil, err
		}
	}

	category.Name = name
	// A manual abbreviation edit is intentionally NOT pushed down to
	// children; their stored strings keep the old prefix until each is
	// renumbered. Suffix substitution on renumber preserves this.
	category.Abbreviation = abbreviation
	if in.CategoryType != nil {
		category.CategoryType = *in.CategoryType
	}
	category.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Categories.Save(ctx, category); err != nil {
		return nil, wrapStoreErr(err, "category not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "category",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return category, nil
}

// DeleteCategory removes the category and every descendant block, area,
// standard and criterion. The cascade runs parent-to-child; no value
// adjustments are needed because the whole subtree goes with the root.
func (s *Service) DeleteCategory(ctx context.Context, id domain.CategoryID) (*models.Category, error) {
	category, err := s.stores.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "category not found")
	}

	if err := s.stores.Categories.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "category not found")
	}
	if err := s.stores.Blocks.DeleteByCategory(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of blocks failed")
	}
	if err := s.stores.Areas.DeleteByCategory(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of areas failed")
	}
	if err := s.stores.Standards.DeleteByCategory(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of standards failed")
	}
	if err := s.stores.Criterions.DeleteByCategory(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of criterions failed")
	}

	s.countDeleted("category")
	s.countCascade("category")
	s.publish(ctx, events.Event{
		Kind:     "category",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return category, nil
}

// checkCategoryUnique accumulates name and abbreviation conflicts within
// the isAgency partition, excluding the entity itself on updates.
func (s *Service) checkCategoryUnique(ctx context.Context, name, abbreviation string, isAgency bool, self domain.CategoryID) error {
	var list dErrors.List

	existing, err := s.stores.Categories.FindByName(ctx, name, isAgency)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}
	if err == nil && existing.ID != self {
		list.Addf(dErrors.CodeConflict, "name", "a category with this name already exists")
	}

	existing, err = s.stores.Categories.FindByAbbreviation(ctx, abbreviation, isAgency)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}
	if err == nil && existing.ID != self {
		list.Addf(dErrors.CodeConflict, "abbreviation", "a category with this abbreviation already exists")
	}

	return list.Err()
}
