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
	"dealeraudit/pkg/platform/sets"
	"dealeraudit/pkg/requestcontext"
)

type CreateAreaInput struct {
	Name        string
	Number      float64
	Block       domain.BlockID
	IsException bool
	IsAgency    bool
}

type UpdateAreaInput struct {
	Name        *string
	Number      *float64
	IsException *bool
}

func (s *Service) CreateArea(ctx context.Context, in CreateAreaInput) (*models.Area, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "is required")
	}

	block, err := s.stores.Blocks.FindByID(ctx, in.Block)
	if err != nil {
		return nil, wrapStoreErr(err, "block not found")
	}
	if err := s.checkAreaNameUnique(ctx, in.Name, domain.AreaID{}); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	area := &models.Area{
		ID:           domain.NewAreaID(),
		Name:         in.Name,
		Number:       in.Number,
		Block:        block.ID,
		Category:     block.Category,
		Abbreviation: models.DeriveAbbreviation(block.Abbreviation, in.Number),
		IsException:  in.IsException,
		IsAgency:     in.IsAgency,
		Standards:    []domain.StandardID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.stores.Areas.Create(ctx, area); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create area")
	}

	block.Areas = append(block.Areas, area.ID)
	block.UpdatedAt = now
	if err := s.stores.Blocks.Save(ctx, block); err != nil {
		return nil, wrapStoreErr(err, "block vanished while registering area")
	}

	s.countCreated("area")
	s.publish(ctx, events.Event{
		Kind:     "area",
		Action:   events.ActionCreated,
		EntityID: area.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return area, nil
}

func (s *Service) GetArea(ctx context.Context, id domain.AreaID) (*models.Area, error) {
	area, err := s.stores.Areas.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "area not found")
	}
	return area, nil
}

func (s *Service) ListAreas(ctx context.Context) ([]*models.Area, error) {
	areas, err := s.stores.Areas.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list areas")
	}
	return areas, nil
}

func (s *Service) UpdateArea(ctx context.Context, id domain.AreaID, in UpdateAreaInput) (*models.Area, error) {
	area, err := s.stores.Areas.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "area not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		if err := s.checkAreaNameUnique(ctx, name, id); err != nil {
			return nil, err
		}
		area.Name = name
	}
	if in.Number != nil {
		area.Number = *in.Number
		area.Abbreviation = models.ReplaceLastSegment(area.Abbreviation, models.FormatNumber(*in.Number))
	}
	if in.IsException != nil {
		area.IsException = *in.IsException
	}
	area.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Areas.Save(ctx, area); err != nil {
		return nil, wrapStoreErr(err, "area not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "area",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return area, nil
}

// DeleteArea cascades to standards and criterions and propagates the
// area's stored value as a single decrement to its block and category.
func (s *Service) DeleteArea(ctx context.Context, id domain.AreaID) (*models.Area, error) {
	area, err := s.stores.Areas.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "area not found")
	}

	if err := s.stores.Areas.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "area not found")
	}
	if err := s.stores.Standards.DeleteByArea(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of standards failed")
	}
	if err := s.stores.Criterions.DeleteByArea(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of criterions failed")
	}

	if err := s.unregisterArea(ctx, area); err != nil {
		return nil, err
	}

	s.countDeleted("area")
	s.countCascade("area")
	s.publish(ctx, events.Event{
		Kind:     "area",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return area, nil
}

// unregisterArea removes the area from its block's child list, applies the
// block-level decrement in the same save, then continues the decrement up
// to the category.
func (s *Service) unregisterArea(ctx context.Context, area *models.Area) error {
	block, err := s.stores.Blocks.FindByID(ctx, area.Block)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "block not found during area delete"))
	}
	block.Areas = sets.Remove(block.Areas, area.ID)
	block.Value -= area.Value
	block.UpdatedAt = requestcontext.Now(ctx)
	if err := s.stores.Blocks.Save(ctx, block); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "block vanished during area delete"))
	}
	return s.applyCategoryDelta(ctx, block.Category, -area.Value)
}

func (s *Service) checkAreaNameUnique(ctx context.Context, name string, self domain.AreaID) error {
	existing, err := s.stores.Areas.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}
	if existing.ID != self {
		return dErrors.NewField(dErrors.CodeConflict, "name", "an area with this name already exists")
	}
	return nil
}
