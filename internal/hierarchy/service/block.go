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

type CreateBlockInput struct {
	Name     string
	Number   float64
	Category domain.CategoryID
	IsAgency bool
}

type UpdateBlockInput struct {
	Name   *string
	Number *float64
}

func (s *Service) CreateBlock(ctx context.Context, in CreateBlockInput) (*models.Block, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "is required")
	}

	category, err := s.stores.Categories.FindByID(ctx, in.Category)
	if err != nil {
		return nil, wrapStoreErr(err, "category not found")
	}
	if err := s.checkBlockNameUnique(ctx, in.Name, domain.BlockID{}); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	block := &models.Block{
		ID:           domain.NewBlockID(),
		Name:         in.Name,
		Number:       in.Number,
		Category:     category.ID,
		Abbreviation: models.DeriveAbbreviation(category.Abbreviation, in.Number),
		IsAgency:     in.IsAgency,
		Areas:        []domain.AreaID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.stores.Blocks.Create(ctx, block); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create block")
	}

	category.Blocks = append(category.Blocks, block.ID)
	category.UpdatedAt = now
	if err := s.stores.Categories.Save(ctx, category); err != nil {
		return nil, wrapStoreErr(err, "category vanished while registering block")
	}

	s.countCreated("block")
	s.publish(ctx, events.Event{
		Kind:     "block",
		Action:   events.ActionCreated,
		EntityID: block.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return block, nil
}

func (s *Service) GetBlock(ctx context.Context, id domain.BlockID) (*models.Block, error) {
	block, err := s.stores.Blocks.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "block not found")
	}
	return block, nil
}

func (s *Service) ListBlocks(ctx context.Context) ([]*models.Block, error) {
	blocks, err := s.stores.Blocks.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list blocks")
	}
	return blocks, nil
}

func (s *Service) UpdateBlock(ctx context.Context, id domain.BlockID, in UpdateBlockInput) (*models.Block, error) {
	block, err := s.stores.Blocks.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "block not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		if err := s.checkBlockNameUnique(ctx, name, id); err != nil {
			return nil, err
		}
		block.Name = name
	}
	if in.Number != nil {
		block.Number = *in.Number
		block.Abbreviation = models.ReplaceLastSegment(block.Abbreviation, models.FormatNumber(*in.Number))
	}
	block.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Blocks.Save(ctx, block); err != nil {
		return nil, wrapStoreErr(err, "block not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "block",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return block, nil
}

// DeleteBlock cascades to areas, standards and criterions beneath the
// block and decrements the owning category by the block's stored value in
// a single step; descendants are never decremented individually because
// the block's value already equals their sum.
func (s *Service) DeleteBlock(ctx context.Context, id domain.BlockID) (*models.Block, error) {
	block, err := s.stores.Blocks.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "block not found")
	}

	if err := s.stores.Blocks.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "block not found")
	}
	if err := s.stores.Areas.DeleteByBlock(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of areas failed")
	}
	if err := s.stores.Standards.DeleteByBlock(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of standards failed")
	}
	if err := s.stores.Criterions.DeleteByBlock(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of criterions failed")
	}

	if err := s.unregisterBlock(ctx, block); err != nil {
		return nil, err
	}

	s.countDeleted("block")
	s.countCascade("block")
	s.publish(ctx, events.Event{
		Kind:     "block",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return block, nil
}

// unregisterBlock removes the block from its category's child list and
// applies the value decrement in one save.
func (s *Service) unregisterBlock(ctx context.Context, block *models.Block) error {
	category, err := s.stores.Categories.FindByID(ctx, block.Category)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "category not found during block delete"))
	}
	category.Blocks = sets.Remove(category.Blocks, block.ID)
	category.Value -= block.Value
	category.UpdatedAt = requestcontext.Now(ctx)
	if err := s.stores.Categories.Save(ctx, category); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "category vanished during block delete"))
	}
	return nil
}

func (s *Service) checkBlockNameUnique(ctx context.Context, name string, self domain.BlockID) error {
	existing, err := s.stores.Blocks.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}
	if existing.ID != self {
		return dErrors.NewField(dErrors.CodeConflict, "name", "a block with this name already exists")
	}
	return nil
}
