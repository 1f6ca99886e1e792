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

type CreateStandardInput struct {
	Description string
	Number      float64
	Area        domain.AreaID
	IsCore      bool
	IsException bool
	Comment     string
}

type UpdateStandardInput struct {
	Description *string
	Number      *float64
	IsCore      *bool
	IsException *bool
	Comment     *string
}

func (s *Service) CreateStandard(ctx context.Context, in CreateStandardInput) (*models.Standard, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "description", "is required")
	}

	area, err := s.stores.Areas.FindByID(ctx, in.Area)
	if err != nil {
		return nil, wrapStoreErr(err, "area not found")
	}
	if err := s.checkStandardDescriptionUnique(ctx, in.Description, domain.StandardID{}); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	standard := &models.Standard{
		ID:           domain.NewStandardID(),
		Description:  in.Description,
		Number:       in.Number,
		Area:         area.ID,
		Block:        area.Block,
		Category:     area.Category,
		Abbreviation: models.DeriveAbbreviation(area.Abbreviation, in.Number),
		IsCore:       in.IsCore,
		IsException:  in.IsException,
		Comment:      in.Comment,
		Criterions:   []domain.CriterionID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.stores.Standards.Create(ctx, standard); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create standard")
	}

	area.Standards = append(area.Standards, standard.ID)
	area.UpdatedAt = now
	if err := s.stores.Areas.Save(ctx, area); err != nil {
		return nil, wrapStoreErr(err, "area vanished while registering standard")
	}

	s.countCreated("standard")
	s.publish(ctx, events.Event{
		Kind:     "standard",
		Action:   events.ActionCreated,
		EntityID: standard.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return standard, nil
}

func (s *Service) GetStandard(ctx context.Context, id domain.StandardID) (*models.Standard, error) {
	standard, err := s.stores.Standards.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "standard not found")
	}
	return standard, nil
}

func (s *Service) ListStandards(ctx context.Context) ([]*models.Standard, error) {
	standards, err := s.stores.Standards.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list standards")
	}
	return standards, nil
}

func (s *Service) UpdateStandard(ctx context.Context, id domain.StandardID, in UpdateStandardInput) (*models.Standard, error) {
	standard, err := s.stores.Standards.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "standard not found")
	}

	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "description", "must not be empty")
		}
		if err := s.checkStandardDescriptionUnique(ctx, description, id); err != nil {
			return nil, err
		}
		standard.Description = description
	}
	if in.Number != nil {
		standard.Number = *in.Number
		standard.Abbreviation = models.ReplaceLastSegment(standard.Abbreviation, models.FormatNumber(*in.Number))
	}
	if in.IsCore != nil {
		standard.IsCore = *in.IsCore
	}
	if in.IsException != nil {
		standard.IsException = *in.IsException
	}
	if in.Comment != nil {
		standard.Comment = *in.Comment
	}
	standard.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Standards.Save(ctx, standard); err != nil {
		return nil, wrapStoreErr(err, "standard not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "standard",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return standard, nil
}

// DeleteStandard cascades to its criterions and propagates the standard's
// stored value as a single decrement through area, block and category; the
// criterions are not decremented individually because the standard's value
// already equals their sum.
func (s *Service) DeleteStandard(ctx context.Context, id domain.StandardID) (*models.Standard, error) {
	standard, err := s.stores.Standards.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "standard not found")
	}

	if err := s.stores.Standards.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "standard not found")
	}
	if err := s.stores.Criterions.DeleteByStandard(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cascade delete of criterions failed")
	}

	if err := s.unregisterStandard(ctx, standard); err != nil {
		return nil, err
	}

	s.countDeleted("standard")
	s.countCascade("standard")
	s.publish(ctx, events.Event{
		Kind:     "standard",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return standard, nil
}

func (s *Service) unregisterStandard(ctx context.Context, standard *models.Standard) error {
	area, err := s.stores.Areas.FindByID(ctx, standard.Area)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "area not found during standard delete"))
	}
	area.Standards = sets.Remove(area.Standards, standard.ID)
	area.Value -= standard.Value
	area.UpdatedAt = requestcontext.Now(ctx)
	if err := s.stores.Areas.Save(ctx, area); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "area vanished during standard delete"))
	}
	return s.applyBlockDelta(ctx, area.Block, -standard.Value)
}

func (s *Service) checkStandardDescriptionUnique(ctx context.Context, description string, self domain.StandardID) error {
	existing, err := s.stores.Standards.FindByDescription(ctx, description)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}
	if existing.ID != self {
		return dErrors.NewField(dErrors.CodeConflict, "description", "a standard with this description already exists")
	}
	return nil
}
