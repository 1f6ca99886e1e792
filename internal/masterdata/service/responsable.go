package service

import (
	"context"
	"errors"
	"strings"

	"dealeraudit/internal/events"
	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/requestcontext"
)

type CreateResponsableInput struct {
	Name  string
	Email string
}

type UpdateResponsableInput struct {
	Name  *string
	Email *string
}

func (s *Service) CreateResponsable(ctx context.Context, in CreateResponsableInput) (*models.Responsable, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "is required")
	}
	if _, err := s.stores.Responsables.FindByName(ctx, in.Name); err == nil {
		return nil, dErrors.NewField(dErrors.CodeConflict, "name", "a responsable with this name already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}

	now := requestcontext.Now(ctx)
	responsable := &models.Responsable{
		ID:        domain.NewResponsableID(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.Responsables.Create(ctx, responsable); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create responsable")
	}

	s.countCreated("responsable")
	s.publish(ctx, events.Event{
		Kind:     "responsable",
		Action:   events.ActionCreated,
		EntityID: responsable.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return responsable, nil
}

func (s *Service) GetResponsable(ctx context.Context, id domain.ResponsableID) (*models.Responsable, error) {
	responsable, err := s.stores.Responsables.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "responsable not found")
	}
	return responsable, nil
}

func (s *Service) ListResponsables(ctx context.Context) ([]*models.Responsable, error) {
	responsables, err := s.stores.Responsables.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list responsables")
	}
	return responsables, nil
}

func (s *Service) UpdateResponsable(ctx context.Context, id domain.ResponsableID, in UpdateResponsableInput) (*models.Responsable, error) {
	responsable, err := s.stores.Responsables.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "responsable not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		existing, err := s.stores.Responsables.FindByName(ctx, name)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
		}
		if err == nil && existing.ID != id {
			return nil, dErrors.NewField(dErrors.CodeConflict, "name", "a responsable with this name already exists")
		}
		responsable.Name = name
	}
	if in.Email != nil {
		responsable.Email = strings.TrimSpace(*in.Email)
	}
	responsable.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Responsables.Save(ctx, responsable); err != nil {
		return nil, wrapStoreErr(err, "responsable not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "responsable",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return responsable, nil
}

func (s *Service) DeleteResponsable(ctx context.Context, id domain.ResponsableID) (*models.Responsable, error) {
	responsable, err := s.stores.Responsables.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "responsable not found")
	}
	if err := s.stores.Responsables.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "responsable not found")
	}

	s.countDeleted("responsable")
	s.publish(ctx, events.Event{
		Kind:     "responsable",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return responsable, nil
}
