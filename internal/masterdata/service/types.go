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

type CreateInstallationTypeInput struct {
	Name string
	Code string
}

type UpdateInstallationTypeInput struct {
	Name *string
	Code *string
}

func (s *Service) CreateInstallationType(ctx context.Context, in CreateInstallationTypeInput) (*models.InstallationType, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "is required")
	}
	if _, err := s.stores.InstallationTypes.FindByName(ctx, in.Name); err == nil {
		return nil, dErrors.NewField(dErrors.CodeConflict, "name", "an installation type with this name already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}

	now := requestcontext.Now(ctx)
	installationType := &models.InstallationType{
		ID:        domain.NewInstallationTypeID(),
		Name:      in.Name,
		Code:      in.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.InstallationTypes.Create(ctx, installationType); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create installation type")
	}

	s.countCreated("installation_type")
	s.publish(ctx, events.Event{
		Kind:     "installation_type",
		Action:   events.ActionCreated,
		EntityID: installationType.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return installationType, nil
}

func (s *Service) GetInstallationType(ctx context.Context, id domain.InstallationTypeID) (*models.InstallationType, error) {
	installationType, err := s.stores.InstallationTypes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "installation type not found")
	}
	return installationType, nil
}

func (s *Service) ListInstallationTypes(ctx context.Context) ([]*models.InstallationType, error) {
	types, err := s.stores.InstallationTypes.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list installation types")
	}
	return types, nil
}

func (s *Service) UpdateInstallationType(ctx context.Context, id domain.InstallationTypeID, in UpdateInstallationTypeInput) (*models.InstallationType, error) {
	installationType, err := s.stores.InstallationTypes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "installation type not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		existing, err := s.stores.InstallationTypes.FindByName(ctx, name)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
		}
		if err == nil && existing.ID != id {
			return nil, dErrors.NewField(dErrors.CodeConflict, "name", "an installation type with this name already exists")
		}
		installationType.Name = name
	}
	if in.Code != nil {
		installationType.Code = strings.ToUpper(strings.TrimSpace(*in.Code))
	}
	installationType.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.InstallationTypes.Save(ctx, installationType); err != nil {
		return nil, wrapStoreErr(err, "installation type not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "installation_type",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return installationType, nil
}

func (s *Service) DeleteInstallationType(ctx context.Context, id domain.InstallationTypeID) (*models.InstallationType, error) {
	installationType, err := s.stores.InstallationTypes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "installation type not found")
	}
	if err := s.stores.InstallationTypes.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "installation type not found")
	}

	s.countDeleted("installation_type")
	s.publish(ctx, events.Event{
		Kind:     "installation_type",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return installationType, nil
}

type CreateCriterionTypeInput struct {
	Name string
}

type UpdateCriterionTypeInput struct {
	Name *string
}

func (s *Service) CreateCriterionType(ctx context.Context, in CreateCriterionTypeInput) (*models.CriterionType, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "is required")
	}
	if _, err := s.stores.CriterionTypes.FindByName(ctx, in.Name); err == nil {
		return nil, dErrors.NewField(dErrors.CodeConflict, "name", "a criterion type with this name already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}

	now := requestcontext.Now(ctx)
	criterionType := &models.CriterionType{
		ID:        domain.NewCriterionTypeID(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.CriterionTypes.Create(ctx, criterionType); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create criterion type")
	}

	s.countCreated("criterion_type")
	s.publish(ctx, events.Event{
		Kind:     "criterion_type",
		Action:   events.ActionCreated,
		EntityID: criterionType.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return criterionType, nil
}

func (s *Service) GetCriterionType(ctx context.Context, id domain.CriterionTypeID) (*models.CriterionType, error) {
	criterionType, err := s.stores.CriterionTypes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "criterion type not found")
	}
	return criterionType, nil
}

func (s *Service) ListCriterionTypes(ctx context.Context) ([]*models.CriterionType, error) {
	types, err := s.stores.CriterionTypes.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list criterion types")
	}
	return types, nil
}

func (s *Service) UpdateCriterionType(ctx context.Context, id domain.CriterionTypeID, in UpdateCriterionTypeInput) (*models.CriterionType, error) {
	criterionType, err := s.stores.CriterionTypes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "criterion type not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		existing, err := s.stores.CriterionTypes.FindByName(ctx, name)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
		}
		if err == nil && existing.ID != id {
			return nil, dErrors.NewField(dErrors.CodeConflict, "name", "a criterion type with this name already exists")
		}
		criterionType.Name = name
	}
	criterionType.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.CriterionTypes.Save(ctx, criterionType); err != nil {
		return nil, wrapStoreErr(err, "criterion type not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "criterion_type",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return criterionType, nil
}

func (s *Service) DeleteCriterionType(ctx context.Context, id domain.CriterionTypeID) (*models.CriterionType, error) {
	criterionType, err := s.stores.CriterionTypes.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "criterion type not found")
	}
	if err := s.stores.CriterionTypes.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "criterion type not found")
	}

	s.countDeleted("criterion_type")
	s.publish(ctx, events.Event{
		Kind:     "criterion_type",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return criterionType, nil
}
