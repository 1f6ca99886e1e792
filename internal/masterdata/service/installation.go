package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"dealeraudit/internal/events"
	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/requestcontext"
)

type CreateInstallationInput struct {
	Name             string
	Dealership       domain.DealershipID
	InstallationType domain.InstallationTypeID
	SalesWeight      float64
	ExhibitionCount  int
}

type UpdateInstallationInput struct {
	Name             *string
	Dealership       *domain.DealershipID
	InstallationType *domain.InstallationTypeID
	SalesWeight      *float64
	ExhibitionCount  *int
}

func (s *Service) CreateInstallation(ctx context.Context, in CreateInstallationInput) (*models.Installation, error) {
	in.Name = strings.TrimSpace(in.Name)

	var list dErrors.List
	if in.Name == "" {
		list.Addf(dErrors.CodeValidation, "name", "is required")
	}
	if in.Dealership.IsNil() {
		list.Addf(dErrors.CodeValidation, "dealership", "is required")
	}
	if in.InstallationType.IsNil() {
		list.Addf(dErrors.CodeValidation, "installationType", "is required")
	}
	if err := list.Err(); err != nil {
		return nil, err
	}

	if err := s.checkInstallationRefs(ctx, in.Dealership, in.InstallationType); err != nil {
		return nil, err
	}

	if _, err := s.stores.Installations.FindByName(ctx, in.Name); err == nil {
		return nil, dErrors.NewField(dErrors.CodeConflict, "name", "an installation with this name already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}

	now := requestcontext.Now(ctx)
	installation := &models.Installation{
		ID:               domain.NewInstallationID(),
		Name:             in.Name,
		Dealership:       in.Dealership,
		InstallationType: in.InstallationType,
		SalesWeight:      in.SalesWeight,
		ExhibitionCount:  in.ExhibitionCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.stores.Installations.Create(ctx, installation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create installation")
	}

	s.countCreated("installation")
	s.publish(ctx, events.Event{
		Kind:     "installation",
		Action:   events.ActionCreated,
		EntityID: installation.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return installation, nil
}

func (s *Service) GetInstallation(ctx context.Context, id domain.InstallationID) (*models.Installation, error) {
	installation, err := s.stores.Installations.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}
	return installation, nil
}

func (s *Service) ListInstallations(ctx context.Context) ([]*models.Installation, error) {
	installations, err := s.stores.Installations.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list installations")
	}
	return installations, nil
}

func (s *Service) UpdateInstallation(ctx context.Context, id domain.InstallationID, in UpdateInstallationInput) (*models.Installation, error) {
	installation, err := s.stores.Installations.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}

	dealership := installation.Dealership
	installationType := installation.InstallationType
	if in.Dealership != nil {
		dealership = *in.Dealership
	}
	if in.InstallationType != nil {
		installationType = *in.InstallationType
	}
	if in.Dealership != nil || in.InstallationType != nil {
		if err := s.checkInstallationRefs(ctx, dealership, installationType); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		existing, err := s.stores.Installations.FindByName(ctx, name)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
		}
		if err == nil && existing.ID != id {
			return nil, dErrors.NewField(dErrors.CodeConflict, "name", "an installation with this name already exists")
		}
		installation.Name = name
	}
	installation.Dealership = dealership
	installation.InstallationType = installationType
	if in.SalesWeight != nil {
		installation.SalesWeight = *in.SalesWeight
	}
	if in.ExhibitionCount != nil {
		installation.ExhibitionCount = *in.ExhibitionCount
	}
	installation.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Installations.Save(ctx, installation); err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "installation",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return installation, nil
}

func (s *Service) DeleteInstallation(ctx context.Context, id domain.InstallationID) (*models.Installation, error) {
	installation, err := s.stores.Installations.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}

	if err := s.stores.Installations.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}

	s.countDeleted("installation")
	s.publish(ctx, events.Event{
		Kind:     "installation",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return installation, nil
}

// checkInstallationRefs verifies both parent references concurrently and
// reports every missing one in the same error list.
func (s *Service) checkInstallationRefs(ctx context.Context, dealershipID domain.DealershipID, typeID domain.InstallationTypeID) error {
	var dealershipErr, typeErr error
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, dealershipErr = s.stores.Dealerships.FindByID(ctx, dealershipID)
		return nil
	})
	g.Go(func() error {
		_, typeErr = s.stores.InstallationTypes.FindByID(ctx, typeID)
		return nil
	})
	_ = g.Wait()

	var list dErrors.List
	checks := []struct {
		field string
		err   error
	}{
		{"dealership", dealershipErr},
		{"installationType", typeErr},
	}
	for _, check := range checks {
		if check.err == nil {
			continue
		}
		if errors.Is(check.err, sentinel.ErrNotFound) {
			list.Addf(dErrors.CodeValidation, check.field, "references a record that does not exist")
			continue
		}
		return dErrors.Wrap(check.err, dErrors.CodeInternal, "reference check failed")
	}
	return list.Err()
}
