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

type CreateDealershipInput struct {
	Name                string
	PostSaleDailyIncome float64
	ReferentialSales    float64
}

type UpdateDealershipInput struct {
	Name                *string
	PostSaleDailyIncome *float64
	ReferentialSales    *float64
}

func (s *Service) CreateDealership(ctx context.Context, in CreateDealershipInput) (*models.Dealership, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "is required")
	}
	if _, err := s.stores.Dealerships.FindByName(ctx, in.Name); err == nil {
		return nil, dErrors.NewField(dErrors.CodeConflict, "name", "a dealership with this name already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}

	now := requestcontext.Now(ctx)
	dealership := &models.Dealership{
		ID:                  domain.NewDealershipID(),
		Name:                in.Name,
		PostSaleDailyIncome: in.PostSaleDailyIncome,
		ReferentialSales:    in.ReferentialSales,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.stores.Dealerships.Create(ctx, dealership); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create dealership")
	}

	s.countCreated("dealership")
	s.publish(ctx, events.Event{
		Kind:     "dealership",
		Action:   events.ActionCreated,
		EntityID: dealership.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return dealership, nil
}

func (s *Service) GetDealership(ctx context.Context, id domain.DealershipID) (*models.Dealership, error) {
	dealership, err := s.stores.Dealerships.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "dealership not found")
	}
	return dealership, nil
}

func (s *Service) ListDealerships(ctx context.Context) ([]*models.Dealership, error) {
	dealerships, err := s.stores.Dealerships.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list dealerships")
	}
	return dealerships, nil
}

func (s *Service) UpdateDealership(ctx context.Context, id domain.DealershipID, in UpdateDealershipInput) (*models.Dealership, error) {
	dealership, err := s.stores.Dealerships.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "dealership not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		existing, err := s.stores.Dealerships.FindByName(ctx, name)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
		}
		if err == nil && existing.ID != id {
			return nil, dErrors.NewField(dErrors.CodeConflict, "name", "a dealership with this name already exists")
		}
		dealership.Name = name
	}
	if in.PostSaleDailyIncome != nil {
		dealership.PostSaleDailyIncome = *in.PostSaleDailyIncome
	}
	if in.ReferentialSales != nil {
		dealership.ReferentialSales = *in.ReferentialSales
	}
	dealership.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Dealerships.Save(ctx, dealership); err != nil {
		return nil, wrapStoreErr(err, "dealership not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "dealership",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return dealership, nil
}

func (s *Service) DeleteDealership(ctx context.Context, id domain.DealershipID) (*models.Dealership, error) {
	dealership, err := s.stores.Dealerships.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "dealership not found")
	}

	// Installations under the dealership stay; audits referencing them
	// keep working against the stored snapshot.
	if err := s.stores.Dealerships.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "dealership not found")
	}

	s.countDeleted("dealership")
	s.publish(ctx, events.Event{
		Kind:     "dealership",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return dealership, nil
}
