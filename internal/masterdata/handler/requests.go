package handler

import (
	"dealeraudit/internal/masterdata/service"
	"dealeraudit/pkg/domain"
)

type createDealershipRequest struct {
	Name                string  `json:"name" validate:"required"`
	PostSaleDailyIncome float64 `json:"post_sale_daily_income" validate:"finite"`
	ReferentialSales    float64 `json:"referential_sales" validate:"finite"`
}

func (r createDealershipRequest) toInput() service.CreateDealershipInput {
	return service.CreateDealershipInput{
		Name:                r.Name,
		PostSaleDailyIncome: r.PostSaleDailyIncome,
		ReferentialSales:    r.ReferentialSales,
	}
}

type updateDealershipRequest struct {
	Name                *string  `json:"name"`
	PostSaleDailyIncome *float64 `json:"post_sale_daily_income" validate:"omitempty,finite"`
	ReferentialSales    *float64 `json:"referential_sales" validate:"omitempty,finite"`
}

func (r updateDealershipRequest) toInput() service.UpdateDealershipInput {
	return service.UpdateDealershipInput{
		Name:                r.Name,
		PostSaleDailyIncome: r.PostSaleDailyIncome,
		ReferentialSales:    r.ReferentialSales,
	}
}

type createInstallationRequest struct {
	Name             string                    `json:"name" validate:"required"`
	Dealership       domain.DealershipID       `json:"dealership" validate:"required"`
	InstallationType domain.InstallationTypeID `json:"installation_type" validate:"required"`
	SalesWeight      float64                   `json:"sales_weight" validate:"finite"`
	ExhibitionCount  int                       `json:"exhibition_count" validate:"gte=0"`
}

func (r createInstallationRequest) toInput() service.CreateInstallationInput {
	return service.CreateInstallationInput{
		Name:             r.Name,
		Dealership:       r.Dealership,
		InstallationType: r.InstallationType,
		SalesWeight:      r.SalesWeight,
		ExhibitionCount:  r.ExhibitionCount,
	}
}

type updateInstallationRequest struct {
	Name             *string                    `json:"name"`
	Dealership       *domain.DealershipID       `json:"dealership"`
	InstallationType *domain.InstallationTypeID `json:"installation_type"`
	SalesWeight      *float64                   `json:"sales_weight" validate:"omitempty,finite"`
	ExhibitionCount  *int                       `json:"exhibition_count" validate:"omitempty,gte=0"`
}

func (r updateInstallationRequest) toInput() service.UpdateInstallationInput {
	return service.UpdateInstallationInput{
		Name:             r.Name,
		Dealership:       r.Dealership,
		InstallationType: r.InstallationType,
		SalesWeight:      r.SalesWeight,
		ExhibitionCount:  r.ExhibitionCount,
	}
}

type createInstallationTypeRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code"`
}

func (r createInstallationTypeRequest) toInput() service.CreateInstallationTypeInput {
	return service.CreateInstallationTypeInput{Name: r.Name, Code: r.Code}
}

type updateInstallationTypeRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

func (r updateInstallationTypeRequest) toInput() service.UpdateInstallationTypeInput {
	return service.UpdateInstallationTypeInput{Name: r.Name, Code: r.Code}
}

type createCriterionTypeRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r createCriterionTypeRequest) toInput() service.CreateCriterionTypeInput {
	return service.CreateCriterionTypeInput{Name: r.Name}
}

type updateCriterionTypeRequest struct {
	Name *string `json:"name"`
}

func (r updateCriterionTypeRequest) toInput() service.UpdateCriterionTypeInput {
	return service.UpdateCriterionTypeInput{Name: r.Name}
}

type createResponsableRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (r createResponsableRequest) toInput() service.CreateResponsableInput {
	return service.CreateResponsableInput{Name: r.Name, Email: r.Email}
}

type updateResponsableRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (r updateResponsableRequest) toInput() service.UpdateResponsableInput {
	return service.UpdateResponsableInput{Name: r.Name, Email: r.Email}
}
