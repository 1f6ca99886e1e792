package handler

import (
	"dealeraudit/internal/hierarchy/service"
	"dealeraudit/pkg/domain"
)

type createCategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
	IsAgency     bool   `json:"is_agency"`
	CategoryType string `json:"category_type"`
}

func (r createCategoryRequest) toInput() service.CreateCategoryInput {
	return service.CreateCategoryInput{
		Name:         r.Name,
		Abbreviation: r.Abbreviation,
		IsAgency:     r.IsAgency,
		CategoryType: r.CategoryType,
	}
}

type updateCategoryRequest struct {
	Name         *string `json:"name"`
	Abbreviation *string `json:"abbreviation"`
	CategoryType *string `json:"category_type"`
}

func (r updateCategoryRequest) toInput() service.UpdateCategoryInput {
	return service.UpdateCategoryInput{
		Name:         r.Name,
		Abbreviation: r.Abbreviation,
		CategoryType: r.CategoryType,
	}
}

type createBlockRequest struct {
	Name     string            `json:"name" validate:"required"`
	Number   *float64          `json:"number" validate:"required,finite"`
	Category domain.CategoryID `json:"category" validate:"required"`
	IsAgency bool              `json:"is_agency"`
}

func (r createBlockRequest) toInput() service.CreateBlockInput {
	return service.CreateBlockInput{
		Name:     r.Name,
		Number:   *r.Number,
		Category: r.Category,
		IsAgency: r.IsAgency,
	}
}

type updateBlockRequest struct {
	Name   *string  `json:"name"`
	Number *float64 `json:"number" validate:"omitempty,finite"`
}

func (r updateBlockRequest) toInput() service.UpdateBlockInput {
	return service.UpdateBlockInput{Name: r.Name, Number: r.Number}
}

type createAreaRequest struct {
	Name        string         `json:"name" validate:"required"`
	Number      *float64       `json:"number" validate:"required,finite"`
	Block       domain.BlockID `json:"block" validate:"required"`
	IsException bool           `json:"is_exception"`
	IsAgency    bool           `json:"is_agency"`
}

func (r createAreaRequest) toInput() service.CreateAreaInput {
	return service.CreateAreaInput{
		Name:        r.Name,
		Number:      *r.Number,
		Block:       r.Block,
		IsException: r.IsException,
		IsAgency:    r.IsAgency,
	}
}

type updateAreaRequest struct {
	Name        *string  `json:"name"`
	Number      *float64 `json:"number" validate:"omitempty,finite"`
	IsException *bool    `json:"is_exception"`
}

func (r updateAreaRequest) toInput() service.UpdateAreaInput {
	return service.UpdateAreaInput{
		Name:        r.Name,
		Number:      r.Number,
		IsException: r.IsException,
	}
}

type createStandardRequest struct {
	Description string        `json:"description" validate:"required"`
	Number      *float64      `json:"number" validate:"required,finite"`
	Area        domain.AreaID `json:"area" validate:"required"`
	IsCore      bool          `json:"is_core"`
	IsException bool          `json:"is_exception"`
	Comment     string        `json:"comment"`
}

func (r createStandardRequest) toInput() service.CreateStandardInput {
	return service.CreateStandardInput{
		Description: r.Description,
		Number:      *r.Number,
		Area:        r.Area,
		IsCore:      r.IsCore,
		IsException: r.IsException,
		Comment:     r.Comment,
	}
}

type updateStandardRequest struct {
	Description *string  `json:"description"`
	Number      *float64 `json:"number" validate:"omitempty,finite"`
	IsCore      *bool    `json:"is_core"`
	IsException *bool    `json:"is_exception"`
	Comment     *string  `json:"comment"`
}

func (r updateStandardRequest) toInput() service.UpdateStandardInput {
	return service.UpdateStandardInput{
		Description: r.Description,
		Number:      r.Number,
		IsCore:      r.IsCore,
		IsException: r.IsException,
		Comment:     r.Comment,
	}
}

type createCriterionRequest struct {
	Description       string                      `json:"description" validate:"required"`
	Number            *float64                    `json:"number" validate:"required,finite"`
	Value             *float64                    `json:"value" validate:"required,finite"`
	Standard          domain.StandardID           `json:"standard" validate:"required"`
	InstallationTypes []domain.InstallationTypeID `json:"installation_types"`
	AuditResponsable  domain.ResponsableID        `json:"audit_responsable"`
	CriterionTypeID   domain.CriterionTypeID      `json:"criterion_type"`
	IsException       bool                        `json:"is_exception"`
	Exceptions        []domain.InstallationID     `json:"exceptions"`
	IsHmeAudit        bool                        `json:"is_hme_audit"`
	IsImgAudit        bool                        `json:"is_img_audit"`
	IsElectricAudit   bool                        `json:"is_electric_audit"`
	Photo             bool                        `json:"photo"`
	SaleCriterion     bool                        `json:"sale_criterion"`
	HmeCode           string                      `json:"hme_code"`
	HmesComment       string                      `json:"hmes_comment"`
	ImageURL          string                      `json:"image_url"`
	ImageComment      string                      `json:"image_comment"`
}

func (r createCriterionRequest) toInput() service.CreateCriterionInput {
	return service.CreateCriterionInput{
		Description:       r.Description,
		Number:            *r.Number,
		Value:             *r.Value,
		Standard:          r.Standard,
		InstallationTypes: r.InstallationTypes,
		AuditResponsable:  r.AuditResponsable,
		CriterionType:     r.CriterionTypeID,
		IsException:       r.IsException,
		Exceptions:        r.Exceptions,
		IsHmeAudit:        r.IsHmeAudit,
		IsImgAudit:        r.IsImgAudit,
		IsElectricAudit:   r.IsElectricAudit,
		Photo:             r.Photo,
		SaleCriterion:     r.SaleCriterion,
		HmeCode:           r.HmeCode,
		HmesComment:       r.HmesComment,
		ImageURL:          r.ImageURL,
		ImageComment:      r.ImageComment,
	}
}

type updateCriterionRequest struct {
	Description       *string                     `json:"description"`
	Number            *float64                    `json:"number" validate:"omitempty,finite"`
	Value             *float64                    `json:"value" validate:"omitempty,finite"`
	InstallationTypes []domain.InstallationTypeID `json:"installation_types"`
	AuditResponsable  *domain.ResponsableID       `json:"audit_responsable"`
	CriterionType     *domain.CriterionTypeID     `json:"criterion_type"`
	IsException       *bool                       `json:"is_exception"`
	Exceptions        []domain.InstallationID     `json:"exceptions"`
	IsHmeAudit        *bool                       `json:"is_hme_audit"`
	IsImgAudit        *bool                       `json:"is_img_audit"`
	IsElectricAudit   *bool                       `json:"is_electric_audit"`
	Photo             *bool                       `json:"photo"`
	SaleCriterion     *bool                       `json:"sale_criterion"`
	HmeCode           *string                     `json:"hme_code"`
	HmesComment       *string                     `json:"hmes_comment"`
	ImageURL          *string                     `json:"image_url"`
	ImageComment      *string                     `json:"image_comment"`
}

func (r updateCriterionRequest) toInput() service.UpdateCriterionInput {
	return service.UpdateCriterionInput{
		Description:       r.Description,
		Number:            r.Number,
		Value:             r.Value,
		InstallationTypes: r.InstallationTypes,
		AuditResponsable:  r.AuditResponsable,
		CriterionType:     r.CriterionType,
		IsException:       r.IsException,
		Exceptions:        r.Exceptions,
		IsHmeAudit:        r.IsHmeAudit,
		IsImgAudit:        r.IsImgAudit,
		IsElectricAudit:   r.IsElectricAudit,
		Photo:             r.Photo,
		SaleCriterion:     r.SaleCriterion,
		HmeCode:           r.HmeCode,
		HmesComment:       r.HmesComment,
		ImageURL:          r.ImageURL,
		ImageComment:      r.ImageComment,
	}
}
