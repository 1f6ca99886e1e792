package handler

import (
	"dealeraudit/internal/audits/service"
	"dealeraudit/pkg/domain"
)

type auditCriterionRequest struct {
	Criterion  domain.CriterionID      `json:"criterion" validate:"required"`
	Exceptions []domain.InstallationID `json:"exceptions"`
}

func toEntries(entries []auditCriterionRequest) []service.CriterionEntryInput {
	if entries == nil {
		return nil
	}
	out := make([]service.CriterionEntryInput, len(entries))
	for i, entry := range entries {
		out[i] = service.CriterionEntryInput{
			Criterion:  entry.Criterion,
			Exceptions: entry.Exceptions,
		}
	}
	return out
}

type createAuditRequest struct {
	Name                   string                  `json:"name" validate:"required"`
	StartDate              string                  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate                string                  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Installations          []domain.InstallationID `json:"installations"`
	InstallationExceptions []domain.InstallationID `json:"installation_exceptions"`
	Criterions             []auditCriterionRequest `json:"criterions" validate:"dive"`
	AuditResponsables      []domain.ResponsableID  `json:"auditResponsables"`
}

func (r createAuditRequest) toInput() service.CreateAuditInput {
	return service.CreateAuditInput{
		Name:                   r.Name,
		StartDate:              r.StartDate,
		EndDate:                r.EndDate,
		Installations:          r.Installations,
		InstallationExceptions: r.InstallationExceptions,
		Criterions:             toEntries(r.Criterions),
		AuditResponsables:      r.AuditResponsables,
	}
}

type updateAuditRequest struct {
	Name                   *string                 `json:"name"`
	StartDate              *string                 `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate                *string                 `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Installations          []domain.InstallationID `json:"installations"`
	InstallationExceptions []domain.InstallationID `json:"installation_exceptions"`
	Criterions             []auditCriterionRequest `json:"criterions" validate:"dive"`
	AuditResponsables      []domain.ResponsableID  `json:"auditResponsables"`
}

func (r updateAuditRequest) toInput() service.UpdateAuditInput {
	return service.UpdateAuditInput{
		Name:                   r.Name,
		StartDate:              r.StartDate,
		EndDate:                r.EndDate,
		Installations:          r.Installations,
		InstallationExceptions: r.InstallationExceptions,
		Criterions:             toEntries(r.Criterions),
		AuditResponsables:      r.AuditResponsables,
	}
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type setCriterionValueRequest struct {
	Value *float64 `json:"value" validate:"omitempty,finite"`
}
