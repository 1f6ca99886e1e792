// Package models defines audits: the working unit that binds a snapshot
// of the scoring tree's criteria to a set of dealership installations for
// one review cycle.
package models

import (
	"time"

	"dealeraudit/pkg/domain"
)

// Status is the audit lifecycle state.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPlanned   Status = "planned"
	StatusInProcess Status = "inProcess"
	StatusReview    Status = "review"
	StatusClosed    Status = "closed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusPlanned, StatusInProcess, StatusReview, StatusClosed:
		return true
	}
	return false
}

// AuditCriterion is one entry in the audit's ordered criteria list.
// Exceptions lists installations this criterion is skipped for within
// this audit only; the criterion's own global exceptions apply on top.
// Value holds the recorded result once field work fills it in.
type AuditCriterion struct {
	Criterion  domain.CriterionID      `json:"criterion"`
	Exceptions []domain.InstallationID `json:"exceptions"`
	Value      *float64                `json:"value,omitempty"`
}

// Audit covers a set of installations against an ordered criteria list.
// InstallationExceptions exempts whole installations from the audit:
// resolution for an exempted installation yields no criteria at all.
type Audit struct {
	ID                     domain.AuditID          `json:"id"`
	Name                   string                  `json:"name"`
	Status                 Status                  `json:"status"`
	StartDate              string                  `json:"start_date,omitempty"`
	EndDate                string                  `json:"end_date,omitempty"`
	Installations          []domain.InstallationID `json:"installations"`
	InstallationExceptions []domain.InstallationID `json:"installation_exceptions"`
	Criterions             []AuditCriterion        `json:"criterions"`
	AuditResponsables      []domain.ResponsableID  `json:"auditResponsables"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}
