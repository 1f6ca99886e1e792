// Package models defines the five-level scoring tree: Category → Block →
// Area → Standard → Criterion.
//
// Invariants:
//   - Every non-root abbreviation equals parent.Abbreviation + "." + Number
//     at creation; renumbering replaces only the trailing segment so manual
//     edits higher up the string survive.
//   - Value fields on Standard/Area/Block/Category equal the sum of the
//     criterion values beneath them. Only Criterion.Value is settable; all
//     ancestor values are maintained as deltas by the service layer.
//   - Denormalized ancestor ids (a Criterion carries its Standard, Area,
//     Block and Category) are populated once at creation from the parent
//     chain and only ever touched by the controlled mutation paths.
package models

import (
	"time"

	"dealeraudit/pkg/domain"
)

// Category is the tree root. Its abbreviation is user-supplied, never
// derived, and is unique together with the name inside one isAgency
// partition: agency and non-agency trees may reuse both independently.
type Category struct {
	ID           domain.CategoryID `json:"id"`
	Name         string            `json:"name"`
	Abbreviation string            `json:"abbreviation"`
	Value        float64           `json:"value"`
	IsAgency     bool              `json:"isAgency"`
	CategoryType string            `json:"categoryType,omitempty"`
	Blocks       []domain.BlockID  `json:"blocks"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type Block struct {
	ID           domain.BlockID    `json:"id"`
	Name         string            `json:"name"`
	Number       float64           `json:"number"`
	Category     domain.CategoryID `json:"category"`
	Abbreviation string            `json:"category_abbreviation"`
	Value        float64           `json:"value"`
	IsAgency     bool              `json:"isAgency"`
	Areas        []domain.AreaID   `json:"areas"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type Area struct {
	ID           domain.AreaID       `json:"id"`
	Name         string              `json:"name"`
	Number       float64             `json:"number"`
	Block        domain.BlockID      `json:"block"`
	Category     domain.CategoryID   `json:"category"`
	Abbreviation string              `json:"area_abbreviation"`
	Value        float64             `json:"value"`
	IsException  bool                `json:"isException"`
	IsAgency     bool                `json:"isAgency"`
	Standards    []domain.StandardID `json:"standards"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type Standard struct {
	ID           domain.StandardID    `json:"id"`
	Description  string               `json:"description"`
	Number       float64              `json:"number"`
	Area         domain.AreaID        `json:"area"`
	Block        domain.BlockID       `json:"block"`
	Category     domain.CategoryID    `json:"category"`
	Abbreviation string               `json:"standard_abbreviation"`
	Value        float64              `json:"value"`
	IsCore       bool                 `json:"isCore"`
	IsException  bool                 `json:"isException"`
	Comment      string               `json:"comment,omitempty"`
	Criterions   []domain.CriterionID `json:"criterions"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Criterion is the leaf. Value is the authoritative weight that rolls up
// the whole chain. Exceptions lists installations the criterion never
// applies to, regardless of any per-audit overrides.
type Criterion struct {
	ID                domain.CriterionID          `json:"id"`
	Description       string                      `json:"description"`
	Number            float64                     `json:"number"`
	Value             float64                     `json:"value"`
	Standard          domain.StandardID           `json:"standard"`
	Area              domain.AreaID               `json:"area"`
	Block             domain.BlockID              `json:"block"`
	Category          domain.CategoryID           `json:"category"`
	Abbreviation      string                      `json:"criterion_abbreviation"`
	InstallationTypes []domain.InstallationTypeID `json:"installationType"`
	AuditResponsable  domain.ResponsableID        `json:"auditResponsable,omitempty"`
	CriterionType     domain.CriterionTypeID      `json:"criterionType,omitempty"`
	IsException       bool                        `json:"isException"`
	Exceptions        []domain.InstallationID     `json:"exceptions"`
	IsHmeAudit        bool                        `json:"isHmeAudit"`
	IsImgAudit        bool                        `json:"isImgAudit"`
	IsElectricAudit   bool                        `json:"isElectricAudit"`
	Photo             bool                        `json:"photo"`
	SaleCriterion     bool                        `json:"saleCriterion"`
	HmeCode           string                      `json:"hmeCode,omitempty"`
	HmesComment       string                      `json:"hmesComment,omitempty"`
	ImageURL          string                      `json:"imageUrl,omitempty"`
	ImageComment      string                      `json:"imageComment,omitempty"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}
