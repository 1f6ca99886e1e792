// Package models holds the master-data records the scoring tree and the
// audit workflow reference: dealerships, their installations, installation
// and criterion types, and audit responsables.
package models

import (
	"time"

	"dealeraudit/pkg/domain"
)

// Dealership carries the commercial metrics the sizing engine consumes.
type Dealership struct {
	ID                 domain.DealershipID `json:"id"`
	Name               string              `json:"name"`
	PostSaleDailyIncome float64            `json:"post_sale_daily_income"`
	ReferentialSales   float64             `json:"referential_sales"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Installation is a physical location evaluated by audits. It belongs to
// exactly one dealership and one installation type.
type Installation struct {
	ID               domain.InstallationID     `json:"id"`
	Name             string                    `json:"name"`
	Dealership       domain.DealershipID       `json:"dealership"`
	InstallationType domain.InstallationTypeID `json:"installation_type"`
	// SalesWeight is this installation's share of the dealership's sales,
	// as a percentage.
	SalesWeight     float64   `json:"sales_weight"`
	ExhibitionCount int       `json:"exhibition_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InstallationType classifies installations. Code is the short token the
// sizing tables key their columns on (IP, IS, ECO, AOH).
type InstallationType struct {
	ID        domain.InstallationTypeID `json:"id"`
	Name      string                    `json:"name"`
	Code      string                    `json:"code"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

type CriterionType struct {
	ID        domain.CriterionTypeID `json:"id"`
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Responsable is the person accountable for auditing a criterion.
type Responsable struct {
	ID        domain.ResponsableID `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
