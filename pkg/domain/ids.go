// Package domain holds the typed identifiers shared across the audit
// backend. Distinct UUID-backed types keep a CategoryID from ever being
// passed where an InstallationID is expected; the compiler enforces what
// the document store cannot.
package domain

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"

	dErrors "dealeraudit/pkg/domain-errors"
)

// Hierarchy identifiers, one per tree level.
type (
	CategoryID  uuid.UUID
	BlockID     uuid.UUID
	AreaID      uuid.UUID
	StandardID  uuid.UUID
	CriterionID uuid.UUID
)

// Master-data and audit identifiers.
type (
	DealershipID       uuid.UUID
	InstallationID     uuid.UUID
	InstallationTypeID uuid.UUID
	CriterionTypeID    uuid.UUID
	ResponsableID      uuid.UUID
	AuditID            uuid.UUID
)

func (id CategoryID) String() string  { return uuid.UUID(id).String() }
func (id BlockID) String() string     { return uuid.UUID(id).String() }
func (id AreaID) String() string      { return uuid.UUID(id).String() }
func (id StandardID) String() string  { return uuid.UUID(id).String() }
func (id CriterionID) String() string { return uuid.UUID(id).String() }

func (id DealershipID) String() string       { return uuid.UUID(id).String() }
func (id InstallationID) String() string     { return uuid.UUID(id).String() }
func (id InstallationTypeID) String() string { return uuid.UUID(id).String() }
func (id CriterionTypeID) String() string    { return uuid.UUID(id).String() }
func (id ResponsableID) String() string      { return uuid.UUID(id).String() }
func (id AuditID) String() string            { return uuid.UUID(id).String() }

func (id CategoryID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id BlockID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AreaID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id StandardID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CriterionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id DealershipID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id InstallationID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id InstallationTypeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CriterionTypeID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ResponsableID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep the typed ids transparent to encoding/json.

func (id CategoryID) MarshalText() ([]byte, error)  { return marshalID(uuid.UUID(id)) }
func (id BlockID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id AreaID) MarshalText() ([]byte, error)      { return marshalID(uuid.UUID(id)) }
func (id StandardID) MarshalText() ([]byte, error)  { return marshalID(uuid.UUID(id)) }
func (id CriterionID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }

func (id DealershipID) MarshalText() ([]byte, error)       { return marshalID(uuid.UUID(id)) }
func (id InstallationID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id InstallationTypeID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id CriterionTypeID) MarshalText() ([]byte, error)    { return marshalID(uuid.UUID(id)) }
func (id ResponsableID) MarshalText() ([]byte, error)      { return marshalID(uuid.UUID(id)) }
func (id AuditID) MarshalText() ([]byte, error)            { return marshalID(uuid.UUID(id)) }

func (id *CategoryID) UnmarshalText(b []byte) error  { return unmarshalID((*uuid.UUID)(id), b) }
func (id *BlockID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *AreaID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *StandardID) UnmarshalText(b []byte) error  { return unmarshalID((*uuid.UUID)(id), b) }
func (id *CriterionID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }

func (id *DealershipID) UnmarshalText(b []byte) error       { return unmarshalID((*uuid.UUID)(id), b) }
func (id *InstallationID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *InstallationTypeID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *CriterionTypeID) UnmarshalText(b []byte) error    { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ResponsableID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *AuditID) UnmarshalText(b []byte) error            { return unmarshalID((*uuid.UUID)(id), b) }

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func unmarshalID(dst *uuid.UUID, b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid id format")
	}
	*dst = u
	return nil
}

// Scan/Value let the typed ids pass through database/sql unchanged.

func (id CategoryID) Value() (driver.Value, error)  { return uuid.UUID(id).String(), nil }
func (id BlockID) Value() (driver.Value, error)     { return uuid.UUID(id).String(), nil }
func (id AreaID) Value() (driver.Value, error)      { return uuid.UUID(id).String(), nil }
func (id StandardID) Value() (driver.Value, error)  { return uuid.UUID(id).String(), nil }
func (id CriterionID) Value() (driver.Value, error) { return uuid.UUID(id).String(), nil }

func (id DealershipID) Value() (driver.Value, error)       { return uuid.UUID(id).String(), nil }
func (id InstallationID) Value() (driver.Value, error)     { return uuid.UUID(id).String(), nil }
func (id InstallationTypeID) Value() (driver.Value, error) { return uuid.UUID(id).String(), nil }
func (id CriterionTypeID) Value() (driver.Value, error)    { return uuid.UUID(id).String(), nil }
func (id ResponsableID) Value() (driver.Value, error)      { return uuid.UUID(id).String(), nil }
func (id AuditID) Value() (driver.Value, error)            { return uuid.UUID(id).String(), nil }

func (id *CategoryID) Scan(src any) error  { return scanID((*uuid.UUID)(id), src) }
func (id *BlockID) Scan(src any) error     { return scanID((*uuid.UUID)(id), src) }
func (id *AreaID) Scan(src any) error      { return scanID((*uuid.UUID)(id), src) }
func (id *StandardID) Scan(src any) error  { return scanID((*uuid.UUID)(id), src) }
func (id *CriterionID) Scan(src any) error { return scanID((*uuid.UUID)(id), src) }

func (id *DealershipID) Scan(src any) error       { return scanID((*uuid.UUID)(id), src) }
func (id *InstallationID) Scan(src any) error     { return scanID((*uuid.UUID)(id), src) }
func (id *InstallationTypeID) Scan(src any) error { return scanID((*uuid.UUID)(id), src) }
func (id *CriterionTypeID) Scan(src any) error    { return scanID((*uuid.UUID)(id), src) }
func (id *ResponsableID) Scan(src any) error      { return scanID((*uuid.UUID)(id), src) }
func (id *AuditID) Scan(src any) error            { return scanID((*uuid.UUID)(id), src) }

func scanID(dst *uuid.UUID, src any) error {
	switch v := src.(type) {
	case nil:
		*dst = uuid.Nil
		return nil
	case string:
		u, err := uuid.Parse(v)
		if err != nil {
			return fmt.Errorf("scan id: %w", err)
		}
		*dst = u
		return nil
	case []byte:
		u, err := uuid.Parse(string(v))
		if err != nil {
			return fmt.Errorf("scan id: %w", err)
		}
		*dst = u
		return nil
	default:
		return fmt.Errorf("scan id: unsupported source type %T", src)
	}
}

// parseID enforces the shared invariant: ids must be valid, non-nil UUIDs.
func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid id format")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil uuid")
	}
	return u, nil
}

func ParseCategoryID(raw string) (CategoryID, error) {
	u, err := parseID(raw)
	return CategoryID(u), err
}

func ParseBlockID(raw string) (BlockID, error) {
	u, err := parseID(raw)
	return BlockID(u), err
}

func ParseAreaID(raw string) (AreaID, error) {
	u, err := parseID(raw)
	return AreaID(u), err
}

func ParseStandardID(raw string) (StandardID, error) {
	u, err := parseID(raw)
	return StandardID(u), err
}

func ParseCriterionID(raw string) (CriterionID, error) {
	u, err := parseID(raw)
	return CriterionID(u), err
}

func ParseDealershipID(raw string) (DealershipID, error) {
	u, err := parseID(raw)
	return DealershipID(u), err
}

func ParseInstallationID(raw string) (InstallationID, error) {
	u, err := parseID(raw)
	return InstallationID(u), err
}

func ParseInstallationTypeID(raw string) (InstallationTypeID, error) {
	u, err := parseID(raw)
	return InstallationTypeID(u), err
}

func ParseCriterionTypeID(raw string) (CriterionTypeID, error) {
	u, err := parseID(raw)
	return CriterionTypeID(u), err
}

func ParseResponsableID(raw string) (ResponsableID, error) {
	u, err := parseID(raw)
	return ResponsableID(u), err
}

func ParseAuditID(raw string) (AuditID, error) {
	u, err := parseID(raw)
	return AuditID(u), err
}

func NewCategoryID() CategoryID   { return CategoryID(uuid.New()) }
func NewBlockID() BlockID         { return BlockID(uuid.New()) }
func NewAreaID() AreaID           { return AreaID(uuid.New()) }
func NewStandardID() StandardID   { return StandardID(uuid.New()) }
func NewCriterionID() CriterionID { return CriterionID(uuid.New()) }

func NewDealershipID() DealershipID             { return DealershipID(uuid.New()) }
func NewInstallationID() InstallationID         { return InstallationID(uuid.New()) }
func NewInstallationTypeID() InstallationTypeID { return InstallationTypeID(uuid.New()) }
func NewCriterionTypeID() CriterionTypeID       { return CriterionTypeID(uuid.New()) }
func NewResponsableID() ResponsableID           { return ResponsableID(uuid.New()) }
func NewAuditID() AuditID                       { return AuditID(uuid.New()) }
