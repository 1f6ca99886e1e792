package service

import (
	"context"

	"dealeraudit/internal/audits/models"
	hmodels "dealeraudit/internal/hierarchy/models"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sets"
)

// ResolvedCriterion is one applicable entry from an audit's criteria
// list, joined with the full criterion record from the scoring tree.
type ResolvedCriterion struct {
	Criterion  *hmodels.Criterion      `json:"criterion"`
	Exceptions []domain.InstallationID `json:"exceptions"`
	Value      *float64                `json:"value,omitempty"`
}

// FillableCriterion is a resolved entry annotated with the sizing
// engine's suggestion. IsCalc marks criteria the engine knows how to
// compute; Computed is nil when the installation's type does not
// participate or the inputs fall outside every table row.
type FillableCriterion struct {
	ResolvedCriterion
	IsCalc   bool     `json:"isCalc"`
	Computed *float64 `json:"computedValue,omitempty"`
}

// ResolveApplicableCriteria returns the audit's criteria that apply to
// one installation, in the audit's original order.
//
// Resolution layers, in priority order:
//  1. an installation listed in the audit's installation exceptions is
//     exempt from the whole audit: the result is empty;
//  2. an entry whose per-audit exceptions list the installation is
//     skipped;
//  3. a criterion whose own global exceptions list the installation is
//     skipped regardless of the audit entry.
//
// The function reads and filters only; calling it repeatedly with the
// same stored state returns identical results.
func (s *Service) ResolveApplicableCriteria(ctx context.Context, auditID domain.AuditID, installationID domain.InstallationID) ([]ResolvedCriterion, error) {
	ctx, span := s.tracer.Start(ctx, "audits.resolve")
	defer span.End()

	audit, err := s.stores.Audits.FindByID(ctx, auditID)
	if err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}
	if err := s.masterdata.InstallationExists(ctx, installationID); err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}

	s.countResolution()

	if sets.Contains(audit.InstallationExceptions, installationID) {
		return []ResolvedCriterion{}, nil
	}

	criteria, err := s.lookupCriteria(ctx, audit)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedCriterion, 0, len(audit.Criterions))
	for _, entry := range audit.Criterions {
		criterion, ok := criteria[entry.Criterion]
		if !ok {
			// Criterion deleted from the tree after the audit was
			// assembled; the stale entry contributes nothing.
			continue
		}
		if sets.Contains(entry.Exceptions, installationID) {
			continue
		}
		if sets.Contains(criterion.Exceptions, installationID) {
			continue
		}
		out = append(out, ResolvedCriterion{
			Criterion:  criterion,
			Exceptions: entry.Exceptions,
			Value:      entry.Value,
		})
	}
	return out, nil
}

// FillableCriteria resolves the applicable criteria for one installation
// and merges in the sizing engine's computed suggestions.
func (s *Service) FillableCriteria(ctx context.Context, auditID domain.AuditID, installationID domain.InstallationID) ([]FillableCriterion, error) {
	resolved, err := s.ResolveApplicableCriteria(ctx, auditID, installationID)
	if err != nil {
		return nil, err
	}

	computed, err := s.computeSizing(ctx, installationID)
	if err != nil {
		return nil, err
	}

	out := make([]FillableCriterion, len(resolved))
	for i, entry := range resolved {
		out[i] = FillableCriterion{ResolvedCriterion: entry}
		if s.catalog == nil || !s.catalog.Bound(entry.Criterion.ID) {
			continue
		}
		out[i].IsCalc = true
		out[i].Computed = computed[entry.Criterion.ID]
	}
	return out, nil
}

// ComputeSizing exposes the raw sizing computation for one installation:
// every bound criterion mapped to its suggested value, nil when the
// installation's type does not participate.
func (s *Service) ComputeSizing(ctx context.Context, installationID domain.InstallationID) (map[domain.CriterionID]*float64, error) {
	if err := s.masterdata.InstallationExists(ctx, installationID); err != nil {
		return nil, wrapStoreErr(err, "installation not found")
	}
	return s.computeSizing(ctx, installationID)
}

func (s *Service) computeSizing(ctx context.Context, installationID domain.InstallationID) (map[domain.CriterionID]*float64, error) {
	if s.catalog == nil {
		return map[domain.CriterionID]*float64{}, nil
	}

	installation, err := s.masterdata.GetInstallation(ctx, installationID)
	if err != nil {
		return nil, err
	}
	dealership, err := s.masterdata.GetDealership(ctx, installation.Dealership)
	if err != nil {
		return nil, err
	}
	installationType, err := s.masterdata.GetInstallationType(ctx, installation.InstallationType)
	if err != nil {
		return nil, err
	}

	s.countSizing()
	return s.catalog.Compute(installation, dealership, installationType.Code), nil
}

func (s *Service) lookupCriteria(ctx context.Context, audit *models.Audit) (map[domain.CriterionID]*hmodels.Criterion, error) {
	ids := make([]domain.CriterionID, len(audit.Criterions))
	for i, entry := range audit.Criterions {
		ids[i] = entry.Criterion
	}
	found, err := s.criteria.FindByIDs(ctx, sets.Dedupe(ids))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "criterion lookup failed")
	}
	byID := make(map[domain.CriterionID]*hmodels.Criterion, len(found))
	for _, criterion := range found {
		byID[criterion.ID] = criterion
	}
	return byID, nil
}
