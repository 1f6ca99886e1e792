package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"dealeraudit/internal/events"
	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/platform/sets"
	"dealeraudit/pkg/requestcontext"
)

type CreateCriterionInput struct {
	Description       string
	Number            float64
	Value             float64
	Standard          domain.StandardID
	InstallationTypes []domain.InstallationTypeID
	AuditResponsable  domain.ResponsableID
	CriterionType     domain.CriterionTypeID
	IsException       bool
	Exceptions        []domain.InstallationID
	IsHmeAudit        bool
	IsImgAudit        bool
	IsElectricAudit   bool
	Photo             bool
	SaleCriterion     bool
	HmeCode           string
	HmesComment       string
	ImageURL          string
	ImageComment      string
}

type UpdateCriterionInput struct {
	Description       *string
	Number            *float64
	Value             *float64
	InstallationTypes []domain.InstallationTypeID
	AuditResponsable  *domain.ResponsableID
	CriterionType     *domain.CriterionTypeID
	IsException       *bool
	Exceptions        []domain.InstallationID
	IsHmeAudit        *bool
	IsImgAudit        *bool
	IsElectricAudit   *bool
	Photo             *bool
	SaleCriterion     *bool
	HmeCode           *string
	HmesComment       *string
	ImageURL          *string
	ImageComment      *string
}

func (s *Service) CreateCriterion(ctx context.Context, in CreateCriterionInput) (*models.Criterion, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "description", "is required")
	}

	standard, err := s.stores.Standards.FindByID(ctx, in.Standard)
	if err != nil {
		return nil, wrapStoreErr(err, "standard not found")
	}

	refs := referenceSet{
		installationTypes: sets.Dedupe(in.InstallationTypes),
		installations:     sets.Dedupe(in.Exceptions),
		responsable:       in.AuditResponsable,
		criterionType:     in.CriterionType,
	}
	if err := s.checkReferences(ctx, refs); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	criterion := &models.Criterion{
		ID:                domain.NewCriterionID(),
		Description:       in.Description,
		Number:            in.Number,
		Value:             in.Value,
		Standard:          standard.ID,
		Area:              standard.Area,
		Block:             standard.Block,
		Category:          standard.Category,
		Abbreviation:      models.DeriveAbbreviation(standard.Abbreviation, in.Number),
		InstallationTypes: refs.installationTypes,
		AuditResponsable:  in.AuditResponsable,
		CriterionType:     in.CriterionType,
		IsException:       in.IsException,
		Exceptions:        refs.installations,
		IsHmeAudit:        in.IsHmeAudit,
		IsImgAudit:        in.IsImgAudit,
		IsElectricAudit:   in.IsElectricAudit,
		Photo:             in.Photo,
		SaleCriterion:     in.SaleCriterion,
		HmeCode:           in.HmeCode,
		HmesComment:       in.HmesComment,
		ImageURL:          in.ImageURL,
		ImageComment:      in.ImageComment,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.stores.Criterions.Create(ctx, criterion); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create criterion")
	}

	// Register the leaf and apply its weight to the standard in one save,
	// then continue the delta up the chain from the area.
	standard.Criterions = append(standard.Criterions, criterion.ID)
	standard.Value += in.Value
	standard.UpdatedAt = now
	if err := s.stores.Standards.Save(ctx, standard); err != nil {
		return nil, s.deltaFailed(wrapStoreErr(err, "standard vanished while registering criterion"))
	}
	if err := s.applyAreaDelta(ctx, standard.Area, in.Value); err != nil {
		return nil, err
	}

	s.countCreated("criterion")
	s.publish(ctx, events.Event{
		Kind:     "criterion",
		Action:   events.ActionCreated,
		EntityID: criterion.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return criterion, nil
}

func (s *Service) GetCriterion(ctx context.Context, id domain.CriterionID) (*models.Criterion, error) {
	criterion, err := s.stores.Criterions.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "criterion not found")
	}
	return criterion, nil
}

func (s *Service) ListCriterions(ctx context.Context) ([]*models.Criterion, error) {
	criterions, err := s.stores.Criterions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list criterions")
	}
	return criterions, nil
}

func (s *Service) UpdateCriterion(ctx context.Context, id domain.CriterionID, in UpdateCriterionInput) (*models.Criterion, error) {
	criterion, err := s.stores.Criterions.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "criterion not found")
	}

	refs := referenceSet{
		installationTypes: sets.Dedupe(in.InstallationTypes),
		installations:     sets.Dedupe(in.Exceptions),
	}
	if in.AuditResponsable != nil {
		refs.responsable = *in.AuditResponsable
	}
	if in.CriterionType != nil {
		refs.criterionType = *in.CriterionType
	}
	if err := s.checkReferences(ctx, refs); err != nil {
		return nil, err
	}

	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "description", "must not be empty")
		}
		criterion.Description = description
	}
	if in.Number != nil {
		criterion.Number = *in.Number
		criterion.Abbreviation = models.ReplaceLastSegment(criterion.Abbreviation, models.FormatNumber(*in.Number))
	}

	// diff stays 0 when value was not supplied; the ancestor chain is
	// then skipped entirely.
	var diff float64
	if in.Value != nil {
		diff = *in.Value - criterion.Value
		criterion.Value = *in.Value
	}

	if in.InstallationTypes != nil {
		criterion.InstallationTypes = refs.installationTypes
	}
	if in.AuditResponsable != nil {
		criterion.AuditResponsable = *in.AuditResponsable
	}
	if in.CriterionType != nil {
		criterion.CriterionType = *in.CriterionType
	}
	if in.IsException != nil {
		criterion.IsException = *in.IsException
	}
	if in.Exceptions != nil {
		criterion.Exceptions = refs.installations
	}
	if in.IsHmeAudit != nil {
		criterion.IsHmeAudit = *in.IsHmeAudit
	}
	if in.IsImgAudit != nil {
		criterion.IsImgAudit = *in.IsImgAudit
	}
	if in.IsElectricAudit != nil {
		criterion.IsElectricAudit = *in.IsElectricAudit
	}
	if in.Photo != nil {
		criterion.Photo = *in.Photo
	}
	if in.SaleCriterion != nil {
		criterion.SaleCriterion = *in.SaleCriterion
	}
	if in.HmeCode != nil {
		criterion.HmeCode = *in.HmeCode
	}
	if in.HmesComment != nil {
		criterion.HmesComment = *in.HmesComment
	}
	if in.ImageURL != nil {
		criterion.ImageURL = *in.ImageURL
	}
	if in.ImageComment != nil {
		criterion.ImageComment = *in.ImageComment
	}
	criterion.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Criterions.Save(ctx, criterion); err != nil {
		return nil, wrapStoreErr(err, "criterion not found")
	}
	if err := s.applyStandardDelta(ctx, criterion.Standard, diff); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Kind:     "criterion",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return criterion, nil
}

func (s *Service) DeleteCriterion(ctx context.Context, id domain.CriterionID) (*models.Criterion, error) {
	criterion, err := s.stores.Criterions.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "criterion not found")
	}

	if err := s.stores.Criterions.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "criterion not found")
	}
	if err := s.unregisterCriterion(ctx, criterion); err != nil {
		return nil, err
	}

	s.countDeleted("criterion")
	s.publish(ctx, events.Event{
		Kind:     "criterion",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return criterion, nil
}

// unregisterCriterion removes the leaf from its standard's child list and
// applies the weight decrement in the same save before continuing up.
func (s *Service) unregisterCriterion(ctx context.Context, criterion *models.Criterion) error {
	standard, err := s.stores.Standards.FindByID(ctx, criterion.Standard)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "standard not found during criterion delete"))
	}
	standard.Criterions = sets.Remove(standard.Criterions, criterion.ID)
	standard.Value -= criterion.Value
	standard.UpdatedAt = requestcontext.Now(ctx)
	if err := s.stores.Standards.Save(ctx, standard); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "standard vanished during criterion delete"))
	}
	return s.applyAreaDelta(ctx, standard.Area, -criterion.Value)
}

// referenceSet is the batch of master-data references a criterion carries.
type referenceSet struct {
	installationTypes []domain.InstallationTypeID
	installations     []domain.InstallationID
	responsable       domain.ResponsableID
	criterionType     domain.CriterionTypeID
}

// checkReferences runs every existence check concurrently and joins them
// before the error list is evaluated, so all violations are reported in
// one deterministic response. Infrastructure failures abort the batch.
func (s *Service) checkReferences(ctx context.Context, refs referenceSet) error {
	if s.refs == nil {
		return nil
	}

	type result struct {
		field string
		err   error
	}
	total := len(refs.installationTypes) + len(refs.installations) + 2
	results := make([]result, total)

	g, ctx := errgroup.WithContext(ctx)
	i := 0
	for _, typeID := range refs.installationTypes {
		idx, id := i, typeID
		g.Go(func() error {
			results[idx] = result{"installationType", s.refs.InstallationTypeExists(ctx, id)}
			return nil
		})
		i++
	}
	for _, instID := range refs.installations {
		idx, id := i, instID
		g.Go(func() error {
			results[idx] = result{"exceptions", s.refs.InstallationExists(ctx, id)}
			return nil
		})
		i++
	}
	if !refs.responsable.IsNil() {
		idx, id := i, refs.responsable
		g.Go(func() error {
			results[idx] = result{"auditResponsable", s.refs.ResponsableExists(ctx, id)}
			return nil
		})
	}
	i++
	if !refs.criterionType.IsNil() {
		idx, id := i, refs.criterionType
		g.Go(func() error {
			results[idx] = result{"criterionType", s.refs.CriterionTypeExists(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()

	var list dErrors.List
	for _, res := range results {
		if res.err == nil {
			continue
		}
		if errors.Is(res.err, sentinel.ErrNotFound) {
			list.Addf(dErrors.CodeValidation, res.field, "references a record that does not exist")
			continue
		}
		return dErrors.Wrap(res.err, dErrors.CodeInternal, "reference check failed")
	}
	return list.Err()
}
