package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dealeraudit/internal/audits/models"
	"dealeraudit/internal/events"
	"dealeraudit/internal/notify"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
	"dealeraudit/pkg/platform/sets"
	"dealeraudit/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

// CriterionEntryInput is one entry of the audit's ordered criteria list.
type CriterionEntryInput struct {
	Criterion  domain.CriterionID
	Exceptions []domain.InstallationID
}

type CreateAuditInput struct {
	Name                   string
	StartDate              string
	EndDate                string
	Installations          []domain.InstallationID
	InstallationExceptions []domain.InstallationID
	Criterions             []CriterionEntryInput
	AuditResponsables      []domain.ResponsableID
}

type UpdateAuditInput struct {
	Name                   *string
	StartDate              *string
	EndDate                *string
	Installations          []domain.InstallationID
	InstallationExceptions []domain.InstallationID
	Criterions             []CriterionEntryInput
	AuditResponsables      []domain.ResponsableID
}

func (s *Service) CreateAudit(ctx context.Context, in CreateAuditInput) (*models.Audit, error) {
	var list dErrors.List
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		list.Addf(dErrors.CodeValidation, "name", "is required")
	}
	checkDate(&list, "start_date", in.StartDate)
	checkDate(&list, "end_date", in.EndDate)
	if err := list.Err(); err != nil {
		return nil, err
	}

	if _, err := s.stores.Audits.FindByName(ctx, in.Name); err == nil {
		return nil, dErrors.NewField(dErrors.CodeConflict, "name", "an audit with this name already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
	}

	installations := sets.Dedupe(in.Installations)
	exceptions := sets.Dedupe(in.InstallationExceptions)
	responsables := sets.Dedupe(in.AuditResponsables)
	criterions := normalizeEntries(in.Criterions)

	if err := s.checkAuditRefs(ctx, installations, exceptions, criterions, responsables); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	audit := &models.Audit{
		ID:                     domain.NewAuditID(),
		Name:                   in.Name,
		Status:                 models.StatusCreated,
		StartDate:              in.StartDate,
		EndDate:                in.EndDate,
		Installations:          installations,
		InstallationExceptions: exceptions,
		Criterions:             criterions,
		AuditResponsables:      responsables,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.stores.Audits.Create(ctx, audit); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create audit")
	}

	s.countCreated("audit")
	s.publish(ctx, events.Event{
		Kind:     "audit",
		Action:   events.ActionCreated,
		EntityID: audit.ID.String(),
		Actor:    requestcontext.User(ctx),
	})
	return audit, nil
}

func (s *Service) GetAudit(ctx context.Context, id domain.AuditID) (*models.Audit, error) {
	audit, err := s.stores.Audits.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}
	return audit, nil
}

func (s *Service) ListAudits(ctx context.Context) ([]*models.Audit, error) {
	audits, err := s.stores.Audits.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list audits")
	}
	return audits, nil
}

func (s *Service) ListAuditsByStatus(ctx context.Context, status models.Status) ([]*models.Audit, error) {
	if !status.Valid() {
		return nil, dErrors.NewField(dErrors.CodeValidation, "status", "is not a known audit status")
	}
	audits, err := s.stores.Audits.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list audits")
	}
	return audits, nil
}

func (s *Service) UpdateAudit(ctx context.Context, id domain.AuditID, in UpdateAuditInput) (*models.Audit, error) {
	audit, err := s.stores.Audits.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}
	if audit.Status == models.StatusClosed {
		return nil, dErrors.New(dErrors.CodeConflict, "a closed audit cannot be modified")
	}

	var list dErrors.List
	if in.StartDate != nil {
		checkDate(&list, "start_date", *in.StartDate)
	}
	if in.EndDate != nil {
		checkDate(&list, "end_date", *in.EndDate)
	}
	if err := list.Err(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dErrors.NewField(dErrors.CodeValidation, "name", "must not be empty")
		}
		existing, err := s.stores.Audits.FindByName(ctx, name)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "uniqueness check failed")
		}
		if err == nil && existing.ID != id {
			return nil, dErrors.NewField(dErrors.CodeConflict, "name", "an audit with this name already exists")
		}
		audit.Name = name
	}

	installations := sets.Dedupe(in.Installations)
	exceptions := sets.Dedupe(in.InstallationExceptions)
	responsables := sets.Dedupe(in.AuditResponsables)
	criterions := normalizeEntries(in.Criterions)

	// Only re-check reference sets the caller actually replaced.
	var checkInstalls, checkExceptions []domain.InstallationID
	var checkCriterions []models.AuditCriterion
	var checkResponsables []domain.ResponsableID
	if in.Installations != nil {
		checkInstalls = installations
	}
	if in.InstallationExceptions != nil {
		checkExceptions = exceptions
	}
	if in.Criterions != nil {
		checkCriterions = criterions
	}
	if in.AuditResponsables != nil {
		checkResponsables = responsables
	}
	if err := s.checkAuditRefs(ctx, checkInstalls, checkExceptions, checkCriterions, checkResponsables); err != nil {
		return nil, err
	}

	if in.StartDate != nil {
		audit.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		audit.EndDate = *in.EndDate
	}
	if in.Installations != nil {
		audit.Installations = installations
	}
	if in.InstallationExceptions != nil {
		audit.InstallationExceptions = exceptions
	}
	if in.Criterions != nil {
		audit.Criterions = mergeRecordedValues(audit.Criterions, criterions)
	}
	if in.AuditResponsables != nil {
		audit.AuditResponsables = responsables
	}
	audit.UpdatedAt = requestcontext.Now(ctx)

	if err := s.stores.Audits.Save(ctx, audit); err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "audit",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return audit, nil
}

func (s *Service) DeleteAudit(ctx context.Context, id domain.AuditID) (*models.Audit, error) {
	audit, err := s.stores.Audits.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}
	if err := s.stores.Audits.Delete(ctx, id); err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}

	s.countDeleted("audit")
	s.publish(ctx, events.Event{
		Kind:     "audit",
		Action:   events.ActionDeleted,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
	})
	return audit, nil
}

// ChangeAuditStatus moves the audit to a new lifecycle state. Transitions
// to planned, review and closed notify the responsables; delivery is
// best-effort and never fails the transition.
func (s *Service) ChangeAuditStatus(ctx context.Context, id domain.AuditID, status models.Status) (*models.Audit, error) {
	if !status.Valid() {
		return nil, dErrors.NewField(dErrors.CodeValidation, "status", "is not a known audit status")
	}

	audit, err := s.stores.Audits.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}
	if audit.Status == status {
		return audit, nil
	}
	if audit.Status == models.StatusClosed {
		return nil, dErrors.New(dErrors.CodeConflict, "a closed audit cannot be reopened")
	}

	audit.Status = status
	audit.UpdatedAt = requestcontext.Now(ctx)
	if err := s.stores.Audits.Save(ctx, audit); err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}

	switch status {
	case models.StatusPlanned:
		s.sendNotification(ctx, notify.AuditPlanned(audit.Name, audit.StartDate, audit.EndDate))
	case models.StatusReview:
		s.sendNotification(ctx, notify.AuditInReview(audit.Name))
	case models.StatusClosed:
		s.sendNotification(ctx, notify.AuditClosed(audit.Name))
	}

	s.countTransition(string(status))
	s.publish(ctx, events.Event{
		Kind:     "audit",
		Action:   events.ActionStatusChanged,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
		Detail:   string(status),
	})
	return audit, nil
}

// SetCriterionValue records a field result on one audit criterion entry.
// Passing nil clears the recorded value.
func (s *Service) SetCriterionValue(ctx context.Context, id domain.AuditID, criterionID domain.CriterionID, value *float64) (*models.Audit, error) {
	audit, err := s.stores.Audits.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}
	if audit.Status == models.StatusClosed {
		return nil, dErrors.New(dErrors.CodeConflict, "a closed audit cannot be modified")
	}

	found := false
	for i := range audit.Criterions {
		if audit.Criterions[i].Criterion == criterionID {
			audit.Criterions[i].Value = value
			found = true
			break
		}
	}
	if !found {
		return nil, dErrors.NewField(dErrors.CodeNotFound, "criterion", "is not part of this audit")
	}

	audit.UpdatedAt = requestcontext.Now(ctx)
	if err := s.stores.Audits.Save(ctx, audit); err != nil {
		return nil, wrapStoreErr(err, "audit not found")
	}

	s.publish(ctx, events.Event{
		Kind:     "audit",
		Action:   events.ActionUpdated,
		EntityID: id.String(),
		Actor:    requestcontext.User(ctx),
		Detail:   "criterion value recorded",
	})
	return audit, nil
}

func checkDate(list *dErrors.List, field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		list.Addf(dErrors.CodeValidation, field, "must be a yyyy-mm-dd date")
	}
}

// normalizeEntries dedupes each entry's exception list while keeping the
// entry order exactly as submitted; the order is the resolution order.
func normalizeEntries(entries []CriterionEntryInput) []models.AuditCriterion {
	if entries == nil {
		return nil
	}
	out := make([]models.AuditCriterion, len(entries))
	for i, entry := range entries {
		out[i] = models.AuditCriterion{
			Criterion:  entry.Criterion,
			Exceptions: sets.Dedupe(entry.Exceptions),
		}
	}
	return out
}

// mergeRecordedValues carries recorded values over to a replacement
// criteria list so re-ordering or re-scoping an audit does not erase
// results already captured in the field.
func mergeRecordedValues(old, replacement []models.AuditCriterion) []models.AuditCriterion {
	recorded := make(map[domain.CriterionID]*float64, len(old))
	for _, entry := range old {
		if entry.Value != nil {
			recorded[entry.Criterion] = entry.Value
		}
	}
	for i := range replacement {
		if v, ok := recorded[replacement[i].Criterion]; ok {
			replacement[i].Value = v
		}
	}
	return replacement
}

// checkAuditRefs validates every referenced record concurrently and joins
// the checks before the error list is evaluated. Missing references come
// back as one accumulated validation list; infrastructure failures abort.
func (s *Service) checkAuditRefs(ctx context.Context, installations, exceptions []domain.InstallationID, criterions []models.AuditCriterion, responsables []domain.ResponsableID) error {
	type result struct {
		field string
		err   error
	}

	entryExceptions := make([]domain.InstallationID, 0)
	for _, entry := range criterions {
		entryExceptions = append(entryExceptions, entry.Exceptions...)
	}
	entryExceptions = sets.Dedupe(entryExceptions)

	total := len(installations) + len(exceptions) + len(entryExceptions) + len(responsables)
	results := make([]result, total)

	g, gctx := errgroup.WithContext(ctx)
	i := 0
	check := func(field string, run func(context.Context) error) {
		idx := i
		g.Go(func() error {
			results[idx] = result{field, run(gctx)}
			return nil
		})
		i++
	}
	for _, id := range installations {
		id := id
		check("installations", func(ctx context.Context) error { return s.masterdata.InstallationExists(ctx, id) })
	}
	for _, id := range exceptions {
		id := id
		check("installation_exceptions", func(ctx context.Context) error { return s.masterdata.InstallationExists(ctx, id) })
	}
	for _, id := range entryExceptions {
		id := id
		check("criterions.exceptions", func(ctx context.Context) error { return s.masterdata.InstallationExists(ctx, id) })
	}
	for _, id := range responsables {
		id := id
		check("auditResponsables", func(ctx context.Context) error { return s.masterdata.ResponsableExists(ctx, id) })
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

	if err := s.checkCriterionIDs(ctx, criterions, &list); err != nil {
		return err
	}
	return list.Err()
}

// checkCriterionIDs verifies every listed criterion still exists in the
// scoring tree.
func (s *Service) checkCriterionIDs(ctx context.Context, criterions []models.AuditCriterion, list *dErrors.List) error {
	if len(criterions) == 0 {
		return nil
	}
	ids := make([]domain.CriterionID, len(criterions))
	for i, entry := range criterions {
		ids[i] = entry.Criterion
	}
	found, err := s.criteria.FindByIDs(ctx, sets.Dedupe(ids))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "criterion lookup failed")
	}
	known := make(map[domain.CriterionID]struct{}, len(found))
	for _, c := range found {
		known[c.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			list.Addf(dErrors.CodeValidation, "criterions", "references a criterion that does not exist")
		}
	}
	return nil
}
