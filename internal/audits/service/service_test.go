package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/audits/models"
	"dealeraudit/internal/audits/store"
	hmodels "dealeraudit/internal/hierarchy/models"
	hstore "dealeraudit/internal/hierarchy/store"
	mdservice "dealeraudit/internal/masterdata/service"
	mdstore "dealeraudit/internal/masterdata/store"
	"dealeraudit/internal/sizing"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
)

type sentMessage struct {
	Subject string
	HTML    string
}

type captureNotifier struct {
	sent []sentMessage
}

func (n *captureNotifier) Send(_ context.Context, subject, htmlBody string) error {
	n.sent = append(n.sent, sentMessage{Subject: subject, HTML: htmlBody})
	return nil
}

type AuditServiceSuite struct {
	suite.Suite

	stores     store.Stores
	criteria   hstore.CriterionStore
	masterdata *mdservice.Service
	notifier   *captureNotifier
	service    *Service
	ctx        context.Context

	dealership   domain.DealershipID
	installType  domain.InstallationTypeID
	installation domain.InstallationID
	otherInstall domain.InstallationID
	responsable  domain.ResponsableID
}

func TestAuditServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceSuite))
}

func (s *AuditServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = store.NewMemoryStores()
	s.notifier = &captureNotifier{}

	hierStores := hstore.NewMemoryStores()
	s.criteria = hierStores.Criterions

	s.masterdata = mdservice.New(mdstore.NewMemoryStores())
	s.service = New(s.stores, s.criteria, s.masterdata, WithNotifier(s.notifier))

	dealership, err := s.masterdata.CreateDealership(s.ctx, mdservice.CreateDealershipInput{
		Name:                "North Motors",
		PostSaleDailyIncome: 1200,
		ReferentialSales:    350,
	})
	s.Require().NoError(err)
	s.dealership = dealership.ID

	installType, err := s.masterdata.CreateInstallationType(s.ctx, mdservice.CreateInstallationTypeInput{
		Name: "Principal installation",
		Code: "IP",
	})
	s.Require().NoError(err)
	s.installType = installType.ID

	s.installation = s.createInstallation("North main site", 60)
	s.otherInstall = s.createInstallation("North annex", 40)

	responsable, err := s.masterdata.CreateResponsable(s.ctx, mdservice.CreateResponsableInput{
		Name:  "Quality lead",
		Email: "quality@example.com",
	})
	s.Require().NoError(err)
	s.responsable = responsable.ID
}

func (s *AuditServiceSuite) createInstallation(name string, weight float64) domain.InstallationID {
	installation, err := s.masterdata.CreateInstallation(s.ctx, mdservice.CreateInstallationInput{
		Name:             name,
		Dealership:       s.dealership,
		InstallationType: s.installType,
		SalesWeight:      weight,
		ExhibitionCount:  8,
	})
	s.Require().NoError(err)
	return installation.ID
}

func (s *AuditServiceSuite) createCriterion(description string, exceptions ...domain.InstallationID) domain.CriterionID {
	criterion := &hmodels.Criterion{
		ID:          domain.NewCriterionID(),
		Description: description,
		Value:       5,
		Exceptions:  exceptions,
	}
	s.Require().NoError(s.criteria.Create(s.ctx, criterion))
	return criterion.ID
}

func (s *AuditServiceSuite) createAudit(name string, entries []CriterionEntryInput, installationExceptions ...domain.InstallationID) *models.Audit {
	audit, err := s.service.CreateAudit(s.ctx, CreateAuditInput{
		Name:                   name,
		StartDate:              "2026-09-07",
		EndDate:                "2026-09-11",
		Installations:          []domain.InstallationID{s.installation, s.otherInstall},
		InstallationExceptions: installationExceptions,
		Criterions:             entries,
		AuditResponsables:      []domain.ResponsableID{s.responsable},
	})
	s.Require().NoError(err)
	return audit
}

func resolvedIDs(resolved []ResolvedCriterion) []domain.CriterionID {
	out := make([]domain.CriterionID, len(resolved))
	for i, entry := range resolved {
		out[i] = entry.Criterion.ID
	}
	return out
}

func (s *AuditServiceSuite) TestCreateAuditValidation() {
	s.Run("missing name and bad dates accumulate", func() {
		_, err := s.service.CreateAudit(s.ctx, CreateAuditInput{
			StartDate: "07/09/2026",
			EndDate:   "soon",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		var list *dErrors.List
		s.Require().ErrorAs(err, &list)
		s.Len(list.Errors(), 3)
	})

	s.Run("missing references reported together", func() {
		_, err := s.service.CreateAudit(s.ctx, CreateAuditInput{
			Name:          "Broken audit",
			Installations: []domain.InstallationID{domain.NewInstallationID()},
			Criterions: []CriterionEntryInput{
				{Criterion: domain.NewCriterionID()},
			},
			AuditResponsables: []domain.ResponsableID{domain.NewResponsableID()},
		})
		s.Require().Error(err)

		var list *dErrors.List
		s.Require().ErrorAs(err, &list)
		s.Len(list.Errors(), 3)
	})

	s.Run("duplicate name rejected", func() {
		s.createAudit("Spring review", nil)
		_, err := s.service.CreateAudit(s.ctx, CreateAuditInput{Name: "spring review"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *AuditServiceSuite) TestGlobalExceptionWins() {
	excepted := s.createCriterion("Signage at entrance", s.installation)
	plain := s.createCriterion("Floor markings")

	audit := s.createAudit("Signage audit", []CriterionEntryInput{
		{Criterion: excepted},
		{Criterion: plain},
	})

	resolved, err := s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Equal([]domain.CriterionID{plain}, resolvedIDs(resolved))

	resolved, err = s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.otherInstall)
	s.Require().NoError(err)
	s.Equal([]domain.CriterionID{excepted, plain}, resolvedIDs(resolved))
}

func (s *AuditServiceSuite) TestPerAuditExceptions() {
	criterion := s.createCriterion("Customer lounge seating")

	audit := s.createAudit("Lounge audit", []CriterionEntryInput{
		{Criterion: criterion, Exceptions: []domain.InstallationID{s.otherInstall}},
	})

	resolved, err := s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Len(resolved, 1)

	resolved, err = s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.otherInstall)
	s.Require().NoError(err)
	s.Empty(resolved)
}

func (s *AuditServiceSuite) TestWholeInstallationExemption() {
	criterion := s.createCriterion("Workshop cleanliness")

	audit := s.createAudit("Exempt audit", []CriterionEntryInput{
		{Criterion: criterion},
	}, s.installation)

	resolved, err := s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Empty(resolved)

	resolved, err = s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.otherInstall)
	s.Require().NoError(err)
	s.Len(resolved, 1)
}

func (s *AuditServiceSuite) TestResolutionOrderAndIdempotence() {
	first := s.createCriterion("First check")
	second := s.createCriterion("Second check")
	third := s.createCriterion("Third check")

	audit := s.createAudit("Ordered audit", []CriterionEntryInput{
		{Criterion: third},
		{Criterion: first},
		{Criterion: second},
	})

	want := []domain.CriterionID{third, first, second}

	resolved, err := s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Equal(want, resolvedIDs(resolved))

	again, err := s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Equal(resolved, again)
}

func (s *AuditServiceSuite) TestResolutionSkipsDeletedCriteria() {
	kept := s.createCriterion("Kept check")
	removed := s.createCriterion("Removed check")

	audit := s.createAudit("Stale audit", []CriterionEntryInput{
		{Criterion: removed},
		{Criterion: kept},
	})

	s.Require().NoError(s.criteria.Delete(s.ctx, removed))

	resolved, err := s.service.ResolveApplicableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Equal([]domain.CriterionID{kept}, resolvedIDs(resolved))
}

func (s *AuditServiceSuite) TestStatusTransitions() {
	audit := s.createAudit("Lifecycle audit", nil)
	s.Equal(models.StatusCreated, audit.Status)

	s.Run("planned notifies with the schedule", func() {
		updated, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusPlanned)
		s.Require().NoError(err)
		s.Equal(models.StatusPlanned, updated.Status)
		s.Require().Len(s.notifier.sent, 1)
		s.Contains(s.notifier.sent[0].Subject, "Lifecycle audit")
		s.Contains(s.notifier.sent[0].HTML, "2026-09-07")
	})

	s.Run("inProcess is silent", func() {
		_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusInProcess)
		s.Require().NoError(err)
		s.Len(s.notifier.sent, 1)
	})

	s.Run("review and closed notify", func() {
		_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusReview)
		s.Require().NoError(err)
		_, err = s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusClosed)
		s.Require().NoError(err)
		s.Require().Len(s.notifier.sent, 3)
		s.Contains(s.notifier.sent[1].Subject, "review")
		s.Contains(s.notifier.sent[2].Subject, "closed")
	})

	s.Run("closed audits stay closed", func() {
		_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusInProcess)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown status rejected", func() {
		_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.Status("archived"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuditServiceSuite) TestRepeatedTransitionIsNoop() {
	audit := s.createAudit("Repeat audit", nil)

	_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusPlanned)
	s.Require().NoError(err)
	_, err = s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusPlanned)
	s.Require().NoError(err)
	s.Len(s.notifier.sent, 1)
}

func (s *AuditServiceSuite) TestSetCriterionValue() {
	criterion := s.createCriterion("Recorded check")
	audit := s.createAudit("Value audit", []CriterionEntryInput{
		{Criterion: criterion},
	})

	value := 4.5
	updated, err := s.service.SetCriterionValue(s.ctx, audit.ID, criterion, &value)
	s.Require().NoError(err)
	s.Require().NotNil(updated.Criterions[0].Value)
	s.InDelta(4.5, *updated.Criterions[0].Value, 1e-9)

	s.Run("value survives a criteria list update", func() {
		other := s.createCriterion("Added later")
		reordered, err := s.service.UpdateAudit(s.ctx, audit.ID, UpdateAuditInput{
			Criterions: []CriterionEntryInput{
				{Criterion: other},
				{Criterion: criterion},
			},
		})
		s.Require().NoError(err)
		s.Nil(reordered.Criterions[0].Value)
		s.Require().NotNil(reordered.Criterions[1].Value)
		s.InDelta(4.5, *reordered.Criterions[1].Value, 1e-9)
	})

	s.Run("unknown criterion rejected", func() {
		_, err := s.service.SetCriterionValue(s.ctx, audit.ID, domain.NewCriterionID(), &value)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("closed audit rejects recording", func() {
		_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusClosed)
		s.Require().NoError(err)
		_, err = s.service.SetCriterionValue(s.ctx, audit.ID, criterion, &value)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *AuditServiceSuite) TestFillableCriteria() {
	sized := s.createCriterion("Customer parking spots")
	plain := s.createCriterion("Signage condition")

	catalog, err := sizing.NewCatalog(map[domain.CriterionID]sizing.Kind{
		sized: sizing.KindCustomerParkingSpots,
	})
	s.Require().NoError(err)
	s.service = New(s.stores, s.criteria, s.masterdata,
		WithNotifier(s.notifier), WithSizing(catalog))

	audit := s.createAudit("Sizing audit", []CriterionEntryInput{
		{Criterion: sized},
		{Criterion: plain},
	})

	// installation weight 60, income 1200, referential sales 350:
	// salesXReferential = 210, IP column of the parking table = 10.
	fillable, err := s.service.FillableCriteria(s.ctx, audit.ID, s.installation)
	s.Require().NoError(err)
	s.Require().Len(fillable, 2)

	s.True(fillable[0].IsCalc)
	s.Require().NotNil(fillable[0].Computed)
	s.InDelta(10.0, *fillable[0].Computed, 1e-9)

	s.False(fillable[1].IsCalc)
	s.Nil(fillable[1].Computed)
}

func (s *AuditServiceSuite) TestClosedAuditRejectsUpdates() {
	audit := s.createAudit("Frozen audit", nil)
	_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusClosed)
	s.Require().NoError(err)

	name := "Renamed"
	_, err = s.service.UpdateAudit(s.ctx, audit.ID, UpdateAuditInput{Name: &name})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *AuditServiceSuite) TestNotFound() {
	_, err := s.service.GetAudit(s.ctx, domain.NewAuditID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.ResolveApplicableCriteria(s.ctx, domain.NewAuditID(), s.installation)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	audit := s.createAudit("Exists", nil)
	_, err = s.service.ResolveApplicableCriteria(s.ctx, audit.ID, domain.NewInstallationID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AuditServiceSuite) TestNotificationBodiesAreHTML() {
	audit := s.createAudit("Body audit", nil)
	_, err := s.service.ChangeAuditStatus(s.ctx, audit.ID, models.StatusPlanned)
	s.Require().NoError(err)
	s.Require().Len(s.notifier.sent, 1)
	s.True(strings.HasPrefix(s.notifier.sent[0].HTML, "<html>"))
}
