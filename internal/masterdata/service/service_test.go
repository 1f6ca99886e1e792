package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/internal/masterdata/store"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
)

type MasterDataServiceSuite struct {
	suite.Suite

	stores  store.Stores
	service *Service
	ctx     context.Context
}

func TestMasterDataServiceSuite(t *testing.T) {
	suite.Run(t, new(MasterDataServiceSuite))
}

func (s *MasterDataServiceSuite) SetupTest() {
	s.stores = store.NewMemoryStores()
	s.service = New(s.stores)
	s.ctx = context.Background()
}

func (s *MasterDataServiceSuite) createDealership(name string) *models.Dealership {
	dealership, err := s.service.CreateDealership(s.ctx, CreateDealershipInput{
		Name:                name,
		PostSaleDailyIncome: 1200,
		ReferentialSales:    350,
	})
	s.Require().NoError(err)
	return dealership
}

func (s *MasterDataServiceSuite) createInstallationType(name, code string) *models.InstallationType {
	installationType, err := s.service.CreateInstallationType(s.ctx, CreateInstallationTypeInput{
		Name: name,
		Code: code,
	})
	s.Require().NoError(err)
	return installationType
}

func (s *MasterDataServiceSuite) TestDealershipNameUniqueness() {
	s.createDealership("North Motors")

	s.Run("duplicate name rejected", func() {
		_, err := s.service.CreateDealership(s.ctx, CreateDealershipInput{Name: "North Motors"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rename onto an existing name rejected", func() {
		other := s.createDealership("South Motors")
		name := "North Motors"
		_, err := s.service.UpdateDealership(s.ctx, other.ID, UpdateDealershipInput{Name: &name})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("saving own name back is allowed", func() {
		west := s.createDealership("West Motors")
		name := "West Motors"
		income := 2000.0
		updated, err := s.service.UpdateDealership(s.ctx, west.ID, UpdateDealershipInput{
			Name:                &name,
			PostSaleDailyIncome: &income,
		})
		s.Require().NoError(err)
		s.Equal("West Motors", updated.Name)
		s.InDelta(2000.0, updated.PostSaleDailyIncome, 1e-9)
	})
}

func (s *MasterDataServiceSuite) TestInstallationReferenceChecks() {
	dealership := s.createDealership("Harbor Motors")
	showroom := s.createInstallationType("Principal installation", "IP")

	s.Run("valid references accepted", func() {
		installation, err := s.service.CreateInstallation(s.ctx, CreateInstallationInput{
			Name:             "Harbor main site",
			Dealership:       dealership.ID,
			InstallationType: showroom.ID,
			SalesWeight:      60,
			ExhibitionCount:  8,
		})
		s.Require().NoError(err)
		s.Equal(dealership.ID, installation.Dealership)
		s.Equal(showroom.ID, installation.InstallationType)
	})

	s.Run("missing references reported together", func() {
		_, err := s.service.CreateInstallation(s.ctx, CreateInstallationInput{
			Name:             "Orphan site",
			Dealership:       domain.NewDealershipID(),
			InstallationType: domain.NewInstallationTypeID(),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		var list *dErrors.List
		s.Require().ErrorAs(err, &list)
		s.Len(list.Errors(), 2)
	})

	s.Run("update re-checks a changed reference", func() {
		installation, err := s.service.CreateInstallation(s.ctx, CreateInstallationInput{
			Name:             "Harbor annex",
			Dealership:       dealership.ID,
			InstallationType: showroom.ID,
		})
		s.Require().NoError(err)

		missing := domain.NewDealershipID()
		_, err = s.service.UpdateInstallation(s.ctx, installation.ID, UpdateInstallationInput{
			Dealership: &missing,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *MasterDataServiceSuite) TestInstallationPartialUpdate() {
	dealership := s.createDealership("Valley Motors")
	satellite := s.createInstallationType("Satellite installation", "IS")

	installation, err := s.service.CreateInstallation(s.ctx, CreateInstallationInput{
		Name:             "Valley satellite",
		Dealership:       dealership.ID,
		InstallationType: satellite.ID,
		SalesWeight:      25,
		ExhibitionCount:  3,
	})
	s.Require().NoError(err)

	weight := 40.0
	updated, err := s.service.UpdateInstallation(s.ctx, installation.ID, UpdateInstallationInput{
		SalesWeight: &weight,
	})
	s.Require().NoError(err)
	s.Equal("Valley satellite", updated.Name)
	s.Equal(dealership.ID, updated.Dealership)
	s.Equal(satellite.ID, updated.InstallationType)
	s.InDelta(40.0, updated.SalesWeight, 1e-9)
	s.Equal(3, updated.ExhibitionCount)
}

func (s *MasterDataServiceSuite) TestInstallationTypeCodeNormalized() {
	installationType := s.createInstallationType("Aftersales only", " aoh ")
	s.Equal("AOH", installationType.Code)

	code := "eco"
	updated, err := s.service.UpdateInstallationType(s.ctx, installationType.ID, UpdateInstallationTypeInput{
		Code: &code,
	})
	s.Require().NoError(err)
	s.Equal("ECO", updated.Code)
	s.Equal("Aftersales only", updated.Name)
}

func (s *MasterDataServiceSuite) TestResponsableLifecycle() {
	responsable, err := s.service.CreateResponsable(s.ctx, CreateResponsableInput{
		Name:  "Quality lead",
		Email: "quality@example.com",
	})
	s.Require().NoError(err)

	found, err := s.service.GetResponsable(s.ctx, responsable.ID)
	s.Require().NoError(err)
	s.Equal("quality@example.com", found.Email)

	email := "compliance@example.com"
	updated, err := s.service.UpdateResponsable(s.ctx, responsable.ID, UpdateResponsableInput{Email: &email})
	s.Require().NoError(err)
	s.Equal("compliance@example.com", updated.Email)
	s.Equal("Quality lead", updated.Name)

	_, err = s.service.DeleteResponsable(s.ctx, responsable.ID)
	s.Require().NoError(err)

	_, err = s.service.GetResponsable(s.ctx, responsable.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MasterDataServiceSuite) TestExistenceChecks() {
	dealership := s.createDealership("Check Motors")
	criterionType, err := s.service.CreateCriterionType(s.ctx, CreateCriterionTypeInput{Name: "Process"})
	s.Require().NoError(err)

	s.NoError(s.service.DealershipExists(s.ctx, dealership.ID))
	s.NoError(s.service.CriterionTypeExists(s.ctx, criterionType.ID))
	s.Error(s.service.DealershipExists(s.ctx, domain.NewDealershipID()))
	s.Error(s.service.ResponsableExists(s.ctx, domain.NewResponsableID()))
}

func (s *MasterDataServiceSuite) TestNotFound() {
	_, err := s.service.GetDealership(s.ctx, domain.NewDealershipID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.DeleteInstallation(s.ctx, domain.NewInstallationID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	name := "renamed"
	_, err = s.service.UpdateCriterionType(s.ctx, domain.NewCriterionTypeID(), UpdateCriterionTypeInput{Name: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
