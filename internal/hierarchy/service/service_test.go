package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/internal/hierarchy/store"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
)

// stubRefs answers existence checks from fixed allow-lists.
type stubRefs struct {
	installations     map[domain.InstallationID]bool
	installationTypes map[domain.InstallationTypeID]bool
	criterionTypes    map[domain.CriterionTypeID]bool
	responsables      map[domain.ResponsableID]bool
}

func (r *stubRefs) InstallationExists(_ context.Context, id domain.InstallationID) error {
	if r.installations[id] {
		return nil
	}
	return sentinel.ErrNotFound
}

func (r *stubRefs) InstallationTypeExists(_ context.Context, id domain.InstallationTypeID) error {
	if r.installationTypes[id] {
		return nil
	}
	return sentinel.ErrNotFound
}

func (r *stubRefs) CriterionTypeExists(_ context.Context, id domain.CriterionTypeID) error {
	if r.criterionTypes[id] {
		return nil
	}
	return sentinel.ErrNotFound
}

func (r *stubRefs) ResponsableExists(_ context.Context, id domain.ResponsableID) error {
	if r.responsables[id] {
		return nil
	}
	return sentinel.ErrNotFound
}

type HierarchyServiceSuite struct {
	suite.Suite
	stores  store.Stores
	refs    *stubRefs
	service *Service
	ctx     context.Context
}

func (s *HierarchyServiceSuite) SetupTest() {
	s.stores = store.NewMemoryStores()
	s.refs = &stubRefs{
		installations:     map[domain.InstallationID]bool{},
		installationTypes: map[domain.InstallationTypeID]bool{},
		criterionTypes:    map[domain.CriterionTypeID]bool{},
		responsables:      map[domain.ResponsableID]bool{},
	}
	s.service = New(s.stores, WithReferenceChecker(s.refs))
	s.ctx = context.Background()
}

func TestHierarchyServiceSuite(t *testing.T) {
	suite.Run(t, new(HierarchyServiceSuite))
}

// buildBranch creates one category/block/area/standard chain numbered 1, 2
// and 3, so criterion numbers land under <abbr>.1.2.3. Names take the
// abbreviation as suffix because block names and standard descriptions are
// globally unique.
func (s *HierarchyServiceSuite) buildBranch(abbr string) (*models.Category, *models.Block, *models.Area, *models.Standard) {
	category, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "Category " + abbr, Abbreviation: abbr})
	s.Require().NoError(err)
	block, err := s.service.CreateBlock(s.ctx, CreateBlockInput{Name: "Showroom " + abbr, Number: 1, Category: category.ID})
	s.Require().NoError(err)
	area, err := s.service.CreateArea(s.ctx, CreateAreaInput{Name: "Reception " + abbr, Number: 2, Block: block.ID})
	s.Require().NoError(err)
	standard, err := s.service.CreateStandard(s.ctx, CreateStandardInput{Description: "Customer greeting " + abbr, Number: 3, Area: area.ID})
	s.Require().NoError(err)
	return category, block, area, standard
}

func (s *HierarchyServiceSuite) TestAbbreviationDerivation() {
	s.Run("each level appends its number to the parent path", func() {
		_, block, area, standard := s.buildBranch("GR")
		s.Equal("GR.1", block.Abbreviation)
		s.Equal("GR.1.2", area.Abbreviation)
		s.Equal("GR.1.2.3", standard.Abbreviation)

		criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Greeted within two minutes",
			Number:      4,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)
		s.Equal("GR.1.2.3.4", criterion.Abbreviation)
	})

	s.Run("fractional numbers keep their shortest form", func() {
		_, _, _, standard := s.buildBranch("FR")
		criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Signage visible",
			Number:      4.5,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)
		s.Equal("FR.1.2.3.4.5", criterion.Abbreviation)
	})

	s.Run("children derive from the stored parent path, not a recomputed one", func() {
		_, block, _, _ := s.buildBranch("ED")
		stored, err := s.stores.Blocks.FindByID(s.ctx, block.ID)
		s.Require().NoError(err)
		stored.Abbreviation = "EDITED.9"
		s.Require().NoError(s.stores.Blocks.Save(s.ctx, stored))

		area, err := s.service.CreateArea(s.ctx, CreateAreaInput{Name: "Parts Counter", Number: 6, Block: block.ID})
		s.Require().NoError(err)
		s.Equal("EDITED.9.6", area.Abbreviation)
	})
}

func (s *HierarchyServiceSuite) TestRenumberReplacesOnlyLastSegment() {
	_, _, _, standard := s.buildBranch("RN")
	criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
		Description: "Lighting level",
		Number:      4,
		Standard:    standard.ID,
	})
	s.Require().NoError(err)
	s.Equal("RN.1.2.3.4", criterion.Abbreviation)

	nine := 9.0
	updated, err := s.service.UpdateCriterion(s.ctx, criterion.ID, UpdateCriterionInput{Number: &nine})
	s.Require().NoError(err)
	s.Equal("RN.1.2.3.9", updated.Abbreviation)
}

func (s *HierarchyServiceSuite) TestRenumberPreservesManualPrefix() {
	// A hand-edited path keeps its custom prefix; renumbering swaps only
	// the suffix after the final dot.
	_, _, _, standard := s.buildBranch("MP")
	criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
		Description: "Floor condition",
		Number:      4,
		Standard:    standard.ID,
	})
	s.Require().NoError(err)

	criterion.Abbreviation = "CUSTOM.7.4"
	s.Require().NoError(s.stores.Criterions.Save(s.ctx, criterion))

	two := 2.0
	updated, err := s.service.UpdateCriterion(s.ctx, criterion.ID, UpdateCriterionInput{Number: &two})
	s.Require().NoError(err)
	s.Equal("CUSTOM.7.2", updated.Abbreviation)
}

func (s *HierarchyServiceSuite) TestValueRollUp() {
	category, block, area, standard := s.buildBranch("VR")

	s.Run("creating a criterion adds its value to every ancestor", func() {
		_, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Weighted item",
			Number:      4,
			Value:       10,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)
		s.assertValues(category.ID, block.ID, area.ID, standard.ID, 10)
	})

	s.Run("a value change propagates its delta", func() {
		criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Second item",
			Number:      5,
			Value:       15,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)
		s.assertValues(category.ID, block.ID, area.ID, standard.ID, 25)

		zero := 0.0
		_, err = s.service.UpdateCriterion(s.ctx, criterion.ID, UpdateCriterionInput{Value: &zero})
		s.Require().NoError(err)
		s.assertValues(category.ID, block.ID, area.ID, standard.ID, 10)
	})

	s.Run("deleting a criterion subtracts its stored value", func() {
		criterions, err := s.service.ListCriterions(s.ctx)
		s.Require().NoError(err)
		var weighted *models.Criterion
		for _, c := range criterions {
			if c.Value == 10 {
				weighted = c
			}
		}
		s.Require().NotNil(weighted)

		_, err = s.service.DeleteCriterion(s.ctx, weighted.ID)
		s.Require().NoError(err)
		s.assertValues(category.ID, block.ID, area.ID, standard.ID, 0)
	})
}

// assertValues checks the whole ancestor chain carries the same total.
func (s *HierarchyServiceSuite) assertValues(categoryID domain.CategoryID, blockID domain.BlockID, areaID domain.AreaID, standardID domain.StandardID, want float64) {
	s.T().Helper()
	standard, err := s.stores.Standards.FindByID(s.ctx, standardID)
	s.Require().NoError(err)
	s.InDelta(want, standard.Value, 1e-9, "standard value")
	area, err := s.stores.Areas.FindByID(s.ctx, areaID)
	s.Require().NoError(err)
	s.InDelta(want, area.Value, 1e-9, "area value")
	block, err := s.stores.Blocks.FindByID(s.ctx, blockID)
	s.Require().NoError(err)
	s.InDelta(want, block.Value, 1e-9, "block value")
	category, err := s.stores.Categories.FindByID(s.ctx, categoryID)
	s.Require().NoError(err)
	s.InDelta(want, category.Value, 1e-9, "category value")
}

func (s *HierarchyServiceSuite) TestCascadeDelete() {
	s.Run("deleting a block removes its subtree and decrements the category", func() {
		category, block, area, standard := s.buildBranch("C1")
		criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Doomed",
			Number:      4,
			Value:       12,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)

		_, err = s.service.DeleteBlock(s.ctx, block.ID)
		s.Require().NoError(err)

		_, err = s.stores.Areas.FindByID(s.ctx, area.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.stores.Standards.FindByID(s.ctx, standard.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.stores.Criterions.FindByID(s.ctx, criterion.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)

		got, err := s.stores.Categories.FindByID(s.ctx, category.ID)
		s.Require().NoError(err)
		s.InDelta(0, got.Value, 1e-9)
		s.Empty(got.Blocks)
	})

	s.Run("deleting a standard decrements the area by the standard value", func() {
		_, block, area, standard := s.buildBranch("C2")
		_, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Weighted",
			Number:      4,
			Value:       7,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)

		_, err = s.service.DeleteStandard(s.ctx, standard.ID)
		s.Require().NoError(err)

		gotArea, err := s.stores.Areas.FindByID(s.ctx, area.ID)
		s.Require().NoError(err)
		s.InDelta(0, gotArea.Value, 1e-9)
		s.Empty(gotArea.Standards)

		gotBlock, err := s.stores.Blocks.FindByID(s.ctx, block.ID)
		s.Require().NoError(err)
		s.InDelta(0, gotBlock.Value, 1e-9)
	})

	s.Run("deleting a category needs no value adjustments", func() {
		category, block, _, standard := s.buildBranch("C3")
		_, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Any",
			Number:      4,
			Value:       3,
			Standard:    standard.ID,
		})
		s.Require().NoError(err)

		_, err = s.service.DeleteCategory(s.ctx, category.ID)
		s.Require().NoError(err)

		_, err = s.stores.Blocks.FindByID(s.ctx, block.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *HierarchyServiceSuite) TestCategoryUniquenessPartition() {
	_, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "Sales", Abbreviation: "SA"})
	s.Require().NoError(err)

	s.Run("same name and abbreviation rejected in the same partition", func() {
		_, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "sales", Abbreviation: "sa"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("both violations reported together", func() {
		_, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "Sales", Abbreviation: "SA"})
		s.Require().Error(err)
		var list *dErrors.List
		s.Require().ErrorAs(err, &list)
		s.Len(list.Errors(), 2)
	})

	s.Run("agency partition may reuse both", func() {
		_, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "Sales", Abbreviation: "SA", IsAgency: true})
		s.NoError(err)
	})
}

func (s *HierarchyServiceSuite) TestUpdateCategoryRejectsBlankFields() {
	category, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "Aftersales", Abbreviation: "AS"})
	s.Require().NoError(err)

	blank := "   "
	_, err = s.service.UpdateCategory(s.ctx, category.ID, UpdateCategoryInput{Name: &blank})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.UpdateCategory(s.ctx, category.ID, UpdateCategoryInput{Abbreviation: &blank})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	got, err := s.stores.Categories.FindByID(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Equal("Aftersales", got.Name)
	s.Equal("AS", got.Abbreviation)
}

func (s *HierarchyServiceSuite) TestGlobalNameUniqueness() {
	category, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "One", Abbreviation: "O"})
	s.Require().NoError(err)
	other, err := s.service.CreateCategory(s.ctx, CreateCategoryInput{Name: "Two", Abbreviation: "T"})
	s.Require().NoError(err)

	_, err = s.service.CreateBlock(s.ctx, CreateBlockInput{Name: "Workshop", Number: 1, Category: category.ID})
	s.Require().NoError(err)

	s.Run("block names unique across categories, case-insensitive", func() {
		_, err := s.service.CreateBlock(s.ctx, CreateBlockInput{Name: "WORKSHOP", Number: 1, Category: other.ID})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("standard descriptions globally unique", func() {
		_, block, _, _ := s.buildBranch("GU")
		area, err := s.service.CreateArea(s.ctx, CreateAreaInput{Name: "Second Area", Number: 9, Block: block.ID})
		s.Require().NoError(err)
		_, err = s.service.CreateStandard(s.ctx, CreateStandardInput{Description: "customer greeting GU", Number: 1, Area: area.ID})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *HierarchyServiceSuite) TestCriterionReferenceChecks() {
	_, _, _, standard := s.buildBranch("RC")

	knownType := domain.NewInstallationTypeID()
	s.refs.installationTypes[knownType] = true
	knownInstallation := domain.NewInstallationID()
	s.refs.installations[knownInstallation] = true

	s.Run("valid references accepted", func() {
		_, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description:       "Checked",
			Number:            4,
			Standard:          standard.ID,
			InstallationTypes: []domain.InstallationTypeID{knownType},
			Exceptions:        []domain.InstallationID{knownInstallation},
		})
		s.NoError(err)
	})

	s.Run("all missing references reported together", func() {
		_, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description:       "Broken",
			Number:            5,
			Standard:          standard.ID,
			InstallationTypes: []domain.InstallationTypeID{domain.NewInstallationTypeID()},
			Exceptions:        []domain.InstallationID{domain.NewInstallationID()},
			CriterionType:     domain.NewCriterionTypeID(),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		var list *dErrors.List
		s.Require().ErrorAs(err, &list)
		s.Len(list.Errors(), 3)
	})

	s.Run("duplicate exception ids are collapsed before checking", func() {
		criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
			Description: "Deduped",
			Number:      6,
			Standard:    standard.ID,
			Exceptions:  []domain.InstallationID{knownInstallation, knownInstallation},
		})
		s.Require().NoError(err)
		s.Len(criterion.Exceptions, 1)
	})
}

func (s *HierarchyServiceSuite) TestNotFound() {
	_, err := s.service.GetCategory(s.ctx, domain.NewCategoryID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.UpdateBlock(s.ctx, domain.NewBlockID(), UpdateBlockInput{})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.DeleteCriterion(s.ctx, domain.NewCriterionID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.CreateBlock(s.ctx, CreateBlockInput{Name: "Orphan", Number: 1, Category: domain.NewCategoryID()})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.CreateCriterion(s.ctx, CreateCriterionInput{Description: "Orphan", Number: 1, Standard: domain.NewStandardID()})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *HierarchyServiceSuite) TestPartialUpdateKeepsUnsetFields() {
	_, _, _, standard := s.buildBranch("PU")
	criterion, err := s.service.CreateCriterion(s.ctx, CreateCriterionInput{
		Description: "Original",
		Number:      4,
		Value:       5,
		Standard:    standard.ID,
		HmeCode:     "HME-1",
	})
	s.Require().NoError(err)

	description := "Renamed"
	updated, err := s.service.UpdateCriterion(s.ctx, criterion.ID, UpdateCriterionInput{Description: &description})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Description)
	s.Equal("HME-1", updated.HmeCode)
	s.InDelta(5, updated.Value, 1e-9)

	// value untouched, so ancestors keep their totals
	got, err := s.stores.Standards.FindByID(s.ctx, standard.ID)
	s.Require().NoError(err)
	s.InDelta(5, got.Value, 1e-9)
}
