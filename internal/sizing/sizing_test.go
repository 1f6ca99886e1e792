package sizing

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
)

type SizingSuite struct {
	suite.Suite
}

func TestSizingSuite(t *testing.T) {
	suite.Run(t, new(SizingSuite))
}

func (s *SizingSuite) TestTableLookup() {
	table := &Table{Rows: []Row{
		{Initial: 0, End: 99, Values: []float64{1, 2, 3}},
		{Initial: 100, End: 200, Values: []float64{5, 10, 15}},
	}}

	s.Run("value inside an interval", func() {
		value, ok := table.Lookup(150, 2)
		s.True(ok)
		s.InDelta(10.0, value, 1e-9)
	})

	s.Run("interval boundaries are inclusive", func() {
		value, ok := table.Lookup(100, 1)
		s.True(ok)
		s.InDelta(5.0, value, 1e-9)

		value, ok = table.Lookup(200, 3)
		s.True(ok)
		s.InDelta(15.0, value, 1e-9)
	})

	s.Run("value outside every row", func() {
		_, ok := table.Lookup(250, 2)
		s.False(ok)
	})

	s.Run("column out of range", func() {
		_, ok := table.Lookup(150, 4)
		s.False(ok)
		_, ok = table.Lookup(150, 0)
		s.False(ok)
	})

	s.Run("first containing row wins", func() {
		overlapping := &Table{Rows: []Row{
			{Initial: 0, End: 200, Values: []float64{7}},
			{Initial: 100, End: 300, Values: []float64{9}},
		}}
		value, ok := overlapping.Lookup(150, 1)
		s.True(ok)
		s.InDelta(7.0, value, 1e-9)
	})
}

func (s *SizingSuite) TestDerivedFigures() {
	installation := &models.Installation{SalesWeight: 60, ExhibitionCount: 8}
	dealership := &models.Dealership{PostSaleDailyIncome: 1200, ReferentialSales: 350}

	s.InDelta(210.0, SalesXReferential(installation, dealership), 1e-9)
	s.InDelta(252000.0, NumberXReferential(installation, dealership), 1e-9)
}

func (s *SizingSuite) TestCatalogCompute() {
	parking := domain.NewCriterionID()
	workshop := domain.NewCriterionID()
	demo := domain.NewCriterionID()

	catalog, err := NewCatalog(map[domain.CriterionID]Kind{
		parking:  KindCustomerParkingSpots,
		workshop: KindWorkshopBayUnits,
		demo:     KindDemoVehicleUnits,
	})
	s.Require().NoError(err)

	installation := &models.Installation{SalesWeight: 60, ExhibitionCount: 8}
	dealership := &models.Dealership{PostSaleDailyIncome: 1200, ReferentialSales: 350}

	s.Run("principal installation gets every bound figure", func() {
		// salesXReferential = 210, numberXReferential = 252000.
		out := catalog.Compute(installation, dealership, "IP")
		s.Len(out, 3)
		s.Require().NotNil(out[parking])
		s.InDelta(10.0, *out[parking], 1e-9)
		s.Require().NotNil(out[workshop])
		s.InDelta(8.0, *out[workshop], 1e-9)
		s.Require().NotNil(out[demo])
		s.InDelta(6.0, *out[demo], 1e-9)
	})

	s.Run("non-participating type code yields null", func() {
		out := catalog.Compute(installation, dealership, "AOH")
		s.Require().NotNil(out[parking])
		s.Nil(out[demo])
	})

	s.Run("unknown type code yields all null", func() {
		out := catalog.Compute(installation, dealership, "XX")
		s.Len(out, 3)
		s.Nil(out[parking])
		s.Nil(out[workshop])
		s.Nil(out[demo])
	})

	s.Run("repeat calls return identical results", func() {
		first := catalog.Compute(installation, dealership, "IS")
		second := catalog.Compute(installation, dealership, "IS")
		s.Equal(first, second)
	})
}

func (s *SizingSuite) TestCatalogRejectsUnknownKind() {
	_, err := NewCatalog(map[domain.CriterionID]Kind{
		domain.NewCriterionID(): Kind("not_a_real_kind"),
	})
	s.Error(err)
}

func (s *SizingSuite) TestBound() {
	id := domain.NewCriterionID()
	catalog, err := NewCatalog(map[domain.CriterionID]Kind{id: KindExhibitionAreaM2})
	s.Require().NoError(err)

	s.True(catalog.Bound(id))
	s.False(catalog.Bound(domain.NewCriterionID()))
}
