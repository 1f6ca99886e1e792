package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/hierarchy/handler"
	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/internal/hierarchy/service"
	"dealeraudit/internal/hierarchy/store"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/testutil"
)

// The handler suite drives the real service over memory stores so route
// wiring, decoding and error translation are tested end to end.
type HierarchyHandlerSuite struct {
	suite.Suite

	router chi.Router
}

func TestHierarchyHandlerSuite(t *testing.T) {
	suite.Run(t, new(HierarchyHandlerSuite))
}

func (s *HierarchyHandlerSuite) SetupTest() {
	svc := service.New(store.NewMemoryStores())
	s.router = chi.NewRouter()
	handler.New(svc, nil).Register(s.router)
}

func (s *HierarchyHandlerSuite) createCategory(name, abbreviation string) *models.Category {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/categories", map[string]any{
		"name":         name,
		"abbreviation": abbreviation,
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Category](s.T(), rr)
}

func (s *HierarchyHandlerSuite) createBlock(name string, number float64, category domain.CategoryID) *models.Block {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/blocks", map[string]any{
		"name":     name,
		"number":   number,
		"category": category.String(),
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Block](s.T(), rr)
}

func (s *HierarchyHandlerSuite) TestCategoryRoundTrip() {
	category := s.createCategory("General Retail", "GR")
	s.Equal("General Retail", category.Name)
	s.Equal("GR", category.Abbreviation)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/categories/"+category.ID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.UnmarshalResponse[models.Category](s.T(), rr)
	s.Equal(category.ID, got.ID)

	name := "General Retail v2"
	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/categories/"+category.ID.String(),
		map[string]any{"name": name})
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	updated := testutil.UnmarshalResponse[models.Category](s.T(), rr)
	s.Equal(name, updated.Name)
	s.Equal("GR", updated.Abbreviation)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/categories"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	list := testutil.UnmarshalResponse[[]*models.Category](s.T(), rr)
	s.Require().Len(*list, 1)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/categories/"+category.ID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/categories/"+category.ID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HierarchyHandlerSuite) TestBlockRenumberOverWire() {
	category := s.createCategory("Workshop Ops", "WO")
	block := s.createBlock("Service bay", 1, category.ID)
	s.Equal("WO.1", block.Abbreviation)

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/blocks/"+block.ID.String(),
		map[string]any{"number": 4})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	updated := testutil.UnmarshalResponse[models.Block](s.T(), rr)
	s.Equal("WO.4", updated.Abbreviation)
}

func (s *HierarchyHandlerSuite) TestCreateRequiresNumber() {
	category := s.createCategory("Numbered", "NU")
	block := s.createBlock("Reception desk", 1, category.ID)

	s.Run("block", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/blocks", map[string]any{
			"name":     "No number",
			"category": category.ID.String(),
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
	})

	s.Run("area", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/areas", map[string]any{
			"name":  "No number",
			"block": block.ID.String(),
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
	})

	s.Run("explicit zero is a number, not an omission", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/blocks", map[string]any{
			"name":     "Zero block",
			"number":   0,
			"category": category.ID.String(),
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		created := testutil.UnmarshalResponse[models.Block](s.T(), rr)
		s.Equal("NU.0", created.Abbreviation)
	})
}

func (s *HierarchyHandlerSuite) TestCreateCriterionRequiresNumberAndValue() {
	category := s.createCategory("Criteria", "CR")
	block := s.createBlock("Crit block", 1, category.ID)

	areaRR := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/areas", map[string]any{
		"name":   "Crit area",
		"number": 2,
		"block":  block.ID.String(),
	}))
	testutil.AssertStatus(s.T(), areaRR, http.StatusCreated)
	area := testutil.UnmarshalResponse[models.Area](s.T(), areaRR)

	stdRR := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/standards", map[string]any{
		"description": "Crit standard",
		"number":      3,
		"area":        area.ID.String(),
	}))
	testutil.AssertStatus(s.T(), stdRR, http.StatusCreated)
	standard := testutil.UnmarshalResponse[models.Standard](s.T(), stdRR)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/criterions", map[string]any{
		"description": "Missing both",
		"standard":    standard.ID.String(),
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
	env := testutil.UnmarshalErrors(s.T(), rr)
	s.GreaterOrEqual(len(env.Errors), 2)

	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/criterions", map[string]any{
		"description": "Complete",
		"number":      4,
		"value":       10,
		"standard":    standard.ID.String(),
	})
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[models.Criterion](s.T(), rr)
	s.Equal("CR.1.2.3.4", created.Abbreviation)
}

func (s *HierarchyHandlerSuite) TestMalformedRequests() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/categories/not-a-uuid"))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

	req := testutil.NewRawRequest(s.T(), http.MethodPost, "/categories", `{"name":"x","bogus":true}`)
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}
