package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/masterdata/handler"
	"dealeraudit/internal/masterdata/models"
	"dealeraudit/internal/masterdata/service"
	"dealeraudit/internal/masterdata/store"
	"dealeraudit/pkg/testutil"
)

type MasterdataHandlerSuite struct {
	suite.Suite

	router chi.Router
}

func TestMasterdataHandlerSuite(t *testing.T) {
	suite.Run(t, new(MasterdataHandlerSuite))
}

func (s *MasterdataHandlerSuite) SetupTest() {
	svc := service.New(store.NewMemoryStores())
	s.router = chi.NewRouter()
	handler.New(svc, nil).Register(s.router)
}

func (s *MasterdataHandlerSuite) TestDealershipRoundTrip() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/dealerships", map[string]any{
		"name":                   "East Motors",
		"post_sale_daily_income": 900,
		"referential_sales":      120,
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	dealership := testutil.UnmarshalResponse[models.Dealership](s.T(), rr)
	s.Equal("East Motors", dealership.Name)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/dealerships/"+dealership.ID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	income := 1100.0
	req = testutil.NewJSONRequest(s.T(), http.MethodPut, "/dealerships/"+dealership.ID.String(),
		map[string]any{"post_sale_daily_income": income})
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	updated := testutil.UnmarshalResponse[models.Dealership](s.T(), rr)
	s.InDelta(income, updated.PostSaleDailyIncome, 1e-9)
	s.Equal("East Motors", updated.Name)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/dealerships"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	list := testutil.UnmarshalResponse[[]*models.Dealership](s.T(), rr)
	s.Require().Len(*list, 1)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/dealerships/"+dealership.ID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/dealerships/"+dealership.ID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *MasterdataHandlerSuite) TestCreateDealershipValidation() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/dealerships", map[string]any{
		"post_sale_daily_income": 900,
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}
