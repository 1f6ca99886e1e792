package jwtauth_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"dealeraudit/internal/jwtauth"
	"dealeraudit/internal/platform/middleware"
	"dealeraudit/pkg/testutil"
)

type JWTAuthSuite struct {
	suite.Suite
	service *jwtauth.Service
}

func TestJWTAuthSuite(t *testing.T) {
	suite.Run(t, new(JWTAuthSuite))
}

func (s *JWTAuthSuite) SetupTest() {
	s.service = jwtauth.NewService("test-signing-key")
}

func (s *JWTAuthSuite) TestTokenRoundTrip() {
	token, err := s.service.GenerateToken("admin")
	s.Require().NoError(err)
	s.NotEmpty(token)

	user, err := s.service.ValidateToken(token)
	s.Require().NoError(err)
	s.Equal("admin", user)
}

func (s *JWTAuthSuite) TestValidateRejectsForeignKey() {
	other := jwtauth.NewService("a-different-key")
	token, err := other.GenerateToken("admin")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.Require().Error(err)
}

func (s *JWTAuthSuite) TestValidateRejectsGarbage() {
	_, err := s.service.ValidateToken("not.a.token")
	s.Require().Error(err)
}

func (s *JWTAuthSuite) TestSecretHashing() {
	hash, err := jwtauth.HashSecret("hunter2")
	s.Require().NoError(err)

	s.Require().NoError(jwtauth.VerifySecret("hunter2", hash))
	s.Require().Error(jwtauth.VerifySecret("wrong", hash))

	_, err = jwtauth.HashSecret("")
	s.Require().Error(err)
}

func (s *JWTAuthSuite) TestLoginFlow() {
	hash, err := jwtauth.HashSecret("correct horse")
	s.Require().NoError(err)

	router := chi.NewRouter()
	jwtauth.NewHandler(s.service, nil, "admin", hash).Register(router)

	// A protected probe route behind the same token validator.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.service, nil))
		r.Get("/probe", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
		map[string]string{"user": "admin", "secret": "wrong"}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
		map[string]string{"user": "admin", "secret": "correct horse"}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	login := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	token := (*login)["access_token"]
	s.NotEmpty(token)

	rr = testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/probe"))
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)

	probe := testutil.NewRequest(s.T(), http.MethodGet, "/probe")
	probe.Header.Set("Authorization", "Bearer "+token)
	rr = testutil.DoRequest(router, probe)
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}
