package jwtauth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealeraudit/internal/transport/shared"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/requestcontext"
)

// Handler exposes the login endpoint. It sits outside the RequireAuth
// chain; everything else in the API is behind the gate.
type Handler struct {
	service    *Service
	logger     *slog.Logger
	adminUser  string
	secretHash string
}

func NewHandler(service *Service, logger *slog.Logger, adminUser, secretHash string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:    service,
		logger:     logger,
		adminUser:  adminUser,
		secretHash: secretHash,
	}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

type loginRequest struct {
	User   string `json:"user"`
	Secret string `json:"secret"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	if h.secretHash == "" {
		// No admin credential configured; the deployment relies on an
		// upstream gateway for authentication.
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "local login is disabled"))
		return
	}

	if req.User != h.adminUser || VerifySecret(req.Secret, h.secretHash) != nil {
		h.logger.WarnContext(ctx, "failed login attempt",
			"request_id", requestcontext.RequestID(ctx),
			"user", req.User,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
		return
	}

	token, err := h.service.GenerateToken(req.User)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "Bearer"})
}
