// Package handler exposes audits over HTTP, including criteria resolution
// and sizing for an installation within an audit.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealeraudit/internal/audits/models"
	"dealeraudit/internal/audits/service"
	"dealeraudit/internal/transport/shared"
	"dealeraudit/internal/validate"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/requestcontext"
)

// Service is the surface of the audit service the handler needs.
type Service interface {
	CreateAudit(ctx context.Context, in service.CreateAuditInput) (*models.Audit, error)
	GetAudit(ctx context.Context, id domain.AuditID) (*models.Audit, error)
	ListAudits(ctx context.Context) ([]*models.Audit, error)
	ListAuditsByStatus(ctx context.Context, status models.Status) ([]*models.Audit, error)
	UpdateAudit(ctx context.Context, id domain.AuditID, in service.UpdateAuditInput) (*models.Audit, error)
	DeleteAudit(ctx context.Context, id domain.AuditID) (*models.Audit, error)
	ChangeAuditStatus(ctx context.Context, id domain.AuditID, status models.Status) (*models.Audit, error)
	SetCriterionValue(ctx context.Context, id domain.AuditID, criterionID domain.CriterionID, value *float64) (*models.Audit, error)
	ResolveApplicableCriteria(ctx context.Context, auditID domain.AuditID, installationID domain.InstallationID) ([]service.ResolvedCriterion, error)
	FillableCriteria(ctx context.Context, auditID domain.AuditID, installationID domain.InstallationID) ([]service.FillableCriterion, error)
	ComputeSizing(ctx context.Context, installationID domain.InstallationID) (map[domain.CriterionID]*float64, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, logger: logger}
}

// Register mounts the audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/audits", func(r chi.Router) {
		r.Post("/", h.handleCreateAudit)
		r.Get("/", h.handleListAudits)
		r.Get("/{id}", h.handleGetAudit)
		r.Put("/{id}", h.handleUpdateAudit)
		r.Delete("/{id}", h.handleDeleteAudit)
		r.Put("/{id}/status", h.handleChangeStatus)
		r.Put("/{id}/criterions/{criterionID}/value", h.handleSetCriterionValue)
		r.Get("/{id}/installations/{installationID}/criteria", h.handleResolveCriteria)
		r.Get("/{id}/installations/{installationID}/fillable-criteria", h.handleFillableCriteria)
	})
	r.Get("/sizing/installations/{installationID}", h.handleComputeSizing)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.WriteError(w, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		shared.WriteError(w, err)
		return false
	}
	return true
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err,
	)
}

func (h *Handler) handleCreateAudit(w http.ResponseWriter, r *http.Request) {
	var req createAuditRequest
	if !h.decode(w, r, &req) {
		return
	}
	audit, err := h.service.CreateAudit(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create audit failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, audit)
}

func (h *Handler) handleListAudits(w http.ResponseWriter, r *http.Request) {
	var (
		audits []*models.Audit
		err    error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		audits, err = h.service.ListAuditsByStatus(r.Context(), models.Status(status))
	} else {
		audits, err = h.service.ListAudits(r.Context())
	}
	if err != nil {
		h.logError(r, "list audits failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audits)
}

func (h *Handler) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAuditID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.GetAudit(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *Handler) handleUpdateAudit(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAuditID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateAuditRequest
	if !h.decode(w, r, &req) {
		return
	}
	audit, err := h.service.UpdateAudit(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update audit failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *Handler) handleDeleteAudit(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAuditID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.DeleteAudit(r.Context(), id)
	if err != nil {
		h.logError(r, "delete audit failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAuditID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req changeStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	audit, err := h.service.ChangeAuditStatus(r.Context(), id, models.Status(req.Status))
	if err != nil {
		h.logError(r, "change audit status failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *Handler) handleSetCriterionValue(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAuditID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	criterionID, err := domain.ParseCriterionID(chi.URLParam(r, "criterionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req setCriterionValueRequest
	if !h.decode(w, r, &req) {
		return
	}
	audit, err := h.service.SetCriterionValue(r.Context(), id, criterionID, req.Value)
	if err != nil {
		h.logError(r, "set criterion value failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *Handler) handleResolveCriteria(w http.ResponseWriter, r *http.Request) {
	auditID, installationID, ok := h.auditInstallationParams(w, r)
	if !ok {
		return
	}
	resolved, err := h.service.ResolveApplicableCriteria(r.Context(), auditID, installationID)
	if err != nil {
		h.logError(r, "resolve criteria failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resolved)
}

func (h *Handler) handleFillableCriteria(w http.ResponseWriter, r *http.Request) {
	auditID, installationID, ok := h.auditInstallationParams(w, r)
	if !ok {
		return
	}
	fillable, err := h.service.FillableCriteria(r.Context(), auditID, installationID)
	if err != nil {
		h.logError(r, "fillable criteria failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, fillable)
}

func (h *Handler) handleComputeSizing(w http.ResponseWriter, r *http.Request) {
	installationID, err := domain.ParseInstallationID(chi.URLParam(r, "installationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	computed, err := h.service.ComputeSizing(r.Context(), installationID)
	if err != nil {
		h.logError(r, "compute sizing failed", err)
		shared.WriteError(w, err)
		return
	}
	// Keyed by criterion id; null marks a non-participating type.
	out := make(map[string]*float64, len(computed))
	for id, value := range computed {
		out[id.String()] = value
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) auditInstallationParams(w http.ResponseWriter, r *http.Request) (domain.AuditID, domain.InstallationID, bool) {
	auditID, err := domain.ParseAuditID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return domain.AuditID{}, domain.InstallationID{}, false
	}
	installationID, err := domain.ParseInstallationID(chi.URLParam(r, "installationID"))
	if err != nil {
		shared.WriteError(w, err)
		return domain.AuditID{}, domain.InstallationID{}, false
	}
	return auditID, installationID, true
}
