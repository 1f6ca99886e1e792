// Package handler exposes dealership master data over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/internal/masterdata/service"
	"dealeraudit/internal/transport/shared"
	"dealeraudit/internal/validate"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/requestcontext"
)

// Service is the surface of the master data service the handler needs.
type Service interface {
	CreateDealership(ctx context.Context, in service.CreateDealershipInput) (*models.Dealership, error)
	GetDealership(ctx context.Context, id domain.DealershipID) (*models.Dealership, error)
	ListDealerships(ctx context.Context) ([]*models.Dealership, error)
	UpdateDealership(ctx context.Context, id domain.DealershipID, in service.UpdateDealershipInput) (*models.Dealership, error)
	DeleteDealership(ctx context.Context, id domain.DealershipID) (*models.Dealership, error)

	CreateInstallation(ctx context.Context, in service.CreateInstallationInput) (*models.Installation, error)
	GetInstallation(ctx context.Context, id domain.InstallationID) (*models.Installation, error)
	ListInstallations(ctx context.Context) ([]*models.Installation, error)
	UpdateInstallation(ctx context.Context, id domain.InstallationID, in service.UpdateInstallationInput) (*models.Installation, error)
	DeleteInstallation(ctx context.Context, id domain.InstallationID) (*models.Installation, error)

	CreateInstallationType(ctx context.Context, in service.CreateInstallationTypeInput) (*models.InstallationType, error)
	GetInstallationType(ctx context.Context, id domain.InstallationTypeID) (*models.InstallationType, error)
	ListInstallationTypes(ctx context.Context) ([]*models.InstallationType, error)
	UpdateInstallationType(ctx context.Context, id domain.InstallationTypeID, in service.UpdateInstallationTypeInput) (*models.InstallationType, error)
	DeleteInstallationType(ctx context.Context, id domain.InstallationTypeID) (*models.InstallationType, error)

	CreateCriterionType(ctx context.Context, in service.CreateCriterionTypeInput) (*models.CriterionType, error)
	GetCriterionType(ctx context.Context, id domain.CriterionTypeID) (*models.CriterionType, error)
	ListCriterionTypes(ctx context.Context) ([]*models.CriterionType, error)
	UpdateCriterionType(ctx context.Context, id domain.CriterionTypeID, in service.UpdateCriterionTypeInput) (*models.CriterionType, error)
	DeleteCriterionType(ctx context.Context, id domain.CriterionTypeID) (*models.CriterionType, error)

	CreateResponsable(ctx context.Context, in service.CreateResponsableInput) (*models.Responsable, error)
	GetResponsable(ctx context.Context, id domain.ResponsableID) (*models.Responsable, error)
	ListResponsables(ctx context.Context) ([]*models.Responsable, error)
	UpdateResponsable(ctx context.Context, id domain.ResponsableID, in service.UpdateResponsableInput) (*models.Responsable, error)
	DeleteResponsable(ctx context.Context, id domain.ResponsableID) (*models.Responsable, error)
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

// Register mounts all master data endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dealerships", func(r chi.Router) {
		r.Post("/", h.handleCreateDealership)
		r.Get("/", h.handleListDealerships)
		r.Get("/{id}", h.handleGetDealership)
		r.Put("/{id}", h.handleUpdateDealership)
		r.Delete("/{id}", h.handleDeleteDealership)
	})
	r.Route("/installations", func(r chi.Router) {
		r.Post("/", h.handleCreateInstallation)
		r.Get("/", h.handleListInstallations)
		r.Get("/{id}", h.handleGetInstallation)
		r.Put("/{id}", h.handleUpdateInstallation)
		r.Delete("/{id}", h.handleDeleteInstallation)
	})
	r.Route("/installation-types", func(r chi.Router) {
		r.Post("/", h.handleCreateInstallationType)
		r.Get("/", h.handleListInstallationTypes)
		r.Get("/{id}", h.handleGetInstallationType)
		r.Put("/{id}", h.handleUpdateInstallationType)
		r.Delete("/{id}", h.handleDeleteInstallationType)
	})
	r.Route("/criterion-types", func(r chi.Router) {
		r.Post("/", h.handleCreateCriterionType)
		r.Get("/", h.handleListCriterionTypes)
		r.Get("/{id}", h.handleGetCriterionType)
		r.Put("/{id}", h.handleUpdateCriterionType)
		r.Delete("/{id}", h.handleDeleteCriterionType)
	})
	r.Route("/responsables", func(r chi.Router) {
		r.Post("/", h.handleCreateResponsable)
		r.Get("/", h.handleListResponsables)
		r.Get("/{id}", h.handleGetResponsable)
		r.Put("/{id}", h.handleUpdateResponsable)
		r.Delete("/{id}", h.handleDeleteResponsable)
	})
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

// Dealerships

func (h *Handler) handleCreateDealership(w http.ResponseWriter, r *http.Request) {
	var req createDealershipRequest
	if !h.decode(w, r, &req) {
		return
	}
	dealership, err := h.service.CreateDealership(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create dealership failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, dealership)
}

func (h *Handler) handleListDealerships(w http.ResponseWriter, r *http.Request) {
	dealerships, err := h.service.ListDealerships(r.Context())
	if err != nil {
		h.logError(r, "list dealerships failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, dealerships)
}

func (h *Handler) handleGetDealership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDealershipID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	dealership, err := h.service.GetDealership(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, dealership)
}

func (h *Handler) handleUpdateDealership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDealershipID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateDealershipRequest
	if !h.decode(w, r, &req) {
		return
	}
	dealership, err := h.service.UpdateDealership(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update dealership failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, dealership)
}

func (h *Handler) handleDeleteDealership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDealershipID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	dealership, err := h.service.DeleteDealership(r.Context(), id)
	if err != nil {
		h.logError(r, "delete dealership failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, dealership)
}

// Installations

func (h *Handler) handleCreateInstallation(w http.ResponseWriter, r *http.Request) {
	var req createInstallationRequest
	if !h.decode(w, r, &req) {
		return
	}
	installation, err := h.service.CreateInstallation(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create installation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, installation)
}

func (h *Handler) handleListInstallations(w http.ResponseWriter, r *http.Request) {
	installations, err := h.service.ListInstallations(r.Context())
	if err != nil {
		h.logError(r, "list installations failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installations)
}

func (h *Handler) handleGetInstallation(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstallationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	installation, err := h.service.GetInstallation(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installation)
}

func (h *Handler) handleUpdateInstallation(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstallationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateInstallationRequest
	if !h.decode(w, r, &req) {
		return
	}
	installation, err := h.service.UpdateInstallation(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update installation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installation)
}

func (h *Handler) handleDeleteInstallation(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstallationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	installation, err := h.service.DeleteInstallation(r.Context(), id)
	if err != nil {
		h.logError(r, "delete installation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installation)
}

// Installation types

func (h *Handler) handleCreateInstallationType(w http.ResponseWriter, r *http.Request) {
	var req createInstallationTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	installationType, err := h.service.CreateInstallationType(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create installation type failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, installationType)
}

func (h *Handler) handleListInstallationTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListInstallationTypes(r.Context())
	if err != nil {
		h.logError(r, "list installation types failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) handleGetInstallationType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstallationTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	installationType, err := h.service.GetInstallationType(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installationType)
}

func (h *Handler) handleUpdateInstallationType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstallationTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateInstallationTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	installationType, err := h.service.UpdateInstallationType(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update installation type failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installationType)
}

func (h *Handler) handleDeleteInstallationType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstallationTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	installationType, err := h.service.DeleteInstallationType(r.Context(), id)
	if err != nil {
		h.logError(r, "delete installation type failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, installationType)
}

// Criterion types

func (h *Handler) handleCreateCriterionType(w http.ResponseWriter, r *http.Request) {
	var req createCriterionTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	criterionType, err := h.service.CreateCriterionType(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create criterion type failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, criterionType)
}

func (h *Handler) handleListCriterionTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListCriterionTypes(r.Context())
	if err != nil {
		h.logError(r, "list criterion types failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) handleGetCriterionType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCriterionTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	criterionType, err := h.service.GetCriterionType(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterionType)
}

func (h *Handler) handleUpdateCriterionType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCriterionTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateCriterionTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	criterionType, err := h.service.UpdateCriterionType(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update criterion type failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterionType)
}

func (h *Handler) handleDeleteCriterionType(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCriterionTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	criterionType, err := h.service.DeleteCriterionType(r.Context(), id)
	if err != nil {
		h.logError(r, "delete criterion type failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterionType)
}

// Responsables

func (h *Handler) handleCreateResponsable(w http.ResponseWriter, r *http.Request) {
	var req createResponsableRequest
	if !h.decode(w, r, &req) {
		return
	}
	responsable, err := h.service.CreateResponsable(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create responsable failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, responsable)
}

func (h *Handler) handleListResponsables(w http.ResponseWriter, r *http.Request) {
	responsables, err := h.service.ListResponsables(r.Context())
	if err != nil {
		h.logError(r, "list responsables failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, responsables)
}

func (h *Handler) handleGetResponsable(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseResponsableID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	responsable, err := h.service.GetResponsable(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, responsable)
}

func (h *Handler) handleUpdateResponsable(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseResponsableID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateResponsableRequest
	if !h.decode(w, r, &req) {
		return
	}
	responsable, err := h.service.UpdateResponsable(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update responsable failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, responsable)
}

func (h *Handler) handleDeleteResponsable(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseResponsableID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	responsable, err := h.service.DeleteResponsable(r.Context(), id)
	if err != nil {
		h.logError(r, "delete responsable failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, responsable)
}
