// Package handler exposes the scoring tree over HTTP. Routes are thin:
// decode, validate, delegate to the service, translate errors.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/internal/hierarchy/service"
	"dealeraudit/internal/transport/shared"
	"dealeraudit/internal/validate"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/requestcontext"
)

// Service is the surface of the hierarchy service the handler needs.
type Service interface {
	CreateCategory(ctx context.Context, in service.CreateCategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, id domain.CategoryID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id domain.CategoryID, in service.UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id domain.CategoryID) (*models.Category, error)

	CreateBlock(ctx context.Context, in service.CreateBlockInput) (*models.Block, error)
	GetBlock(ctx context.Context, id domain.BlockID) (*models.Block, error)
	ListBlocks(ctx context.Context) ([]*models.Block, error)
	UpdateBlock(ctx context.Context, id domain.BlockID, in service.UpdateBlockInput) (*models.Block, error)
	DeleteBlock(ctx context.Context, id domain.BlockID) (*models.Block, error)

	CreateArea(ctx context.Context, in service.CreateAreaInput) (*models.Area, error)
	GetArea(ctx context.Context, id domain.AreaID) (*models.Area, error)
	ListAreas(ctx context.Context) ([]*models.Area, error)
	UpdateArea(ctx context.Context, id domain.AreaID, in service.UpdateAreaInput) (*models.Area, error)
	DeleteArea(ctx context.Context, id domain.AreaID) (*models.Area, error)

	CreateStandard(ctx context.Context, in service.CreateStandardInput) (*models.Standard, error)
	GetStandard(ctx context.Context, id domain.StandardID) (*models.Standard, error)
	ListStandards(ctx context.Context) ([]*models.Standard, error)
	UpdateStandard(ctx context.Context, id domain.StandardID, in service.UpdateStandardInput) (*models.Standard, error)
	DeleteStandard(ctx context.Context, id domain.StandardID) (*models.Standard, error)

	CreateCriterion(ctx context.Context, in service.CreateCriterionInput) (*models.Criterion, error)
	GetCriterion(ctx context.Context, id domain.CriterionID) (*models.Criterion, error)
	ListCriterions(ctx context.Context) ([]*models.Criterion, error)
	UpdateCriterion(ctx context.Context, id domain.CriterionID, in service.UpdateCriterionInput) (*models.Criterion, error)
	DeleteCriterion(ctx context.Context, id domain.CriterionID) (*models.Criterion, error)
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

// Register mounts all tree endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.handleCreateCategory)
		r.Get("/", h.handleListCategories)
		r.Get("/{id}", h.handleGetCategory)
		r.Put("/{id}", h.handleUpdateCategory)
		r.Delete("/{id}", h.handleDeleteCategory)
	})
	r.Route("/blocks", func(r chi.Router) {
		r.Post("/", h.handleCreateBlock)
		r.Get("/", h.handleListBlocks)
		r.Get("/{id}", h.handleGetBlock)
		r.Put("/{id}", h.handleUpdateBlock)
		r.Delete("/{id}", h.handleDeleteBlock)
	})
	r.Route("/areas", func(r chi.Router) {
		r.Post("/", h.handleCreateArea)
		r.Get("/", h.handleListAreas)
		r.Get("/{id}", h.handleGetArea)
		r.Put("/{id}", h.handleUpdateArea)
		r.Delete("/{id}", h.handleDeleteArea)
	})
	r.Route("/standards", func(r chi.Router) {
		r.Post("/", h.handleCreateStandard)
		r.Get("/", h.handleListStandards)
		r.Get("/{id}", h.handleGetStandard)
		r.Put("/{id}", h.handleUpdateStandard)
		r.Delete("/{id}", h.handleDeleteStandard)
	})
	r.Route("/criterions", func(r chi.Router) {
		r.Post("/", h.handleCreateCriterion)
		r.Get("/", h.handleListCriterions)
		r.Get("/{id}", h.handleGetCriterion)
		r.Put("/{id}", h.handleUpdateCriterion)
		r.Delete("/{id}", h.handleDeleteCriterion)
	})
}

// decode pulls a validated request body into dst. A false return means the
// error response has already been written.
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

// Categories

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create category failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logError(r, "list categories failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := h.service.UpdateCategory(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update category failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCategoryID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	category, err := h.service.DeleteCategory(r.Context(), id)
	if err != nil {
		h.logError(r, "delete category failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, category)
}

// Blocks

func (h *Handler) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	var req createBlockRequest
	if !h.decode(w, r, &req) {
		return
	}
	block, err := h.service.CreateBlock(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create block failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, block)
}

func (h *Handler) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.ListBlocks(r.Context())
	if err != nil {
		h.logError(r, "list blocks failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, blocks)
}

func (h *Handler) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseBlockID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	block, err := h.service.GetBlock(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, block)
}

func (h *Handler) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseBlockID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateBlockRequest
	if !h.decode(w, r, &req) {
		return
	}
	block, err := h.service.UpdateBlock(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update block failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, block)
}

func (h *Handler) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseBlockID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	block, err := h.service.DeleteBlock(r.Context(), id)
	if err != nil {
		h.logError(r, "delete block failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, block)
}

// Areas

func (h *Handler) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	var req createAreaRequest
	if !h.decode(w, r, &req) {
		return
	}
	area, err := h.service.CreateArea(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create area failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, area)
}

func (h *Handler) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.ListAreas(r.Context())
	if err != nil {
		h.logError(r, "list areas failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, areas)
}

func (h *Handler) handleGetArea(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAreaID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	area, err := h.service.GetArea(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, area)
}

func (h *Handler) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAreaID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateAreaRequest
	if !h.decode(w, r, &req) {
		return
	}
	area, err := h.service.UpdateArea(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update area failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, area)
}

func (h *Handler) handleDeleteArea(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAreaID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	area, err := h.service.DeleteArea(r.Context(), id)
	if err != nil {
		h.logError(r, "delete area failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, area)
}

// Standards

func (h *Handler) handleCreateStandard(w http.ResponseWriter, r *http.Request) {
	var req createStandardRequest
	if !h.decode(w, r, &req) {
		return
	}
	standard, err := h.service.CreateStandard(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create standard failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, standard)
}

func (h *Handler) handleListStandards(w http.ResponseWriter, r *http.Request) {
	standards, err := h.service.ListStandards(r.Context())
	if err != nil {
		h.logError(r, "list standards failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, standards)
}

func (h *Handler) handleGetStandard(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseStandardID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	standard, err := h.service.GetStandard(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, standard)
}

func (h *Handler) handleUpdateStandard(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseStandardID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateStandardRequest
	if !h.decode(w, r, &req) {
		return
	}
	standard, err := h.service.UpdateStandard(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update standard failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, standard)
}

func (h *Handler) handleDeleteStandard(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseStandardID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	standard, err := h.service.DeleteStandard(r.Context(), id)
	if err != nil {
		h.logError(r, "delete standard failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, standard)
}

// Criterions

func (h *Handler) handleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	var req createCriterionRequest
	if !h.decode(w, r, &req) {
		return
	}
	criterion, err := h.service.CreateCriterion(r.Context(), req.toInput())
	if err != nil {
		h.logError(r, "create criterion failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, criterion)
}

func (h *Handler) handleListCriterions(w http.ResponseWriter, r *http.Request) {
	criterions, err := h.service.ListCriterions(r.Context())
	if err != nil {
		h.logError(r, "list criterions failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterions)
}

func (h *Handler) handleGetCriterion(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCriterionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	criterion, err := h.service.GetCriterion(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterion)
}

func (h *Handler) handleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCriterionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateCriterionRequest
	if !h.decode(w, r, &req) {
		return
	}
	criterion, err := h.service.UpdateCriterion(r.Context(), id, req.toInput())
	if err != nil {
		h.logError(r, "update criterion failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterion)
}

func (h *Handler) handleDeleteCriterion(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCriterionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	criterion, err := h.service.DeleteCriterion(r.Context(), id)
	if err != nil {
		h.logError(r, "delete criterion failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, criterion)
}
