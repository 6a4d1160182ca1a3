package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/middleware"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/response"
)

type recurringService interface {
	CreateRecurring(ctx context.Context, uid string, req dto.RecurringRequest) (*models.RecurringTransaction, error)
	ListRecurring(ctx context.Context, uid string) ([]*models.RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, uid, id string, req dto.RecurringRequest) (*models.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, uid, id string) error
}

type recurringHandlers struct {
	ResponseHandler response.ResponseHandler
	RecurringSvc    recurringService
}

func NewRecurringHandlers(deps *Deps) *recurringHandlers {
	return &recurringHandlers{
		ResponseHandler: deps.ResponseHandler,
		RecurringSvc:    deps.RecurringSvc,
	}
}

func (h *recurringHandlers) RecurringRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListRecurring)
	r.Post("/", h.CreateRecurring)
	r.Put("/{id}", h.UpdateRecurring)
	r.Delete("/{id}", h.DeleteRecurring)
	return r
}

func (h *recurringHandlers) ListRecurring(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	list, err := h.RecurringSvc.ListRecurring(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, list)
}

func (h *recurringHandlers) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req dto.RecurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	rt, err := h.RecurringSvc.CreateRecurring(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, rt)
}

func (h *recurringHandlers) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.RecurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	rt, err := h.RecurringSvc.UpdateRecurring(r.Context(), uid, id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rt)
}

func (h *recurringHandlers) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := middleware.UID(r.Context())
	if err := h.RecurringSvc.DeleteRecurring(r.Context(), uid, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
