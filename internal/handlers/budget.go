package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pennyweek/internal/core"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/middleware"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/response"
)

type budgetService interface {
	ListBudgets(ctx context.Context, uid string) ([]*models.Budget, error)
	SetBudget(ctx context.Context, uid string, req dto.BudgetRequest) (*models.Budget, error)
	DeleteBudget(ctx context.Context, uid, id string) error
	BudgetStatus(ctx context.Context, uid string) ([]core.BudgetStatus, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       budgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBudgets)
	r.Post("/", h.SetBudget)
	r.Get("/status", h.BudgetStatus) // must be before /{id}
	r.Delete("/{id}", h.DeleteBudget)
	return r
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	budgets, err := h.BudgetSvc.ListBudgets(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, budgets)
}

func (h *budgetHandlers) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.BudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	b, err := h.BudgetSvc.SetBudget(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, b)
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := middleware.UID(r.Context())
	if err := h.BudgetSvc.DeleteBudget(r.Context(), uid, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *budgetHandlers) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	status, err := h.BudgetSvc.BudgetStatus(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, status)
}
