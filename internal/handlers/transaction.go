package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pennyweek/internal/core"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/middleware"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/response"
)

type transactionService interface {
	ListTransactions(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, uid string, req dto.TransactionRequest) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, uid, id string, req dto.TransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, uid, id string) error
	SuggestCategory(note any) models.Category
	RecommendBudget(ctx context.Context, uid string) (map[models.Category]int64, error)
	Insights(ctx context.Context, uid string) (core.Insights, error)
}

const maxListLimit = 1000

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
	recurring       *recurringHandlers
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
		recurring:       NewRecurringHandlers(deps),
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	r.Post("/", h.CreateTransaction)
	r.Post("/suggest-category", h.SuggestCategory)
	r.Get("/budget/recommend", h.RecommendBudget)
	r.Get("/insights", h.Insights)
	r.Mount("/recurring", h.recurring.RecurringRoutes()) // must be before /{id}
	r.Put("/{id}", h.UpdateTransaction)
	r.Delete("/{id}", h.DeleteTransaction)
	return r
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := parseTransactionQuery(r.URL.Query())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	txs, err := h.TransactionSvc.ListTransactions(r.Context(), uid, q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *transactionHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	tx, err := h.TransactionSvc.CreateTransaction(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tx)
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	tx, err := h.TransactionSvc.UpdateTransaction(r.Context(), uid, id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := middleware.UID(r.Context())
	if err := h.TransactionSvc.DeleteTransaction(r.Context(), uid, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.SuggestCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SuggestCategoryResponse{
		Category: h.TransactionSvc.SuggestCategory(req.Note),
	})
}

func (h *transactionHandlers) RecommendBudget(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	rec, err := h.TransactionSvc.RecommendBudget(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rec)
}

func (h *transactionHandlers) Insights(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	insights, err := h.TransactionSvc.Insights(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, insights)
}

// parseTransactionQuery reads the optional list filters. Results are newest
// first unless order=asc.
func parseTransactionQuery(v url.Values) (dto.TransactionQuery, error) {
	q := dto.TransactionQuery{Desc: true}

	if s := v.Get("type"); s != "" {
		t := models.TransactionType(strings.ToLower(s))
		if !t.Valid() {
			return q, errs.NewFieldError("type", "must be income or expense")
		}
		q.Type = &t
	}
	if s := v.Get("category"); s != "" {
		c, ok := models.ParseCategory(s)
		if !ok {
			return q, errs.NewFieldError("category", "unknown category "+s)
		}
		q.Category = &c
	}
	if s := v.Get("recurringId"); s != "" {
		q.RecurringID = &s
	}
	if s := v.Get("from"); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return q, errs.NewFieldError("from", err.Error())
		}
		q.DateFrom = &t
	}
	if s := v.Get("to"); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return q, errs.NewFieldError("to", err.Error())
		}
		// a bare date includes the whole day
		if len(s) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1).Add(-1)
		}
		q.DateTo = &t
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		return q, errs.NewFieldError("to", "must not be before from")
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxListLimit {
			return q, errs.NewFieldError("limit", "must be between 1 and 1000")
		}
		q.Limit = n
	}
	switch strings.ToLower(v.Get("order")) {
	case "", "desc":
	case "asc":
		q.Desc = false
	default:
		return q, errs.NewFieldError("order", "must be asc or desc")
	}
	return q, nil
}
