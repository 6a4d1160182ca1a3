package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/response"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
}

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	AuthSvc         authService
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuthSvc:         deps.AuthSvc,
	}
}

func (h *authHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

func (h *authHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.AuthSvc.Register(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, resp)
}

func (h *authHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.AuthSvc.Login(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
