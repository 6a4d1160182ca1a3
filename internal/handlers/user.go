package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/middleware"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/response"
	"github.com/GregMSThompson/pennyweek/internal/uploads"
)

type userService interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, req dto.UpdateUserRequest, photo *uploads.Photo) (*models.User, error)
	ChangePassword(ctx context.Context, uid string, req dto.ChangePasswordRequest) error
	DeleteUser(ctx context.Context, uid string) error
}

// multipart bodies carry the photo plus a little form overhead
const maxMultipartBody = uploads.MaxPhotoBytes + 1<<20

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         userService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Delete("/me", h.DeleteMe)
	r.Post("/change-password", h.ChangePassword)
	return r
}

func (h *userHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	user, err := h.UserSvc.GetUser(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

// UpdateMe accepts a JSON body or a multipart form with name, email,
// preferences (a JSON object) and an optional photo file.
func (h *userHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var (
		req   dto.UpdateUserRequest
		photo *uploads.Photo
		err   error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, photo, err = readUserForm(w, r)
	} else {
		err = decodeJSON(w, r, &req)
	}
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	user, err := h.UserSvc.UpdateUser(r.Context(), uid, req, photo)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.UserSvc.ChangePassword(r.Context(), uid, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *userHandlers) DeleteMe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.UserSvc.DeleteUser(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func readUserForm(w http.ResponseWriter, r *http.Request) (dto.UpdateUserRequest, *uploads.Photo, error) {
	var req dto.UpdateUserRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, nil, errs.NewFieldError("photo", "must be 5MB or smaller")
		}
		return req, nil, errs.NewValidationError("invalid multipart form")
	}

	if vals, ok := r.MultipartForm.Value["name"]; ok && len(vals) > 0 {
		req.Name = &vals[0]
	}
	if vals, ok := r.MultipartForm.Value["email"]; ok && len(vals) > 0 {
		req.Email = &vals[0]
	}
	if raw := r.FormValue("preferences"); raw != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.DisallowUnknownFields()
		var prefs dto.PreferencesUpdate
		if err := dec.Decode(&prefs); err != nil {
			return req, nil, errs.NewFieldError("preferences", err.Error())
		}
		req.Preferences = &prefs
	}

	file, _, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, errs.NewFieldError("photo", "could not be read")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxPhotoBytes+1))
	if err != nil {
		return req, nil, errs.NewFieldError("photo", "could not be read")
	}
	photo, err := uploads.NewPhoto(data)
	if err != nil {
		return req, nil, err
	}
	return req, &photo, nil
}
