package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		exists     *errs.AlreadyExistsError
		validation *errs.ValidationError
		authn      *errs.AuthenticationError
		forbidden  *errs.ForbiddenError
		conflict   *errs.ConflictError
		database   *errs.DatabaseError
		external   *errs.ExternalServiceError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &exists):
		log.Warn("resource already exists", "error", exists.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", exists.Message)

	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", validation.Message)

	case errors.As(err, &authn):
		log.Warn("authentication failed", "error", authn.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", authn.Message)

	case errors.As(err, &forbidden):
		log.Warn("access denied", "error", forbidden.Message)
		h.WriteError(w, r, http.StatusForbidden, "forbidden", forbidden.Message)

	case errors.As(err, &conflict):
		log.Warn("write conflict", "error", conflict.Message)
		h.WriteError(w, r, http.StatusConflict, "conflict", conflict.Message)

	case errors.As(err, &database):
		log.Error("database error",
			"operation", database.Operation,
			"error", database.Error())
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case errors.As(err, &external):
		level := slog.LevelError
		if external.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", external.Service,
			"transient", external.Transient,
			"error", external.Error())

		status := http.StatusBadGateway
		if external.Transient {
			status = http.StatusServiceUnavailable
		}
		h.WriteError(w, r, status, "service_unavailable",
			"Service temporarily unavailable")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
