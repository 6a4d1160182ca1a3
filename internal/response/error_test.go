package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/pkg/helpers"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("transaction not found"), http.StatusNotFound, "not_found"},
		{"exists", errs.NewAlreadyExistsError("email already registered"), http.StatusConflict, "already_exists"},
		{"validation", errs.NewFieldError("amount", "must not be negative"), http.StatusBadRequest, "invalid_input"},
		{"authentication", errs.NewAuthenticationError("invalid or expired token"), http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", errs.NewForbiddenError("not your record"), http.StatusForbidden, "forbidden"},
		{"conflict", errs.NewConflictError("cursor moved"), http.StatusConflict, "conflict"},
		{"database", errs.NewDatabaseError("read", "failed to read", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{"external transient", errs.NewExternalServiceError("storage", "upload failed", true, nil), http.StatusServiceUnavailable, "service_unavailable"},
		{"external", errs.NewExternalServiceError("storage", "upload failed", false, nil), http.StatusBadGateway, "service_unavailable"},
		{"wrapped", fmt.Errorf("list: %w", errs.NewNotFoundError("gone")), http.StatusNotFound, "not_found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	h := New(logger.New("", logger.NewTestHandler))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			rr := httptest.NewRecorder()

			h.HandleError(rr, req, tc.err)

			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tc.code {
				t.Fatalf("code = %q, want %q", body.Code, tc.code)
			}
		})
	}
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	h := New(logger.New("", logger.NewTestHandler))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
	rr := httptest.NewRecorder()

	h.HandleError(rr, req, errs.NewDatabaseError("update", "failed to update", errors.New("dial tcp 10.0.0.1: refused")))

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "An error occurred" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := New(logger.New("", logger.NewTestHandler))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
	rr := httptest.NewRecorder()

	h.WriteSuccess(rr, req, http.StatusCreated, map[string]string{"category": "Food"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Data["category"] != "Food" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
