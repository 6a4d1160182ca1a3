package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type stubRecurringService struct {
	lastReq dto.RecurringRequest
	lastID  string
	rt      *models.RecurringTransaction
	list    []*models.RecurringTransaction
	err     error
}

func (s *stubRecurringService) CreateRecurring(_ context.Context, _ string, req dto.RecurringRequest) (*models.RecurringTransaction, error) {
	s.lastReq = req
	return s.rt, s.err
}

func (s *stubRecurringService) ListRecurring(context.Context, string) ([]*models.RecurringTransaction, error) {
	return s.list, s.err
}

func (s *stubRecurringService) UpdateRecurring(_ context.Context, _, id string, req dto.RecurringRequest) (*models.RecurringTransaction, error) {
	s.lastID = id
	s.lastReq = req
	return s.rt, s.err
}

func (s *stubRecurringService) DeleteRecurring(_ context.Context, _, id string) error {
	s.lastID = id
	return s.err
}

func TestCreateRecurring_Created(t *testing.T) {
	svc := &stubRecurringService{rt: &models.RecurringTransaction{ID: "rt1"}}
	resp := &stubResponseHandler{}
	h := NewRecurringHandlers(&Deps{ResponseHandler: resp, RecurringSvc: svc})

	body := `{"amount":15,"type":"expense","frequency":"monthly","startDate":"2025-01-31","endDate":"2025-12-31T00:00:00Z"}`
	req := withUID(httptest.NewRequest(http.MethodPost, "/transactions/recurring", strings.NewReader(body)), "uid1")
	rr := httptest.NewRecorder()
	h.CreateRecurring(rr, req)

	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.writeSuccessStatus, resp.handleError)
	}
	if !svc.lastReq.StartDate.Equal(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)) || !svc.lastReq.EndDate.Set {
		t.Fatalf("dates not decoded: %+v", svc.lastReq)
	}
}

func TestListRecurring_ServiceError(t *testing.T) {
	svc := &stubRecurringService{err: errs.NewConflictError("schedule changed concurrently")}
	resp := &stubResponseHandler{}
	h := NewRecurringHandlers(&Deps{ResponseHandler: resp, RecurringSvc: svc})

	rr := httptest.NewRecorder()
	h.ListRecurring(rr, withUID(httptest.NewRequest(http.MethodGet, "/transactions/recurring", nil), "uid1"))

	var conflict *errs.ConflictError
	if !errors.As(resp.handleError, &conflict) {
		t.Fatalf("expected ConflictError, got %v", resp.handleError)
	}
}

func TestUpdateAndDeleteRecurring_UseRouteID(t *testing.T) {
	svc := &stubRecurringService{rt: &models.RecurringTransaction{ID: "rt1"}}
	resp := &stubResponseHandler{}
	h := NewRecurringHandlers(&Deps{ResponseHandler: resp, RecurringSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/transactions/recurring/rt1", strings.NewReader(`{"amount":20}`))
	rr := httptest.NewRecorder()
	h.UpdateRecurring(rr, withChiParam(withUID(req, "uid1"), "id", "rt1"))
	if svc.lastID != "rt1" || *svc.lastReq.Amount != 20 {
		t.Fatalf("update not forwarded: id=%s req=%+v", svc.lastID, svc.lastReq)
	}

	svc.lastID = ""
	rr = httptest.NewRecorder()
	h.DeleteRecurring(rr, withChiParam(withUID(httptest.NewRequest(http.MethodDelete, "/transactions/recurring/rt2", nil), "uid1"), "id", "rt2"))
	if svc.lastID != "rt2" || !resp.writeSuccessCalled {
		t.Fatalf("delete not forwarded: id=%s", svc.lastID)
	}
}

func TestUpdateRecurring_NullEndDateClears(t *testing.T) {
	svc := &stubRecurringService{rt: &models.RecurringTransaction{ID: "rt1"}}
	resp := &stubResponseHandler{}
	h := NewRecurringHandlers(&Deps{ResponseHandler: resp, RecurringSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/transactions/recurring/rt1", strings.NewReader(`{"endDate":null}`))
	rr := httptest.NewRecorder()
	h.UpdateRecurring(rr, withChiParam(withUID(req, "uid1"), "id", "rt1"))
	if !svc.lastReq.EndDate.Cleared() {
		t.Fatalf("expected a cleared end date, got %+v", svc.lastReq.EndDate)
	}
}
