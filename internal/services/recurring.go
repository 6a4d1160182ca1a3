package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/pennyweek/internal/core"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

const (
	// commitChunk keeps a single expansion commit under Firestore's
	// 500-writes-per-transaction limit.
	commitChunk       = 400
	maxExpandAttempts = 3
)

type recurringRSStore interface {
	Create(ctx context.Context, rt *models.RecurringTransaction) error
	Get(ctx context.Context, id string) (*models.RecurringTransaction, error)
	Update(ctx context.Context, rt *models.RecurringTransaction) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, uid string) ([]*models.RecurringTransaction, error)
	ListDue(ctx context.Context, cutoff time.Time) ([]*models.RecurringTransaction, error)
	CommitExpansion(ctx context.Context, prev time.Time, schedule *models.RecurringTransaction, drafts []models.Transaction) error
}

type currencyLookup interface {
	Get(ctx context.Context, uid string) (*models.User, error)
}

type recurringService struct {
	Store recurringRSStore
	Users currencyLookup
	now   Clock
}

func NewRecurringService(store recurringRSStore, users currencyLookup, now Clock) *recurringService {
	return &recurringService{Store: store, Users: users, now: clockOrNow(now)}
}

func (s *recurringService) CreateRecurring(ctx context.Context, uid string, req dto.RecurringRequest) (*models.RecurringTransaction, error) {
	if req.Amount == nil {
		return nil, errs.NewFieldError("amount", "is required")
	}
	if req.Type == nil {
		return nil, errs.NewFieldError("type", "is required")
	}
	if req.Frequency == nil {
		return nil, errs.NewFieldError("frequency", "is required")
	}
	if req.StartDate == nil {
		return nil, errs.NewFieldError("startDate", "is required")
	}

	rt := &models.RecurringTransaction{
		ID:       uuid.NewString(),
		UserID:   uid,
		Category: models.CategoryUncategorized,
	}
	if req.Currency == nil {
		user, err := s.Users.Get(ctx, uid)
		if err != nil {
			return nil, err
		}
		rt.Currency = user.Preferences.Currency()
	}
	if err := applyRecurring(rt, req); err != nil {
		return nil, err
	}
	rt.NextOccurrence = rt.StartDate

	now := s.now()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	if err := s.Store.Create(ctx, rt); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("recurring transaction created", "recurring_id", rt.ID, "frequency", rt.Frequency)
	return rt, nil
}

// ListRecurring materialises due instances before listing the schedules so
// the returned cursors are current.
func (s *recurringService) ListRecurring(ctx context.Context, uid string) ([]*models.RecurringTransaction, error) {
	if err := s.ExpandUser(ctx, uid); err != nil {
		return nil, err
	}
	return s.Store.ListByUser(ctx, uid)
}

// UpdateRecurring applies a partial update. Moving the start date resets the
// cursor to it; resubmitting the same start date leaves the cursor alone.
// Instances already generated keep their deterministic ids and are never
// rewritten by a later expansion. An explicit null endDate removes the end.
func (s *recurringService) UpdateRecurring(ctx context.Context, uid, id string, req dto.RecurringRequest) (*models.RecurringTransaction, error) {
	rt, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := owned(uid, rt.UserID, "recurring transaction"); err != nil {
		return nil, err
	}

	prevStart := rt.StartDate
	if err := applyRecurring(rt, req); err != nil {
		return nil, err
	}
	if !rt.StartDate.Equal(prevStart) {
		rt.NextOccurrence = rt.StartDate
	}

	rt.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// DeleteRecurring removes the schedule. Instances it already generated stay.
func (s *recurringService) DeleteRecurring(ctx context.Context, uid, id string) error {
	rt, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := owned(uid, rt.UserID, "recurring transaction"); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// ExpandUser generates every instance of the user's schedules due up to now.
func (s *recurringService) ExpandUser(ctx context.Context, uid string) error {
	schedules, err := s.Store.ListByUser(ctx, uid)
	if err != nil {
		return err
	}
	cutoff := s.now()
	for _, rt := range schedules {
		if rt.NextOccurrence.After(cutoff) {
			continue
		}
		if _, err := s.expandSchedule(ctx, rt, cutoff); err != nil {
			return err
		}
	}
	return nil
}

// ExpandDue sweeps every user's due schedules. Failures are logged and the
// sweep moves on; the count of generated instances is returned.
func (s *recurringService) ExpandDue(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	cutoff := s.now()

	schedules, err := s.Store.ListDue(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, rt := range schedules {
		n, err := s.expandSchedule(ctx, rt, cutoff)
		total += n
		if err != nil {
			log.Error("failed to expand recurring transaction", "recurring_id", rt.ID, "uid", rt.UserID, "error", err)
		}
	}
	log.Info("expansion sweep finished", "schedules", len(schedules), "instances", total)
	return total, nil
}

// expandSchedule commits rt's due instances in chunks. A lost compare-and-swap
// reloads the schedule and tries again, up to maxExpandAttempts times.
func (s *recurringService) expandSchedule(ctx context.Context, rt *models.RecurringTransaction, cutoff time.Time) (int, error) {
	log := logger.FromContext(ctx)
	total := 0
	conflicts := 0

	for {
		prev := rt.NextOccurrence
		exp, err := core.Expand(*rt, cutoff, commitChunk)
		if err != nil {
			// a schedule with a frequency we cannot step is left untouched
			log.Warn("skipping recurring transaction", "recurring_id", rt.ID, "error", err)
			return total, nil
		}
		if len(exp.Drafts) == 0 {
			return total, nil
		}

		err = s.Store.CommitExpansion(ctx, prev, &exp.Schedule, exp.Drafts)
		var conflict *errs.ConflictError
		var notFound *errs.NotFoundError
		switch {
		case errors.As(err, &conflict):
			conflicts++
			if conflicts >= maxExpandAttempts {
				return total, err
			}
			log.Debug("recurring cursor moved, reloading", "recurring_id", rt.ID)
			fresh, err := s.Store.Get(ctx, rt.ID)
			if errors.As(err, &notFound) {
				return total, nil
			}
			if err != nil {
				return total, err
			}
			rt = fresh
			continue
		case errors.As(err, &notFound):
			// deleted while we were expanding
			return total, nil
		case err != nil:
			return total, err
		}

		total += len(exp.Drafts)
		next := exp.Schedule
		rt = &next
		if exp.Done(cutoff) {
			return total, nil
		}
	}
}

func applyRecurring(rt *models.RecurringTransaction, req dto.RecurringRequest) error {
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return err
		}
		rt.Amount = amount
	}
	if req.Currency != nil {
		c, err := parseCurrency("currency", *req.Currency)
		if err != nil {
			return err
		}
		rt.Currency = c
	}
	if req.Type != nil {
		t, err := parseType(*req.Type)
		if err != nil {
			return err
		}
		rt.Type = t
	}
	if req.Frequency != nil {
		f, err := parseFrequency(*req.Frequency)
		if err != nil {
			return err
		}
		rt.Frequency = f
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		c, err := parseCategory(*req.Category)
		if err != nil {
			return err
		}
		rt.Category = c
	}
	if req.Note != nil {
		rt.Note = strings.TrimSpace(*req.Note)
	}
	if req.StartDate != nil {
		rt.StartDate = core.StartOfDay(req.StartDate.Time)
	}
	switch {
	case req.EndDate.Cleared():
		rt.EndDate = nil
	case req.EndDate.Set:
		end := core.StartOfDay(req.EndDate.Time)
		rt.EndDate = &end
	}
	if rt.EndDate != nil && rt.EndDate.Before(rt.StartDate) {
		return errs.NewFieldError("endDate", "must not be before startDate")
	}
	return nil
}
