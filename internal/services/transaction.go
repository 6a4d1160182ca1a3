package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/pennyweek/internal/core"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type transactionTSStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error
}

// expander materialises due recurring instances for a user.
type expander interface {
	ExpandUser(ctx context.Context, uid string) error
}

type transactionService struct {
	Store      transactionTSStore
	Users      currencyLookup
	Recurring  expander
	Classifier *core.Classifier
	now        Clock
}

func NewTransactionService(store transactionTSStore, users currencyLookup, recurring expander, now Clock) *transactionService {
	return &transactionService{
		Store:      store,
		Users:      users,
		Recurring:  recurring,
		Classifier: core.NewClassifier(core.DefaultRules),
		now:        clockOrNow(now),
	}
}

// ListTransactions expands due recurring instances first so they are included.
func (s *transactionService) ListTransactions(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error) {
	if err := s.Recurring.ExpandUser(ctx, uid); err != nil {
		return nil, err
	}
	return s.collect(ctx, uid, q)
}

func (s *transactionService) collect(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := s.Store.Query(ctx, uid, q, func(tx *models.Transaction) error {
		out = append(out, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, uid string, req dto.TransactionRequest) (*models.Transaction, error) {
	if req.Amount == nil {
		return nil, errs.NewFieldError("amount", "is required")
	}
	if req.Type == nil {
		return nil, errs.NewFieldError("type", "is required")
	}

	now := s.now()
	tx := &models.Transaction{
		ID:        uuid.NewString(),
		UserID:    uid,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Currency == nil {
		user, err := s.Users.Get(ctx, uid)
		if err != nil {
			return nil, err
		}
		tx.Currency = user.Preferences.Currency()
	}
	if err := applyTransaction(tx, req); err != nil {
		return nil, err
	}
	// No category, or an explicit Uncategorized, falls back to the note.
	if tx.Category == "" || tx.Category == models.CategoryUncategorized {
		tx.Category = s.Classifier.Classify(tx.Note)
	}

	if err := s.Store.Create(ctx, tx); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("transaction created", "transaction_id", tx.ID, "category", tx.Category)
	return tx, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, uid, id string, req dto.TransactionRequest) (*models.Transaction, error) {
	tx, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := owned(uid, tx.UserID, "transaction"); err != nil {
		return nil, err
	}
	if err := applyTransaction(tx, req); err != nil {
		return nil, err
	}
	tx.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, uid, id string) error {
	tx, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := owned(uid, tx.UserID, "transaction"); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// SuggestCategory accepts the raw decoded note; non-strings are Uncategorized.
func (s *transactionService) SuggestCategory(note any) models.Category {
	return s.Classifier.ClassifyAny(note)
}

// RecommendBudget suggests budgets from the trailing 30 days of expenses.
func (s *transactionService) RecommendBudget(ctx context.Context, uid string) (map[models.Category]int64, error) {
	if err := s.Recurring.ExpandUser(ctx, uid); err != nil {
		return nil, err
	}
	now := s.now()
	from := now.AddDate(0, 0, -core.RecommendationWindowDays)
	expense := models.TypeExpense

	expenses, err := s.collect(ctx, uid, dto.TransactionQuery{Type: &expense, DateFrom: &from, DateTo: &now})
	if err != nil {
		return nil, err
	}
	return core.Recommend(expenses, core.RecommendationCategories), nil
}

// Insights loads the user's currency and their recent expenses concurrently.
func (s *transactionService) Insights(ctx context.Context, uid string) (core.Insights, error) {
	now := s.now()
	from := core.MonthlyWindowStart(now)
	if c := core.CategoryWindowStart(now); c.Before(from) {
		from = c
	}
	expense := models.TypeExpense

	var (
		user     *models.User
		expenses []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.Users.Get(gctx, uid)
		return err
	})
	g.Go(func() error {
		if err := s.Recurring.ExpandUser(gctx, uid); err != nil {
			return err
		}
		var err error
		expenses, err = s.collect(gctx, uid, dto.TransactionQuery{Type: &expense, DateFrom: &from, DateTo: &now})
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Insights{}, err
	}

	return core.Aggregate(expenses, now, user.Preferences.Currency()), nil
}

func applyTransaction(tx *models.Transaction, req dto.TransactionRequest) error {
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return err
		}
		tx.Amount = amount
	}
	if req.Currency != nil {
		c, err := parseCurrency("currency", *req.Currency)
		if err != nil {
			return err
		}
		tx.Currency = c
	}
	if req.Type != nil {
		t, err := parseType(*req.Type)
		if err != nil {
			return err
		}
		tx.Type = t
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		c, err := parseCategory(*req.Category)
		if err != nil {
			return err
		}
		tx.Category = c
	}
	if req.Note != nil {
		tx.Note = strings.TrimSpace(*req.Note)
	}
	if req.Date != nil {
		tx.Date = req.Date.Time
	}
	return nil
}
