package services

import (
	"context"

	"github.com/GregMSThompson/pennyweek/internal/core"
	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type budgetBSStore interface {
	Upsert(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	ListByUser(ctx context.Context, uid string) ([]*models.Budget, error)
	Delete(ctx context.Context, id string) error
}

type expenseQuerier interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error
}

type budgetService struct {
	Store        budgetBSStore
	Transactions expenseQuerier
	Users        currencyLookup
	Recurring    expander
	now          Clock
}

func NewBudgetService(store budgetBSStore, transactions expenseQuerier, users currencyLookup, recurring expander, now Clock) *budgetService {
	return &budgetService{
		Store:        store,
		Transactions: transactions,
		Users:        users,
		Recurring:    recurring,
		now:          clockOrNow(now),
	}
}

func (s *budgetService) ListBudgets(ctx context.Context, uid string) ([]*models.Budget, error) {
	budgets, err := s.Store.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = []*models.Budget{}
	}
	return budgets, nil
}

// SetBudget creates or replaces the user's budget for a category.
func (s *budgetService) SetBudget(ctx context.Context, uid string, req dto.BudgetRequest) (*models.Budget, error) {
	if req.Category == "" {
		return nil, errs.NewFieldError("category", "is required")
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, errs.NewFieldError("amount", "is required")
	}
	amount, err := parseAmount(*req.Amount)
	if err != nil {
		return nil, err
	}

	b := &models.Budget{
		ID:       models.BudgetID(uid, category),
		UserID:   uid,
		Category: category,
		Amount:   amount,
	}
	if err := s.Store.Upsert(ctx, b); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("budget saved", "category", category, "amount", amount)
	return b, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, uid, id string) error {
	b, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := owned(uid, b.UserID, "budget"); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// BudgetStatus compares each budget with this calendar month's spending in
// the user's currency.
func (s *budgetService) BudgetStatus(ctx context.Context, uid string) ([]core.BudgetStatus, error) {
	if err := s.Recurring.ExpandUser(ctx, uid); err != nil {
		return nil, err
	}
	user, err := s.Users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	budgets, err := s.Store.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := core.MonthStart(now)
	expense := models.TypeExpense
	var expenses []models.Transaction
	err = s.Transactions.Query(ctx, uid, dto.TransactionQuery{Type: &expense, DateFrom: &from, DateTo: &now}, func(tx *models.Transaction) error {
		expenses = append(expenses, *tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return core.Statuses(budgets, expenses, now, user.Preferences.Currency()), nil
}
