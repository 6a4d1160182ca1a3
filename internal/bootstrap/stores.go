package bootstrap

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/store"
	"github.com/GregMSThompson/pennyweek/internal/store/mongodb"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, uid string) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error
}

type RecurringStore interface {
	Create(ctx context.Context, rt *models.RecurringTransaction) error
	Get(ctx context.Context, id string) (*models.RecurringTransaction, error)
	Update(ctx context.Context, rt *models.RecurringTransaction) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, uid string) ([]*models.RecurringTransaction, error)
	ListDue(ctx context.Context, cutoff time.Time) ([]*models.RecurringTransaction, error)
	CommitExpansion(ctx context.Context, prev time.Time, schedule *models.RecurringTransaction, drafts []models.Transaction) error
}

type BudgetStore interface {
	Upsert(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	ListByUser(ctx context.Context, uid string) ([]*models.Budget, error)
	Delete(ctx context.Context, id string) error
}

// Stores is one persistence backend, Firestore or MongoDB.
type Stores struct {
	Users        UserStore
	Transactions TransactionStore
	Recurring    RecurringStore
	Budgets      BudgetStore
}

func firestoreStores(client *firestore.Client) Stores {
	return Stores{
		Users:        store.NewUserStore(client),
		Transactions: store.NewTransactionStore(client),
		Recurring:    store.NewRecurringStore(client),
		Budgets:      store.NewBudgetStore(client),
	}
}

func mongoStores(db *mongodb.DB) Stores {
	return Stores{
		Users:        mongodb.NewUserStore(db),
		Transactions: mongodb.NewTransactionStore(db),
		Recurring:    mongodb.NewRecurringStore(db),
		Budgets:      mongodb.NewBudgetStore(db),
	}
}
