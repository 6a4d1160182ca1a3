package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection() *firestore.CollectionRef {
	return s.client.Collection(transactionsCollection)
}

func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	if _, err := s.collection().Doc(tx.ID).Create(ctx, tx); err != nil {
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "transaction")
	}
	var tx models.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return &tx, nil
}

func (s *transactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now()
	if _, err := s.collection().Doc(tx.ID).Set(ctx, tx); err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// Query streams a user's transactions matching q to fn, ordered by date.
// Returning an error from fn stops the iteration.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error {
	query := s.collection().Where("userId", "==", uid)
	if q.Type != nil {
		query = query.Where("type", "==", string(*q.Type))
	}
	if q.Category != nil {
		query = query.Where("category", "==", string(*q.Category))
	}
	if q.RecurringID != nil {
		query = query.Where("recurringId", "==", *q.RecurringID)
	}
	if q.DateFrom != nil {
		query = query.Where("date", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date", "<=", *q.DateTo)
	}
	dir := firestore.Asc
	if q.Desc {
		dir = firestore.Desc
	}
	query = query.OrderBy("date", dir)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		var tx models.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if err := fn(&tx); err != nil {
			return err
		}
	}
}
