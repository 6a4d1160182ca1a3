package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type transactionStore struct {
	db *DB
}

func NewTransactionStore(db *DB) *transactionStore {
	return &transactionStore{db: db}
}

func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	if _, err := s.db.transactions.InsertOne(ctx, tx); err != nil {
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.transactions.FindOne(ctx, bson.M{"_id": id}).Decode(&tx); err != nil {
		return nil, findError(err, "transaction")
	}
	return &tx, nil
}

func (s *transactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now()
	if _, err := s.db.transactions.ReplaceOne(ctx, bson.M{"_id": tx.ID}, tx); err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.transactions.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error {
	filter := bson.M{"userId": uid}
	if q.Type != nil {
		filter["type"] = *q.Type
	}
	if q.Category != nil {
		filter["category"] = *q.Category
	}
	if q.RecurringID != nil {
		filter["recurringId"] = *q.RecurringID
	}
	if q.DateFrom != nil || q.DateTo != nil {
		date := bson.M{}
		if q.DateFrom != nil {
			date["$gte"] = *q.DateFrom
		}
		if q.DateTo != nil {
			date["$lte"] = *q.DateTo
		}
		filter["date"] = date
	}

	dir := 1
	if q.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: dir}})
	if q.Limit > 0 {
		opts = opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.transactions.Find(ctx, filter, opts)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to query transactions", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var tx models.Transaction
		if err := cursor.Decode(&tx); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if err := fn(&tx); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to query transactions", err)
	}
	return nil
}
