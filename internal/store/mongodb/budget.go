package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type budgetStore struct {
	db *DB
}

func NewBudgetStore(db *DB) *budgetStore {
	return &budgetStore{db: db}
}

func (s *budgetStore) Upsert(ctx context.Context, b *models.Budget) error {
	now := time.Now()
	b.UpdatedAt = now

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"userId":    b.UserID,
			"category":  b.Category,
			"amount":    b.Amount,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	var saved models.Budget
	if err := s.db.budgets.FindOneAndUpdate(ctx, bson.M{"_id": b.ID}, update, opts).Decode(&saved); err != nil {
		return errs.NewDatabaseError("update", "failed to save budget", err)
	}
	b.CreatedAt = saved.CreatedAt
	return nil
}

func (s *budgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.budgets.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, findError(err, "budget")
	}
	return &b, nil
}

func (s *budgetStore) ListByUser(ctx context.Context, uid string) ([]*models.Budget, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}})
	cursor, err := s.db.budgets.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
	}
	defer cursor.Close(ctx)

	var out []*models.Budget
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
	}
	return out, nil
}

func (s *budgetStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.budgets.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return nil
}
