package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type recurringStore struct {
	db *DB
}

func NewRecurringStore(db *DB) *recurringStore {
	return &recurringStore{db: db}
}

func (s *recurringStore) Create(ctx context.Context, rt *models.RecurringTransaction) error {
	now := time.Now()
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = now
	}
	rt.UpdatedAt = now
	if _, err := s.db.recurring.InsertOne(ctx, rt); err != nil {
		return errs.NewDatabaseError("create", "failed to create recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) Get(ctx context.Context, id string) (*models.RecurringTransaction, error) {
	var rt models.RecurringTransaction
	if err := s.db.recurring.FindOne(ctx, bson.M{"_id": id}).Decode(&rt); err != nil {
		return nil, findError(err, "recurring transaction")
	}
	return &rt, nil
}

func (s *recurringStore) Update(ctx context.Context, rt *models.RecurringTransaction) error {
	rt.UpdatedAt = time.Now()
	if _, err := s.db.recurring.ReplaceOne(ctx, bson.M{"_id": rt.ID}, rt); err != nil {
		return errs.NewDatabaseError("update", "failed to update recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.recurring.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) ListByUser(ctx context.Context, uid string) ([]*models.RecurringTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	return s.list(ctx, bson.M{"userId": uid}, opts)
}

func (s *recurringStore) ListDue(ctx context.Context, cutoff time.Time) ([]*models.RecurringTransaction, error) {
	return s.list(ctx, bson.M{"nextOccurrence": bson.M{"$lte": cutoff}}, options.Find())
}

func (s *recurringStore) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.RecurringTransaction, error) {
	cursor, err := s.db.recurring.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list recurring transactions", err)
	}
	defer cursor.Close(ctx)

	var out []*models.RecurringTransaction
	for cursor.Next(ctx) {
		var rt models.RecurringTransaction
		if err := cursor.Decode(&rt); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse recurring transaction data", err)
		}
		out = append(out, &rt)
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list recurring transactions", err)
	}
	return out, nil
}

// CommitExpansion upserts drafts by id with $setOnInsert, so a retried commit
// never duplicates or overwrites an instance, then advances the cursor only if
// it still equals prev.
func (s *recurringStore) CommitExpansion(ctx context.Context, prev time.Time, schedule *models.RecurringTransaction, drafts []models.Transaction) error {
	now := time.Now()

	if len(drafts) > 0 {
		writes := make([]mongo.WriteModel, 0, len(drafts))
		for i := range drafts {
			d := drafts[i]
			if d.CreatedAt.IsZero() {
				d.CreatedAt = now
			}
			d.UpdatedAt = now
			doc, err := withoutID(d)
			if err != nil {
				return errs.NewDatabaseError("update", "failed to encode recurring instance", err)
			}
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": d.ID}).
				SetUpdate(bson.M{"$setOnInsert": doc}).
				SetUpsert(true))
		}
		if _, err := s.db.transactions.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return errs.NewDatabaseError("update", "failed to write recurring instances", err)
		}
	}

	res, err := s.db.recurring.UpdateOne(ctx,
		bson.M{"_id": schedule.ID, "nextOccurrence": prev},
		bson.M{"$set": bson.M{"nextOccurrence": schedule.NextOccurrence, "updatedAt": now}},
	)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to advance recurring cursor", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.Get(ctx, schedule.ID); err != nil {
			return err
		}
		return errs.NewConflictError("recurring transaction was expanded concurrently")
	}
	return nil
}
