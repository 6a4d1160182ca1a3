// Package mongodb is the MongoDB implementation of the stores. It mirrors the
// Firestore stores method for method so the services can use either.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
	recurringCollection    = "recurring"
	budgetsCollection      = "budgets"
)

// DB wraps the client and the collections the stores use.
type DB struct {
	client       *mongo.Client
	users        *mongo.Collection
	transactions *mongo.Collection
	recurring    *mongo.Collection
	budgets      *mongo.Collection
}

// New connects, pings and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(dbName)
	db := &DB{
		client:       client,
		users:        database.Collection(usersCollection),
		transactions: database.Collection(transactionsCollection),
		recurring:    database.Collection(recurringCollection),
		budgets:      database.Collection(budgetsCollection),
	}
	if err := db.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		db.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		db.transactions: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "recurringId", Value: 1}}},
		},
		db.recurring: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "nextOccurrence", Value: 1}}},
		},
		db.budgets: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func findError(err error, what string) error {
	if err == mongo.ErrNoDocuments {
		return errs.NewNotFoundError(what + " not found")
	}
	return errs.NewDatabaseError("read", "failed to get "+what, err)
}

// withoutID encodes v as a document minus _id, for use in $set and
// $setOnInsert where _id must not appear.
func withoutID(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "_id")
	return m, nil
}
