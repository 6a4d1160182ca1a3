package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/pennyweek/internal/store/mongodb"
)

// InitFirestore honours FIRESTORE_EMULATOR_HOST through the client library.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID)
}

func InitMongo(ctx context.Context, uri, dbName string) (*mongodb.DB, error) {
	return mongodb.New(ctx, uri, dbName)
}
