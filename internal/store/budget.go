package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection() *firestore.CollectionRef {
	return s.client.Collection(budgetsCollection)
}

// Upsert writes the budget under its (user, category) id. An existing budget
// keeps its CreatedAt and takes the new amount.
func (s *budgetStore) Upsert(ctx context.Context, b *models.Budget) error {
	ref := s.collection().Doc(b.ID)
	now := time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var current models.Budget
			if err := snap.DataTo(&current); err != nil {
				return err
			}
			b.CreatedAt = current.CreatedAt
		case status.Code(err) == codes.NotFound:
			b.CreatedAt = now
		default:
			return err
		}
		b.UpdatedAt = now
		return tx.Set(ref, b)
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save budget", err)
	}
	return nil
}

func (s *budgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "budget")
	}
	var b models.Budget
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
	}
	return &b, nil
}

func (s *budgetStore) ListByUser(ctx context.Context, uid string) ([]*models.Budget, error) {
	iter := s.collection().Where("userId", "==", uid).OrderBy("category", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []*models.Budget
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
		}
		var b models.Budget
		if err := doc.DataTo(&b); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
		}
		out = append(out, &b)
	}
	return out, nil
}

func (s *budgetStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return nil
}
