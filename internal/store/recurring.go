package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

type recurringStore struct {
	client *firestore.Client
}

func NewRecurringStore(client *firestore.Client) *recurringStore {
	return &recurringStore{client: client}
}

func (s *recurringStore) collection() *firestore.CollectionRef {
	return s.client.Collection(recurringCollection)
}

func (s *recurringStore) Create(ctx context.Context, rt *models.RecurringTransaction) error {
	now := time.Now()
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = now
	}
	rt.UpdatedAt = now
	if _, err := s.collection().Doc(rt.ID).Create(ctx, rt); err != nil {
		return errs.NewDatabaseError("create", "failed to create recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) Get(ctx context.Context, id string) (*models.RecurringTransaction, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readError(err, "recurring transaction")
	}
	var rt models.RecurringTransaction
	if err := doc.DataTo(&rt); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse recurring transaction data", err)
	}
	return &rt, nil
}

func (s *recurringStore) Update(ctx context.Context, rt *models.RecurringTransaction) error {
	rt.UpdatedAt = time.Now()
	if _, err := s.collection().Doc(rt.ID).Set(ctx, rt); err != nil {
		return errs.NewDatabaseError("update", "failed to update recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) ListByUser(ctx context.Context, uid string) ([]*models.RecurringTransaction, error) {
	return s.list(ctx, s.collection().Where("userId", "==", uid).OrderBy("startDate", firestore.Asc))
}

// ListDue returns every schedule, across users, whose cursor is at or before cutoff.
func (s *recurringStore) ListDue(ctx context.Context, cutoff time.Time) ([]*models.RecurringTransaction, error) {
	return s.list(ctx, s.collection().Where("nextOccurrence", "<=", cutoff))
}

func (s *recurringStore) list(ctx context.Context, query firestore.Query) ([]*models.RecurringTransaction, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []*models.RecurringTransaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list recurring transactions", err)
		}
		var rt models.RecurringTransaction
		if err := doc.DataTo(&rt); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse recurring transaction data", err)
		}
		out = append(out, &rt)
	}
	return out, nil
}

// CommitExpansion inserts drafts and advances the schedule cursor in one
// transaction, provided the stored cursor still equals prev. Drafts are keyed
// by their deterministic ids and an instance that already exists is left as
// stored, so a repeated commit neither duplicates nor overwrites.
func (s *recurringStore) CommitExpansion(ctx context.Context, prev time.Time, schedule *models.RecurringTransaction, drafts []models.Transaction) error {
	ref := s.collection().Doc(schedule.ID)
	txs := s.client.Collection(transactionsCollection)
	now := time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var current models.RecurringTransaction
		if err := snap.DataTo(&current); err != nil {
			return err
		}
		if !current.NextOccurrence.Equal(prev) {
			return errCursorMoved
		}

		refs := make([]*firestore.DocumentRef, len(drafts))
		for i := range drafts {
			refs[i] = txs.Doc(drafts[i].ID)
		}
		var existing []*firestore.DocumentSnapshot
		if len(refs) > 0 {
			if existing, err = tx.GetAll(refs); err != nil {
				return err
			}
		}
		for i, snap := range existing {
			if snap.Exists() {
				continue
			}
			d := drafts[i]
			if d.CreatedAt.IsZero() {
				d.CreatedAt = now
			}
			d.UpdatedAt = now
			if err := tx.Create(refs[i], d); err != nil {
				return err
			}
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "nextOccurrence", Value: schedule.NextOccurrence},
			{Path: "updatedAt", Value: now},
		})
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errCursorMoved):
		return errs.NewConflictError("recurring transaction was expanded concurrently")
	case status.Code(err) == codes.NotFound:
		return errs.NewNotFoundError("recurring transaction not found")
	default:
		return errs.NewDatabaseError("update", "failed to commit recurring expansion", err)
	}
}
