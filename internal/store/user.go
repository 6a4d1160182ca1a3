package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

var errEmailTaken = errors.New("email taken")

type emailIndex struct {
	UserID string `firestore:"userId"`
}

type userStore struct {
	client *firestore.Client
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{client: client}
}

func (s *userStore) users() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

// emails holds one document per registered address so uniqueness can be
// checked inside a transaction.
func (s *userStore) emails() *firestore.CollectionRef {
	return s.client.Collection(emailsCollection)
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		idx := s.emails().Doc(user.Email)
		if err := s.claimEmail(tx, idx); err != nil {
			return err
		}
		if err := tx.Create(idx, emailIndex{UserID: user.ID}); err != nil {
			return err
		}
		return tx.Create(s.users().Doc(user.ID), user)
	})
	if errors.Is(err, errEmailTaken) || status.Code(err) == codes.AlreadyExists {
		return errs.NewAlreadyExistsError("email already registered")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (s *userStore) claimEmail(tx *firestore.Transaction, idx *firestore.DocumentRef) error {
	_, err := tx.Get(idx)
	if err == nil {
		return errEmailTaken
	}
	if status.Code(err) != codes.NotFound {
		return err
	}
	return nil
}

func (s *userStore) Get(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.users().Doc(uid).Get(ctx)
	if err != nil {
		return nil, readError(err, "user")
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	doc, err := s.emails().Doc(email).Get(ctx)
	if err != nil {
		return nil, readError(err, "user")
	}
	var idx emailIndex
	if err := doc.DataTo(&idx); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse email index", err)
	}
	return s.Get(ctx, idx.UserID)
}

// Update replaces the user document. A changed email moves the index entry in
// the same transaction.
func (s *userStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	ref := s.users().Doc(user.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var current models.User
		if err := snap.DataTo(&current); err != nil {
			return err
		}
		if current.Email != user.Email {
			idx := s.emails().Doc(user.Email)
			if err := s.claimEmail(tx, idx); err != nil {
				return err
			}
			if err := tx.Create(idx, emailIndex{UserID: user.ID}); err != nil {
				return err
			}
			if err := tx.Delete(s.emails().Doc(current.Email)); err != nil {
				return err
			}
		}
		return tx.Set(ref, user)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errEmailTaken), status.Code(err) == codes.AlreadyExists:
		return errs.NewAlreadyExistsError("email already registered")
	case status.Code(err) == codes.NotFound:
		return errs.NewNotFoundError("user not found")
	default:
		return errs.NewDatabaseError("update", "failed to update user", err)
	}
}

// Delete removes the user and everything they own: transactions, recurring
// schedules, budgets and the email index entry.
func (s *userStore) Delete(ctx context.Context, uid string) error {
	log := logger.FromContext(ctx)

	user, err := s.Get(ctx, uid)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range []string{transactionsCollection, recurringCollection, budgetsCollection} {
		g.Go(func() error {
			n, err := s.deleteOwned(gctx, name, uid)
			if err != nil {
				return err
			}
			log.Debug("deleted owned documents", "collection", name, "count", n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete user data", err)
	}

	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(s.emails().Doc(user.Email)); err != nil {
			return err
		}
		return tx.Delete(s.users().Doc(uid))
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete user", err)
	}
	return nil
}

func (s *userStore) deleteOwned(ctx context.Context, collection, uid string) (int, error) {
	iter := s.client.Collection(collection).Where("userId", "==", uid).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return 0, err
		}
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return 0, err
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return 0, err
		}
	}
	return len(jobs), nil
}
