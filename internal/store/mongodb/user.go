package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type userStore struct {
	db *DB
}

func NewUserStore(db *DB) *userStore {
	return &userStore{db: db}
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.db.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return errs.NewAlreadyExistsError("email already registered")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (s *userStore) Get(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := s.db.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
		return nil, findError(err, "user")
	}
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, findError(err, "user")
	}
	return &user, nil
}

func (s *userStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	res, err := s.db.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if mongo.IsDuplicateKeyError(err) {
		return errs.NewAlreadyExistsError("email already registered")
	}
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update user", err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFoundError("user not found")
	}
	return nil
}

// Delete removes the user and their transactions, recurring schedules and
// budgets. The unique email index entry goes with the user document.
func (s *userStore) Delete(ctx context.Context, uid string) error {
	log := logger.FromContext(ctx)

	if _, err := s.Get(ctx, uid); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, coll := range []*mongo.Collection{s.db.transactions, s.db.recurring, s.db.budgets} {
		g.Go(func() error {
			res, err := coll.DeleteMany(gctx, bson.M{"userId": uid})
			if err != nil {
				return err
			}
			log.Debug("deleted owned documents", "collection", coll.Name(), "count", res.DeletedCount)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete user data", err)
	}

	if _, err := s.db.users.DeleteOne(ctx, bson.M{"_id": uid}); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete user", err)
	}
	return nil
}
