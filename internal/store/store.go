// Package store persists users, transactions, recurring schedules and budgets
// in Firestore. Every record lives in a top-level collection keyed by id and
// carries a userId field; ownership is enforced by the services.
package store

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

const (
	usersCollection        = "users"
	emailsCollection       = "emails"
	transactionsCollection = "transactions"
	recurringCollection    = "recurring"
	budgetsCollection      = "budgets"
)

var errCursorMoved = errors.New("schedule cursor moved")

// readError maps a failed document read onto a NotFoundError or DatabaseError.
func readError(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError(what + " not found")
	}
	return errs.NewDatabaseError("read", "failed to get "+what, err)
}
