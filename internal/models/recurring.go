package models

import "time"

// RecurringTransaction is a schedule that materialises Transactions.
// NextOccurrence is the cursor: the date of the next instance still to be generated.
type RecurringTransaction struct {
	ID             string          `firestore:"id" bson:"_id" json:"id"`
	UserID         string          `firestore:"userId" bson:"userId" json:"userId"`
	Amount         float64         `firestore:"amount" bson:"amount" json:"amount"`
	Currency       string          `firestore:"currency" bson:"currency" json:"currency"`
	Category       Category        `firestore:"category" bson:"category" json:"category"`
	Note           string          `firestore:"note" bson:"note" json:"note"`
	Type           TransactionType `firestore:"type" bson:"type" json:"type"`
	Frequency      Frequency       `firestore:"frequency" bson:"frequency" json:"frequency"`
	StartDate      time.Time       `firestore:"startDate" bson:"startDate" json:"startDate"`
	EndDate        *time.Time      `firestore:"endDate,omitempty" bson:"endDate,omitempty" json:"endDate,omitempty"`
	NextOccurrence time.Time       `firestore:"nextOccurrence" bson:"nextOccurrence" json:"nextOccurrence"`
	CreatedAt      time.Time       `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}
