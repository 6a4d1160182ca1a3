package models

import (
	"time"
)

type Transaction struct {
	ID          string          `firestore:"id" bson:"_id" json:"id"`
	UserID      string          `firestore:"userId" bson:"userId" json:"userId"`
	Amount      float64         `firestore:"amount" bson:"amount" json:"amount"`
	Currency    string          `firestore:"currency" bson:"currency" json:"currency"`
	Category    Category        `firestore:"category" bson:"category" json:"category"`
	Type        TransactionType `firestore:"type" bson:"type" json:"type"`
	Date        time.Time       `firestore:"date" bson:"date" json:"date"`
	Note        string          `firestore:"note" bson:"note" json:"note"`
	RecurringID string          `firestore:"recurringId,omitempty" bson:"recurringId,omitempty" json:"recurringId,omitempty"`
	IsRecurring bool            `firestore:"isRecurring" bson:"isRecurring" json:"isRecurring"`
	CreatedAt   time.Time       `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}
