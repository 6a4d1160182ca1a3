package models

import (
	"fmt"
	"strings"
	"time"
)

// Budget is a monthly spending limit. There is at most one per (user, category).
type Budget struct {
	ID        string    `firestore:"id" bson:"_id" json:"id"`
	UserID    string    `firestore:"userId" bson:"userId" json:"userId"`
	Category  Category  `firestore:"category" bson:"category" json:"category"`
	Amount    float64   `firestore:"amount" bson:"amount" json:"amount"`
	CreatedAt time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}

// BudgetID derives the document id for a user's budget in a category.
func BudgetID(uid string, category Category) string {
	return fmt.Sprintf("%s_%s", uid, strings.ToLower(string(category)))
}
