package dto

import (
	"time"

	"github.com/GregMSThompson/pennyweek/internal/models"
)

// TransactionRequest is used for create and partial update. On create Amount
// and Type are required.
type TransactionRequest struct {
	Amount   *float64 `json:"amount,omitempty"`
	Currency *string  `json:"currency,omitempty"`
	Category *string  `json:"category,omitempty"`
	Type     *string  `json:"type,omitempty"`
	Date     *Date    `json:"date,omitempty"`
	Note     *string  `json:"note,omitempty"`
}

type TransactionQuery struct {
	Type        *models.TransactionType
	Category    *models.Category
	RecurringID *string
	DateFrom    *time.Time
	DateTo      *time.Time
	Desc        bool
	Limit       int
}

type SuggestCategoryRequest struct {
	Note any `json:"note"`
}

type SuggestCategoryResponse struct {
	Category models.Category `json:"category"`
}
