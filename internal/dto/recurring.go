package dto

type RecurringRequest struct {
	Amount    *float64     `json:"amount,omitempty"`
	Currency  *string      `json:"currency,omitempty"`
	Category  *string      `json:"category,omitempty"`
	Note      *string      `json:"note,omitempty"`
	Type      *string      `json:"type,omitempty"`
	Frequency *string      `json:"frequency,omitempty"`
	StartDate *Date        `json:"startDate,omitempty"`
	EndDate   OptionalDate `json:"endDate"`
}
