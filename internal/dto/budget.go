package dto

type BudgetRequest struct {
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
}
