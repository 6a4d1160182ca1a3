package core

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/pennyweek/internal/models"
)

// DefaultRecommendation is suggested for categories with no recent spending.
const DefaultRecommendation int64 = 1000

// RecommendationWindowDays is the trailing window Recommend expects its input from.
const RecommendationWindowDays = 30

var (
	recommendationPadding = decimal.RequireFromString("1.2")
	recommendationPeriods = decimal.NewFromInt(4)
)

// RecommendationCategories are the categories a recommendation is produced for.
var RecommendationCategories = []models.Category{
	models.CategoryFood,
	models.CategoryTransport,
	models.CategoryUtilities,
	models.CategoryEntertainment,
	models.CategoryUncategorized,
}

// Recommend suggests a monthly budget per category from trailing expenses:
// the average transaction padded by 20% over four weeks, rounded half-up to a
// whole unit. Categories without transactions get DefaultRecommendation.
func Recommend(expenses []models.Transaction, categories []models.Category) map[models.Category]int64 {
	type tally struct {
		count int64
		total decimal.Decimal
	}
	tallies := make(map[models.Category]*tally, len(categories))
	for _, c := range categories {
		tallies[c] = &tally{total: decimal.Zero}
	}
	for _, tx := range expenses {
		t, ok := tallies[tx.Category]
		if !ok {
			continue
		}
		t.count++
		t.total = t.total.Add(decimal.NewFromFloat(tx.Amount))
	}

	out := make(map[models.Category]int64, len(categories))
	for _, c := range categories {
		t := tallies[c]
		if t.count == 0 {
			out[c] = DefaultRecommendation
			continue
		}
		avg := t.total.Div(decimal.NewFromInt(t.count))
		out[c] = avg.Mul(recommendationPadding).Mul(recommendationPeriods).Round(0).IntPart()
	}
	return out
}

type BudgetStatus struct {
	BudgetID  string          `json:"budgetId"`
	Category  models.Category `json:"category"`
	Budget    float64         `json:"budget"`
	Spent     float64         `json:"spent"`
	Remaining float64         `json:"remaining"`
	Exceeded  bool            `json:"exceeded"`
}

// Statuses compares each budget with the expenses in currency dated within
// now's calendar month (UTC), up to now.
func Statuses(budgets []*models.Budget, expenses []models.Transaction, now time.Time, currency string) []BudgetStatus {
	from := MonthStart(now)
	spent := map[models.Category]decimal.Decimal{}
	for _, tx := range expenses {
		if tx.Type != models.TypeExpense || tx.Currency != currency {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(now) {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(decimal.NewFromFloat(tx.Amount))
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		limit := decimal.NewFromFloat(b.Amount)
		s := spent[b.Category]
		out = append(out, BudgetStatus{
			BudgetID:  b.ID,
			Category:  b.Category,
			Budget:    b.Amount,
			Spent:     s.InexactFloat64(),
			Remaining: limit.Sub(s).InexactFloat64(),
			Exceeded:  s.GreaterThan(limit),
		})
	}
	return out
}
