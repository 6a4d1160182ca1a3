package models

import "strings"

type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategorySalary        Category = "Salary"
	CategoryFreelance     Category = "Freelance"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
	CategoryUncategorized Category = "Uncategorized"
)

// Categories lists every canonical category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategorySalary,
	CategoryFreelance,
	CategoryEntertainment,
	CategoryOther,
	CategoryUncategorized,
}

// legacyCategories maps names used by older clients onto the canonical set.
var legacyCategories = map[string]Category{
	"bills":         CategoryUtilities,
	"uncategorised": CategoryUncategorized,
	"misc":          CategoryOther,
	"miscellaneous": CategoryOther,
	"groceries":     CategoryFood,
	"dining":        CategoryFood,
	"travel":        CategoryTransport,
	"wages":         CategorySalary,
}

// ParseCategory resolves a user-supplied name case-insensitively, applying the
// legacy mapping table. ok is false for unknown names.
func ParseCategory(name string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	for _, c := range Categories {
		if strings.ToLower(string(c)) == key {
			return c, true
		}
	}
	c, ok := legacyCategories[key]
	return c, ok
}

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}
