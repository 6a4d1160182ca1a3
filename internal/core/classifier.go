// Package core holds the pure business rules: category suggestion, recurring
// schedule expansion, budget recommendation and spending insights. Nothing here
// performs I/O or reads the wall clock; callers pass "now" in.
package core

import (
	"strings"

	"github.com/GregMSThompson/pennyweek/internal/models"
)

// Rule assigns Category when any keyword occurs in a lower-cased note.
type Rule struct {
	Category models.Category
	Keywords []string
}

// DefaultRules is evaluated in order; the first matching rule wins.
var DefaultRules = []Rule{
	{Category: models.CategoryFood, Keywords: []string{"restaurant", "food", "dinner", "lunch", "groceries"}},
	{Category: models.CategoryTransport, Keywords: []string{"taxi", "uber", "transport", "bus", "train", "fare"}},
	{Category: models.CategoryUtilities, Keywords: []string{"electricity", "water", "internet", "phone", "bill"}},
	{Category: models.CategorySalary, Keywords: []string{"salary", "wage", "paycheck"}},
	{Category: models.CategoryFreelance, Keywords: []string{"freelance", "project", "gig"}},
}

type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

var defaultClassifier = NewClassifier(DefaultRules)

// Classify suggests a category for note using DefaultRules.
func Classify(note string) models.Category {
	return defaultClassifier.Classify(note)
}

func (c *Classifier) Classify(note string) models.Category {
	lower := strings.ToLower(strings.TrimSpace(note))
	if lower == "" {
		return models.CategoryUncategorized
	}
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return models.CategoryUncategorized
}

// ClassifyAny accepts a decoded JSON value; anything but a string is Uncategorized.
func (c *Classifier) ClassifyAny(note any) models.Category {
	s, ok := note.(string)
	if !ok {
		return models.CategoryUncategorized
	}
	return c.Classify(s)
}
