package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GregMSThompson/pennyweek/internal/models"
)

func TestClassifyEveryDefaultKeyword(t *testing.T) {
	for _, rule := range DefaultRules {
		for _, kw := range rule.Keywords {
			t.Run(kw, func(t *testing.T) {
				assert.Equal(t, rule.Category, Classify("paid for "+kw+" today"))
			})
		}
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, models.CategoryTransport, Classify("UBER to the airport"))
	assert.Equal(t, models.CategorySalary, Classify("Monthly Paycheck"))
}

func TestClassifyFallback(t *testing.T) {
	c := NewClassifier(DefaultRules)

	assert.Equal(t, models.CategoryUncategorized, Classify(""))
	assert.Equal(t, models.CategoryUncategorized, Classify("   "))
	assert.Equal(t, models.CategoryUncategorized, Classify("xyzzy"))
	assert.Equal(t, models.CategoryUncategorized, c.ClassifyAny(nil))
	assert.Equal(t, models.CategoryUncategorized, c.ClassifyAny(42.0))
	assert.Equal(t, models.CategoryFood, c.ClassifyAny("team lunch"))
}

func TestClassifyEarlierRuleWins(t *testing.T) {
	// "bus" (Transport) and "bill" (Utilities) both match; Transport is listed first.
	assert.Equal(t, models.CategoryTransport, Classify("bus pass bill"))
	// "lunch" (Food) beats "project" (Freelance).
	assert.Equal(t, models.CategoryFood, Classify("project lunch with client"))
}

func TestClassifierCustomRules(t *testing.T) {
	c := NewClassifier([]Rule{
		{Category: models.CategoryEntertainment, Keywords: []string{"cinema"}},
	})
	assert.Equal(t, models.CategoryEntertainment, c.Classify("Cinema tickets"))
	assert.Equal(t, models.CategoryUncategorized, c.Classify("dinner"))
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, models.CategoryUtilities, Classify("internet and water"))
	}
}
