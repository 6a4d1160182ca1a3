package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/pennyweek/internal/models"
)

const (
	CategoryWindowDays = 30
	MonthlyWindow      = 6
)

type MonthTotal struct {
	Period string  `json:"period"` // YYYY-MM
	Total  float64 `json:"total"`
}

// MonthlyTotals is ordered ascending by period and encodes as a JSON object
// whose keys keep that order.
type MonthlyTotals []MonthTotal

func (m MonthlyTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mt := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(mt.Period)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(mt.Total)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Insights struct {
	Currency       string                      `json:"currency"`
	CategoryTotals map[models.Category]float64 `json:"categoryTotals"`
	MonthlyTotals  MonthlyTotals               `json:"monthlyTotals"`
}

// CategoryWindowStart is the inclusive lower bound of the category window.
func CategoryWindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -CategoryWindowDays)
}

// MonthlyWindowStart is the inclusive lower bound of the monthly window.
func MonthlyWindowStart(now time.Time) time.Time {
	return now.AddDate(0, -MonthlyWindow, 0)
}

// Aggregate totals expense transactions in currency: by category over the
// trailing 30 days and by calendar month (UTC) over the trailing 6 months.
// Transactions in other currencies are excluded, not converted.
func Aggregate(txs []models.Transaction, now time.Time, currency string) Insights {
	catFrom := CategoryWindowStart(now)
	monthFrom := MonthlyWindowStart(now)

	byCategory := map[models.Category]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}

	for _, tx := range txs {
		if tx.Type != models.TypeExpense || tx.Currency != currency || tx.Date.After(now) {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if !tx.Date.Before(catFrom) {
			byCategory[tx.Category] = byCategory[tx.Category].Add(amount)
		}
		if !tx.Date.Before(monthFrom) {
			key := PeriodKey(tx.Date)
			byMonth[key] = byMonth[key].Add(amount)
		}
	}

	out := Insights{
		Currency:       currency,
		CategoryTotals: make(map[models.Category]float64, len(byCategory)),
		MonthlyTotals:  make(MonthlyTotals, 0, len(byMonth)),
	}
	for c, total := range byCategory {
		out.CategoryTotals[c] = total.InexactFloat64()
	}
	for period, total := range byMonth {
		out.MonthlyTotals = append(out.MonthlyTotals, MonthTotal{Period: period, Total: total.InexactFloat64()})
	}
	// zero-padded YYYY-MM sorts chronologically as a string
	sort.Slice(out.MonthlyTotals, func(i, j int) bool {
		return out.MonthlyTotals[i].Period < out.MonthlyTotals[j].Period
	})
	return out
}

func PeriodKey(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d-%02d", u.Year(), int(u.Month()))
}

// MonthStart returns the first instant of now's calendar month in UTC.
func MonthStart(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
