package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/dto"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/pkg/helpers"
)

type transactionFixture struct {
	users     *fakeUserStore
	txs       *fakeTransactionStore
	recurring *fakeRecurringStore
	svc       *transactionService
}

func newTransactionFixture(now time.Time, currency string, txs ...models.Transaction) *transactionFixture {
	f := &transactionFixture{
		users: newFakeUserStore(&models.User{ID: "u1", Preferences: models.Preferences{DefaultCurrency: currency}}),
		txs:   newFakeTransactionStore(txs...),
	}
	f.recurring = newFakeRecurringStore(f.txs)
	rs := NewRecurringService(f.recurring, f.users, fixedClock(now))
	f.svc = NewTransactionService(f.txs, f.users, rs, fixedClock(now))
	return f
}

func TestTransactionServiceCreateClassifiesNote(t *testing.T) {
	now := date(2025, time.March, 3)
	f := newTransactionFixture(now, "EUR")

	tx, err := f.svc.CreateTransaction(helpers.TestCtx(), "u1", dto.TransactionRequest{
		Amount: helpers.Ptr(12.5),
		Type:   helpers.Ptr("expense"),
		Note:   helpers.Ptr("Uber to the office"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.Category != models.CategoryTransport {
		t.Fatalf("category = %s, want Transport", tx.Category)
	}
	if tx.Currency != "EUR" {
		t.Fatalf("currency = %s, want owner's EUR", tx.Currency)
	}
	if !tx.Date.Equal(now) || tx.UserID != "u1" || tx.ID == "" {
		t.Fatalf("unexpected defaults: %+v", tx)
	}

	tx, err = f.svc.CreateTransaction(helpers.TestCtx(), "u1", dto.TransactionRequest{
		Amount:   helpers.Ptr(3.0),
		Type:     helpers.Ptr("expense"),
		Category: helpers.Ptr("Uncategorized"),
		Note:     helpers.Ptr("team lunch"),
		Currency: helpers.Ptr("usd"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.Category != models.CategoryFood || tx.Currency != "USD" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	tx, err = f.svc.CreateTransaction(helpers.TestCtx(), "u1", dto.TransactionRequest{
		Amount:   helpers.Ptr(40.0),
		Type:     helpers.Ptr("expense"),
		Category: helpers.Ptr("bills"),
		Note:     helpers.Ptr("lunch"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.Category != models.CategoryUtilities {
		t.Fatalf("explicit legacy category not honoured: %s", tx.Category)
	}
}

func TestTransactionServiceCreateFallbackCurrency(t *testing.T) {
	f := newTransactionFixture(date(2025, time.March, 3), "")
	tx, err := f.svc.CreateTransaction(helpers.TestCtx(), "u1", dto.TransactionRequest{
		Amount: helpers.Ptr(1.0),
		Type:   helpers.Ptr("income"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.Currency != models.FallbackCurrency {
		t.Fatalf("currency = %s, want %s", tx.Currency, models.FallbackCurrency)
	}
}

func TestTransactionServiceCreateValidation(t *testing.T) {
	tests := map[string]dto.TransactionRequest{
		"missing amount":   {Type: helpers.Ptr("expense")},
		"missing type":     {Amount: helpers.Ptr(1.0)},
		"bad type":         {Amount: helpers.Ptr(1.0), Type: helpers.Ptr("transfer")},
		"negative amount":  {Amount: helpers.Ptr(-5.0), Type: helpers.Ptr("expense")},
		"unknown category": {Amount: helpers.Ptr(1.0), Type: helpers.Ptr("expense"), Category: helpers.Ptr("Yachts")},
		"bad currency":     {Amount: helpers.Ptr(1.0), Type: helpers.Ptr("expense"), Currency: helpers.Ptr("dollars")},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			f := newTransactionFixture(time.Now(), "USD")
			_, err := f.svc.CreateTransaction(helpers.TestCtx(), "u1", req)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(f.txs.txs) != 0 {
				t.Fatalf("transaction stored despite validation error")
			}
		})
	}
}

func TestTransactionServiceOwnership(t *testing.T) {
	original := models.Transaction{ID: "t1", UserID: "owner", Amount: 10, Type: models.TypeExpense, Note: "mine"}
	f := newTransactionFixture(time.Now(), "USD", original)

	var forbidden *errs.ForbiddenError
	_, err := f.svc.UpdateTransaction(helpers.TestCtx(), "u1", "t1", dto.TransactionRequest{Amount: helpers.Ptr(99.0)})
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError on update, got %v", err)
	}
	if err := f.svc.DeleteTransaction(helpers.TestCtx(), "u1", "t1"); !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError on delete, got %v", err)
	}
	if got := f.txs.txs["t1"]; got != original {
		t.Fatalf("transaction changed by non-owner: %+v", got)
	}

	var nf *errs.NotFoundError
	if err := f.svc.DeleteTransaction(helpers.TestCtx(), "u1", "missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestTransactionServiceUpdatePartial(t *testing.T) {
	f := newTransactionFixture(time.Now(), "USD", models.Transaction{
		ID: "t1", UserID: "u1", Amount: 10, Currency: "USD", Type: models.TypeExpense,
		Category: models.CategoryFood, Note: "dinner",
	})

	tx, err := f.svc.UpdateTransaction(helpers.TestCtx(), "u1", "t1", dto.TransactionRequest{Amount: helpers.Ptr(0.0)})
	if err != nil {
		t.Fatalf("UpdateTransaction returned error: %v", err)
	}
	// an explicit zero is applied; everything else is untouched
	if tx.Amount != 0 || tx.Note != "dinner" || tx.Category != models.CategoryFood {
		t.Fatalf("unexpected update result: %+v", tx)
	}
}

func TestTransactionServiceListIncludesRecurringInstances(t *testing.T) {
	now := date(2025, time.April, 1)
	f := newTransactionFixture(now, "USD", models.Transaction{ID: "t1", UserID: "u1", Type: models.TypeExpense, Date: date(2025, time.March, 5)})
	f.recurring.schedules["rt1"] = monthlySchedule("rt1", "u1", date(2025, time.January, 31))

	list, err := f.svc.ListTransactions(helpers.TestCtx(), "u1", dto.TransactionQuery{Desc: true})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(list))
	}
	if list[0].ID != "rt1_20250331" {
		t.Fatalf("expected newest first, got %s", list[0].ID)
	}
}

func TestTransactionServiceSuggestCategory(t *testing.T) {
	f := newTransactionFixture(time.Now(), "USD")

	var body dto.SuggestCategoryRequest
	if err := json.Unmarshal([]byte(`{"note":42}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := f.svc.SuggestCategory(body.Note); got != models.CategoryUncategorized {
		t.Fatalf("numeric note classified as %s", got)
	}
	if got := f.svc.SuggestCategory("electricity bill"); got != models.CategoryUtilities {
		t.Fatalf("got %s, want Utilities", got)
	}
}

func TestTransactionServiceRecommendBudget(t *testing.T) {
	now := date(2025, time.March, 31)
	expense := func(id string, amount float64, d time.Time) models.Transaction {
		return models.Transaction{ID: id, UserID: "u1", Amount: amount, Type: models.TypeExpense, Category: models.CategoryFood, Date: d}
	}
	f := newTransactionFixture(now, "USD",
		expense("a", 100, date(2025, time.March, 5)),
		expense("b", 200, date(2025, time.March, 15)),
		expense("c", 300, date(2025, time.March, 30)),
		expense("old", 5000, date(2025, time.January, 1)),
	)

	got, err := f.svc.RecommendBudget(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("RecommendBudget returned error: %v", err)
	}
	if got[models.CategoryFood] != 960 {
		t.Fatalf("Food = %d, want 960", got[models.CategoryFood])
	}
	if got[models.CategoryTransport] != 1000 {
		t.Fatalf("Transport = %d, want 1000", got[models.CategoryTransport])
	}
}

func TestTransactionServiceInsightsUsesOwnerCurrency(t *testing.T) {
	now := date(2025, time.January, 20)
	tx := func(id, currency string, amount float64, d time.Time) models.Transaction {
		return models.Transaction{ID: id, UserID: "u1", Amount: amount, Currency: currency, Type: models.TypeExpense, Category: models.CategoryFood, Date: d}
	}
	f := newTransactionFixture(now, "",
		tx("a", "INR", 10, date(2025, time.January, 10)),
		tx("b", "INR", 20, date(2024, time.December, 10)),
		tx("c", "INR", 30, date(2024, time.November, 10)),
		tx("d", "USD", 999, date(2025, time.January, 11)),
	)

	got, err := f.svc.Insights(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("Insights returned error: %v", err)
	}
	if got.Currency != "INR" {
		t.Fatalf("currency = %s, want INR fallback", got.Currency)
	}
	if got.CategoryTotals[models.CategoryFood] != 10 {
		t.Fatalf("category totals = %v", got.CategoryTotals)
	}
	periods := make([]string, 0, len(got.MonthlyTotals))
	for _, m := range got.MonthlyTotals {
		periods = append(periods, m.Period)
	}
	want := []string{"2024-11", "2024-12", "2025-01"}
	if len(periods) != len(want) {
		t.Fatalf("periods = %v, want %v", periods, want)
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Fatalf("periods = %v, want %v", periods, want)
		}
	}
}
