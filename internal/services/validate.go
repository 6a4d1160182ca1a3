package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@/]+@[^\s@/]+\.[^\s@/]+$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func clockOrNow(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errs.NewFieldError("email", "is required")
	}
	if !emailPattern.MatchString(email) {
		return "", errs.NewFieldError("email", "is not a valid address")
	}
	return email, nil
}

func parseCurrency(field, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currencyPattern.MatchString(code) {
		return "", errs.NewFieldError(field, "must be a three-letter ISO 4217 code")
	}
	return code, nil
}

func parseAmount(amount float64) (float64, error) {
	if amount < 0 {
		return 0, errs.NewFieldError("amount", "must not be negative")
	}
	return amount, nil
}

func parseType(t string) (models.TransactionType, error) {
	tt := models.TransactionType(strings.ToLower(strings.TrimSpace(t)))
	if !tt.Valid() {
		return "", errs.NewFieldError("type", "must be income or expense")
	}
	return tt, nil
}

func parseFrequency(f string) (models.Frequency, error) {
	freq := models.Frequency(strings.ToLower(strings.TrimSpace(f)))
	if !freq.Valid() {
		return "", errs.NewFieldError("frequency", "must be daily, weekly, monthly or yearly")
	}
	return freq, nil
}

func parseCategory(name string) (models.Category, error) {
	c, ok := models.ParseCategory(name)
	if !ok {
		return "", errs.NewFieldError("category", "unknown category "+strings.TrimSpace(name))
	}
	return c, nil
}

// owned returns a ForbiddenError when uid does not own the record.
func owned(uid, owner, what string) error {
	if uid != owner {
		return errs.NewForbiddenError("not allowed to modify this " + what)
	}
	return nil
}
