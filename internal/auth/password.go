package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

const MinPasswordLength = 6

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt rejects inputs over 72 bytes
		if err == bcrypt.ErrPasswordTooLong {
			return "", errs.NewFieldError("password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
