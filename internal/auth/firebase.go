package auth

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens. The caller maps the returned
// email onto a registered user.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client idTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return Identity{}, errs.NewAuthenticationError("invalid or expired token")
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return Identity{}, errs.NewAuthenticationError("token has no email claim")
	}
	return Identity{Email: email}, nil
}
