package auth

import "context"

// Identity is what a verified bearer token says about its holder. Local tokens
// carry the user id; Firebase tokens carry only an email that still has to be
// resolved to a user.
type Identity struct {
	UserID string
	Email  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
