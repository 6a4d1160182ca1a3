package auth

import "context"

type chain []Verifier

// Chain accepts a token if any verifier does, trying them in order. The
// error from the last verifier is returned when none accept it.
func Chain(verifiers ...Verifier) Verifier {
	return chain(verifiers)
}

func (c chain) Verify(ctx context.Context, raw string) (Identity, error) {
	var lastErr error
	for _, v := range c {
		id, err := v.Verify(ctx, raw)
		if err == nil {
			return id, nil
		}
		lastErr = err
	}
	return Identity{}, lastErr
}
