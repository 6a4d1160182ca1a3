package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/GregMSThompson/pennyweek/internal/auth"
	"github.com/GregMSThompson/pennyweek/internal/errs"
	"github.com/GregMSThompson/pennyweek/internal/models"
	"github.com/GregMSThompson/pennyweek/internal/response"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

type userLookup interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Middleware struct {
	Verifier        auth.Verifier
	Users           userLookup
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(verifier auth.Verifier, users userLookup, rh response.ResponseHandler) *Middleware {
	return &Middleware{Verifier: verifier, Users: users, ResponseHandler: rh}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// Authenticate rejects the request with 401 unless it carries a valid bearer
// token for a user that still exists.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.unauthenticated(w, r, "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.unauthenticated(w, r, "invalid Authorization header")
			return
		}

		identity, err := m.Verifier.Verify(r.Context(), parts[1])
		if err != nil {
			m.unauthenticated(w, r, authMessage(err))
			return
		}

		user, err := m.resolve(r.Context(), identity)
		if err != nil {
			var nf *errs.NotFoundError
			if errors.As(err, &nf) {
				m.unauthenticated(w, r, "user no longer exists")
				return
			}
			m.ResponseHandler.HandleError(w, r, err)
			return
		}

		_, ctx := logger.With(r.Context(), "uid", user.ID)
		ctx = context.WithValue(ctx, UIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Firebase identities carry only an email.
func (m *Middleware) resolve(ctx context.Context, id auth.Identity) (*models.User, error) {
	if id.UserID != "" {
		return m.Users.Get(ctx, id.UserID)
	}
	return m.Users.GetByEmail(ctx, strings.ToLower(id.Email))
}

func (m *Middleware) unauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	logger.FromContext(r.Context()).Warn("request not authenticated", "reason", message)
	m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", message)
}

func authMessage(err error) string {
	var authn *errs.AuthenticationError
	if errors.As(err, &authn) {
		return authn.Message
	}
	return "invalid token"
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}
