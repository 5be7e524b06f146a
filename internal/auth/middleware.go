package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/electronicdiary/api-school/internal/audit"
)

type ctxKey string

const (
	CtxUserID   ctxKey = "userID"
	CtxUserName ctxKey = "userName"
	CtxRole     ctxKey = "role"
)

// Middleware validates the bearer access token and puts the principal's
// id, username and role on the request context.
func Middleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := issuer.ParseAndValidate(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxUserName, claims.Name)
			ctx = context.WithValue(ctx, CtxRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id from the request context, or ""
// on unauthenticated requests.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(CtxUserID).(string)
	return id
}

// ActorFromRequest resolves the audit actor for a persistence call: the
// authenticated user id, or the system sentinel when there is none.
func ActorFromRequest(r *http.Request) audit.Actor {
	id := UserID(r)
	if id == "" {
		return audit.SystemActor
	}
	return audit.Actor(id)
}
