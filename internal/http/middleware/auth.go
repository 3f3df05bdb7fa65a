package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/taipei-trip/internal/http/response"
	"github.com/diagnosis/taipei-trip/internal/platform/auth"
	"github.com/diagnosis/taipei-trip/pkg/logger"
)

type ctxKey string

const CtxIdentity ctxKey = "identity"

// RequireAuth rejects requests without a valid bearer token. A missing
// token and a failed verification both yield 403, with distinct
// messages so the client can tell "sign in" from "sign in again".
func RequireAuth(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Fail(w, http.StatusForbidden, "not signed in")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := tokens.Parse(raw)
			if err != nil {
				response.Fail(w, http.StatusForbidden, "token verification failed")
				return
			}
			ctx := context.WithValue(r.Context(), CtxIdentity, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity returns the verified claims, or nil outside RequireAuth.
func Identity(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxIdentity)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
