package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/response"
)

// TokenDecoder turns a raw bearer token into the identity it was issued for.
type TokenDecoder interface {
	Decode(ctx context.Context, raw string) (auth.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Authenticate decodes an optional bearer token and stores the identity in
// the request context. Requests without a usable token continue anonymously;
// RequireAuth rejects them where a caller is mandatory.
func Authenticate(tokens TokenDecoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := tokens.Decode(r.Context(), raw)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("bearer token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id, raw)))
		})
	}
}

// RequireAuth answers 401 unless Authenticate placed an identity in the context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFrom(r.Context()); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
