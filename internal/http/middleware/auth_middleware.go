package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/prodtrack/auth-service/internal/http/response"
	"github.com/prodtrack/auth-service/internal/observability"
	"github.com/prodtrack/auth-service/internal/service"
)

type contextKey string

const principalContextKey contextKey = "principal"

// AuthMiddleware resolves the bearer token into a principal and stores it
// on the request context. Validation is pure and local; no store access.
func AuthMiddleware(authSvc service.AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				observability.RecordTokenValidation(r.Context(), "missing")
				w.Header().Set("WWW-Authenticate", "Bearer")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			principal, err := authSvc.CurrentUser(raw)
			if err != nil {
				observability.RecordTokenValidation(r.Context(), "invalid")
				w.Header().Set("WWW-Authenticate", "Bearer")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			observability.RecordTokenValidation(r.Context(), "valid")
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PrincipalFromContext(ctx context.Context) (*service.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*service.Principal)
	return p, ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
