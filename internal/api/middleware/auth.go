package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/tetris-showcase/internal/api/apierr"
	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/services/auth"
)

type adminKey struct{}

// AdminCookie is accepted when no Authorization header is sent
const AdminCookie = "tetris_admin"

// AdminAuth resolves the bearer token and stores it on the request context
func AdminAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, ok := BearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="tetris-admin"`)
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			token, err := authService.Authenticate(r.Context(), bearer)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="tetris-admin", error="invalid_token"`)
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, token)))
		})
	}
}

// BearerToken reads "Authorization: Bearer <token>", falling back to AdminCookie
func BearerToken(r *http.Request) (string, bool) {
	if scheme, value, found := strings.Cut(r.Header.Get("Authorization"), " "); found && strings.EqualFold(scheme, "Bearer") {
		value = strings.TrimSpace(value)
		return value, value != ""
	}
	if cookie, err := r.Cookie(AdminCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// Admin returns the token AdminAuth attached, or nil outside admin routes
func Admin(ctx context.Context) *model.AdminToken {
	token, _ := ctx.Value(adminKey{}).(*model.AdminToken)
	return token
}
