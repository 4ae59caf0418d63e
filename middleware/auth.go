package middleware

import (
	"net/http"
	"strings"

	"item-audit-api/auth"
	"item-audit-api/repositories"
	"item-audit-api/userctx"
)

// RequireAuth ensures the request carries a valid bearer token and puts the
// resolved user into the request context. Expired, malformed and
// wrong-signature tokens all get the same generic 401.
func RequireAuth(tokens *auth.TokenService, users repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			username, err := tokens.Decode(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(userctx.SetUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail": "Invalid token"}`))
}
