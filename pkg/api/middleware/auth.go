package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nanobanana/agent/pkg/api/response"
)

type Authenticator interface {
	IsAuthorized(token string) bool
}

func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	writer := response.JSONResponseWriter{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			if !authenticator.IsAuthorized(token) {
				slog.WarnContext(r.Context(), "Unauthorized access attempt", "path", r.URL.Path)
				writer.WriteErrorResponse(w, http.StatusUnauthorized, "not authorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
