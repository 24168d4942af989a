package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nanobanana/agent/pkg/logger"
)

// RequestID tags every request with an ID that the logger handler prints,
// honoring an X-Request-ID supplied by the caller.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logger.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
