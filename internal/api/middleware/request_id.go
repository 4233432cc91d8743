package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const requestIDKey ctxKey = 2

// RequestID stamps every request with an X-Request-ID, generating one
// when the caller didn't supply it, so a single request can be traced
// through the access log and any downstream integration call it makes.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id stashed by RequestID, or "" if the
// middleware never ran.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
