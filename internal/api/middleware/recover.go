package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/booking-core/internal/api/handlers"
)

type Logger interface {
	Error(format string, v ...interface{})
}

// Recover converts a panic anywhere downstream into a 500 instead of
// taking the whole server down. It is the only place in this module that
// catches a panic; every other layer is expected to return errors.
func Recover(log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered on %s %s: %v", r.Method, r.URL.Path, rec)
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
