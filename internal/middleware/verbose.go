package middleware

import (
	"context"
	"net/http"

	"wachat/internal/service"
)

// Verbose stamps every request context with the verbose-logging flag so
// downstream log calls can decide whether identifiers get masked.
func Verbose(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), service.VerboseContextKey, enabled)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
