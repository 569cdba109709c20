// Package httputil holds JSON response helpers and middleware shared by the
// HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/uber-go/tally/v4"
	"golang.org/x/time/rate"
)

// RespondJSON writes v as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes a JSON error body with the given status code.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, map[string]string{"error": msg})
}

// RateLimit rejects requests with 429 once the token bucket is exhausted.
func RateLimit(l *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics counts and times requests per method under the given scope.
func Metrics(scope tally.Scope, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := scope.Tagged(map[string]string{"method": r.Method})
		s.Counter("requests").Inc(1)
		sw := s.Timer("request_latency").Start()
		defer sw.Stop()
		next.ServeHTTP(w, r)
	})
}
