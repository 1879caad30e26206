package middleware

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/s1natex/tasklist-GO/internal/response"
)

// RateLimitMiddleware rejects requests beyond l with a 429 envelope.
// A nil limiter disables limiting.
func RateLimitMiddleware(l *rate.Limiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.Allow() {
				next.ServeHTTP(w, r)
				return
			}
			retry := 1
			if lim := float64(l.Limit()); lim > 0 {
				retry = int(math.Ceil(1 / lim))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			response.Error("too_many_requests", http.StatusTooManyRequests).Write(w)
		})
	}
}

func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
