// Package middleware provides the HTTP middleware of the pizza service.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/shashiranjanraj/jwtpizza/pkg/response"
)

// RateLimit limits each client IP to max requests per window.
//
//	middleware.RateLimit(config.RateLimitPerMinute(), time.Minute)
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(max, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			response.Error(w, http.StatusTooManyRequests, "too many requests")
		}),
	)
}
