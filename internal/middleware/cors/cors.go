// Package cors answers browser preflight requests and tags responses with
// the allowed origin.
package cors

import (
	"net/http"
	"strings"
)

// Config holds CORS configuration
type Config struct {
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
}

// DefaultConfig allows any origin, which is what the chat widget expects.
func DefaultConfig() Config {
	return Config{
		AllowedOrigin:  "*",
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	}
}

// Middleware sets CORS headers on every response and short-circuits
// preflight requests with 204.
func Middleware(config Config) func(http.Handler) http.Handler {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", config.AllowedOrigin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
