package middleware

import (
	"net/http"
	"strings"

	"caribay-backend/config"
)

// NewCORSMiddleware creates a CORS middleware with config injection.
// AllowedOrigin may be a comma-separated list; unmatched origins simply
// get no CORS headers.
func NewCORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowedOrigins := strings.Split(cfg.AllowedOrigin, ",")

			for _, o := range allowedOrigins {
				o = strings.TrimSpace(o)
				if o == "*" {
					w.Header().Set("Access-Control-Allow-Origin", "*")
					break
				}
				if o == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
