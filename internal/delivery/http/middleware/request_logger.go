package middleware

import (
	"net/http"
	"time"

	"caribay-backend/pkg/logger"
	"caribay-backend/pkg/utils"

	"github.com/google/uuid"
)

// RequestLogger logs all HTTP requests with timing and status.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.New().String()[:8]
		reqLogger := logger.WithRequestID(requestID)

		ctx := logger.NewContext(r.Context(), &reqLogger)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		userID := ""
		if claims, err := utils.ExtractClaims(r); err == nil && claims != nil {
			userID = claims.UserID
		}

		logEvent := reqLogger.Info()
		if wrapped.statusCode >= 500 {
			logEvent = reqLogger.Error()
		} else if wrapped.statusCode >= 400 {
			logEvent = reqLogger.Warn()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", wrapped.statusCode).
			Dur("duration_ms", duration).
			Str("ip", getClientIP(r)).
			Str("user_id", userID).
			Msg("HTTP")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts client IP from request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
