package middleware

import (
	"context"
	"net/http"
	"strings"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/utils"
)

// AuthMiddleware validates the access token and stores a partial user
// (id + email from claims) in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			cookie, err := r.Cookie("accessToken")
			if err == nil {
				tokenString = cookie.Value
			}
		}

		if tokenString == "" {
			utils.WriteError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)

		user := &domain.User{
			ID:    sub,
			Email: email,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
