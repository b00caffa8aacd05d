package middleware

import (
	"context"
	"net/http"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/logger"
	"caribay-backend/pkg/utils"
)

// AdminChecker answers whether a user holds an active admin grant.
// Implemented by usecase.AuthUsecase; tests substitute a stub.
type AdminChecker interface {
	CheckAdmin(ctx context.Context, userID string) (bool, error)
}

// NewAdminMiddleware gates a route on an active admin grant. It MUST be
// chained after AuthMiddleware: the verdict comes from the grant store
// (through the authorizer's cache), not from a token claim, so revoking
// a grant locks the user out within the cache TTL rather than at token
// expiry. Protected handlers never run before the verdict resolves.
func NewAdminMiddleware(authorizer AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
			if !ok || user == nil {
				utils.WriteError(w, http.StatusUnauthorized, "No user found in context")
				return
			}

			isAdmin, err := authorizer.CheckAdmin(r.Context(), user.ID)
			if err != nil {
				logger.WithContext(r.Context()).Error().Err(err).Str("user_id", user.ID).Msg("admin check failed")
				utils.WriteError(w, http.StatusInternalServerError, "Could not verify admin access")
				return
			}
			if !isAdmin {
				utils.WriteError(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
