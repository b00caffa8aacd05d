package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/cache"
	"caribay-backend/pkg/logger"
	"caribay-backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// AuthUsecase authenticates console users and answers the recurring
// "is this session an admin?" question. Admin verdicts are cached per
// user for a short TTL so route guards don't hit the grant table on
// every request; concurrent misses for the same user are coalesced.
type AuthUsecase struct {
	userRepo           domain.UserRepository
	grantRepo          domain.GrantRepository
	cache              cache.CacheService
	adminCacheTTL      time.Duration
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	group              singleflight.Group
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	grantRepo domain.GrantRepository,
	cacheSvc cache.CacheService,
	adminCacheTTL, atExpiry, rtExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:           userRepo,
		grantRepo:          grantRepo,
		cache:              cacheSvc,
		adminCacheTTL:      adminCacheTTL,
		accessTokenExpiry:  atExpiry,
		refreshTokenExpiry: rtExpiry,
	}
}

func adminCacheKey(userID string) string {
	return "admin:" + userID
}

// Login verifies credentials and then the admin grant, in that order.
// An identity that authenticates but holds no active grant gets no
// tokens at all: there is never a live non-admin session in this
// console. On success the admin verdict is pre-warmed into the cache.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", nil, domain.ErrInvalidCredentials
		}
		return "", "", nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", "", nil, domain.ErrInvalidCredentials
	}

	// Fresh lookup, never the cache: no prior verdict can exist for a
	// session that is only now being established.
	isAdmin, err := u.grantRepo.HasActiveGrant(ctx, user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("admin grant lookup failed: %w", err)
	}
	if !isAdmin {
		logger.WithContext(ctx).Warn().Str("user_id", user.ID).Msg("login denied: no admin grant")
		return "", "", nil, domain.ErrNotAdmin
	}

	u.cache.Set(adminCacheKey(user.ID), true, u.adminCacheTTL)

	accessToken, err := utils.GenerateJWT(user.ID, user.Email, u.accessTokenExpiry)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken := &domain.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.refreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := u.userRepo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken.Token, user, nil
}

// CheckAdmin reports whether userID holds an active admin grant.
// An empty userID (anonymous) is simply not an admin, not an error.
// Both positive and negative verdicts are cached for the configured
// TTL; a cache hit performs no query at all. Only a failed lookup
// returns a non-nil error, so "no grant" and "query failed" are never
// conflated.
func (u *AuthUsecase) CheckAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	key := adminCacheKey(userID)
	if v, ok := u.cache.Get(key); ok {
		if isAdmin, ok := v.(bool); ok {
			return isAdmin, nil
		}
	}

	// Coalesce concurrent misses for the same user into one query.
	v, err, _ := u.group.Do(key, func() (interface{}, error) {
		isAdmin, err := u.grantRepo.HasActiveGrant(ctx, userID)
		if err != nil {
			return false, err
		}
		u.cache.Set(key, isAdmin, u.adminCacheTTL)
		return isAdmin, nil
	})
	if err != nil {
		return false, fmt.Errorf("admin grant lookup failed: %w", err)
	}
	return v.(bool), nil
}

// Logout revokes the refresh token and drops the cached admin verdict
// so a re-login observes grant changes immediately. The route is
// reachable with an expired access token, so when no authenticated
// user is known the owner is resolved from the refresh token itself.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken, userID string) error {
	if userID == "" && refreshToken != "" {
		if rt, err := u.userRepo.GetRefreshToken(ctx, refreshToken); err == nil {
			userID = rt.UserID
		}
	}
	if userID != "" {
		u.cache.Delete(adminCacheKey(userID))
	}
	if refreshToken == "" {
		return nil
	}
	return u.userRepo.RevokeRefreshToken(ctx, refreshToken)
}

// Refresh exchanges a valid refresh token for a new access token. The
// admin grant is re-checked so a revoked admin can't keep minting
// sessions from an old refresh token.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenStr string) (string, error) {
	rt, err := u.userRepo.GetRefreshToken(ctx, refreshTokenStr)
	if err != nil {
		return "", fmt.Errorf("%w: unknown refresh token", domain.ErrInvalidCredentials)
	}
	if rt.Revoked {
		return "", fmt.Errorf("%w: refresh token revoked", domain.ErrInvalidCredentials)
	}
	if time.Now().After(rt.ExpiresAt) {
		return "", fmt.Errorf("%w: refresh token expired", domain.ErrInvalidCredentials)
	}

	isAdmin, err := u.CheckAdmin(ctx, rt.UserID)
	if err != nil {
		return "", err
	}
	if !isAdmin {
		return "", domain.ErrNotAdmin
	}

	user, err := u.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		return "", err
	}

	return utils.GenerateJWT(user.ID, user.Email, u.accessTokenExpiry)
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}
