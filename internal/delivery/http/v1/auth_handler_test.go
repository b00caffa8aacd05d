package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

type authUserRepo struct {
	users  map[string]*domain.User
	tokens map[string]*domain.RefreshToken
}

func (r *authUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *authUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *authUserRepo) SaveRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	r.tokens[t.Token] = t
	return nil
}

func (r *authUserRepo) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (r *authUserRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	if t, ok := r.tokens[token]; ok {
		t.Revoked = true
	}
	return nil
}

type authGrantRepo struct {
	granted map[string]bool
}

func (g *authGrantRepo) HasActiveGrant(ctx context.Context, userID string) (bool, error) {
	return g.granted[userID], nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *mapCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]interface{}{}
}

// TestLogoutRouteClearsAdminVerdict exercises the logout route exactly
// as main.go registers it: no auth middleware, so the handler sees no
// user in context and the verdict must be cleared via the refresh
// token's owner instead.
func TestLogoutRouteClearsAdminVerdict(t *testing.T) {
	utils.SetSecret("test-secret")
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)

	users := &authUserRepo{
		users:  map[string]*domain.User{"admin@example.com": {ID: "u-admin", Email: "admin@example.com", PasswordHash: hash}},
		tokens: map[string]*domain.RefreshToken{},
	}
	grants := &authGrantRepo{granted: map[string]bool{"u-admin": true}}
	cache := &mapCache{items: map[string]interface{}{}}

	uc := usecase.NewAuthUsecase(users, grants, cache, 5*time.Minute, time.Hour, 24*time.Hour)
	handler := NewAuthHandler(uc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/logout", handler.Logout)

	_, refresh, _, err := uc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)

	_, warmed := cache.Get("admin:u-admin")
	require.True(t, warmed)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	_, stillCached := cache.Get("admin:u-admin")
	assert.False(t, stillCached)
	assert.True(t, users.tokens[refresh].Revoked)
}
