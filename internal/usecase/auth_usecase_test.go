package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/utils"
)

// fakeCache is a map-backed CacheService. TTLs are recorded but not
// enforced; tests expire entries by deleting them.
type fakeCache struct {
	mu    sync.Mutex
	items map[string]interface{}
	ttls  map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]interface{}{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value interface{}, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.ttls[key] = d
}

func (c *fakeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *fakeCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]interface{}{}
}

// countingGrantRepo records how many times the grant table was hit.
type countingGrantRepo struct {
	mu      sync.Mutex
	granted map[string]bool
	err     error
	queries int
}

func (g *countingGrantRepo) HasActiveGrant(ctx context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries++
	if g.err != nil {
		return false, g.err
	}
	return g.granted[userID], nil
}

type stubUserRepo struct {
	users  map[string]*domain.User // by email
	tokens map[string]*domain.RefreshToken
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{}, tokens: map[string]*domain.RefreshToken{}}
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) SaveRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	r.tokens[t.Token] = t
	return nil
}

func (r *stubUserRepo) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	if t, ok := r.tokens[token]; ok {
		t.Revoked = true
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthUsecase, *stubUserRepo, *countingGrantRepo, *fakeCache) {
	t.Helper()
	utils.SetSecret("test-secret")

	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)

	users := newStubUserRepo()
	users.users["admin@example.com"] = &domain.User{ID: "u-admin", Email: "admin@example.com", PasswordHash: hash}
	users.users["shopper@example.com"] = &domain.User{ID: "u-shopper", Email: "shopper@example.com", PasswordHash: hash}

	grants := &countingGrantRepo{granted: map[string]bool{"u-admin": true}}
	cache := newFakeCache()

	uc := NewAuthUsecase(users, grants, cache, 5*time.Minute, time.Hour, 24*time.Hour)
	return uc, users, grants, cache
}

func TestLoginIssuesTokensForAdmin(t *testing.T) {
	uc, _, _, cache := newAuthFixture(t)

	access, refresh, user, err := uc.Login(context.Background(), "admin@example.com", "hunter22")

	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, "u-admin", user.ID)

	// The verdict is pre-warmed so the first route guard is a cache hit.
	v, ok := cache.Get("admin:u-admin")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)

	_, _, _, err := uc.Login(context.Background(), "admin@example.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)

	_, _, _, err := uc.Login(context.Background(), "nobody@example.com", "hunter22")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginDeniedWithoutGrantIssuesNoTokens(t *testing.T) {
	uc, users, _, _ := newAuthFixture(t)

	access, refresh, _, err := uc.Login(context.Background(), "shopper@example.com", "hunter22")

	assert.ErrorIs(t, err, domain.ErrNotAdmin)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Empty(t, users.tokens)
}

func TestCheckAdminEmptyUserIsNotAnError(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)

	isAdmin, err := uc.CheckAdmin(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, isAdmin)
	assert.Zero(t, grants.queries)
}

func TestCheckAdminCachesVerdict(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)

	for i := 0; i < 5; i++ {
		isAdmin, err := uc.CheckAdmin(context.Background(), "u-admin")
		require.NoError(t, err)
		assert.True(t, isAdmin)
	}

	assert.Equal(t, 1, grants.queries)
}

func TestCheckAdminCachesNegativeVerdict(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)

	for i := 0; i < 3; i++ {
		isAdmin, err := uc.CheckAdmin(context.Background(), "u-shopper")
		require.NoError(t, err)
		assert.False(t, isAdmin)
	}

	assert.Equal(t, 1, grants.queries)
}

func TestCheckAdminDistinctUsersQuerySeparately(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)

	_, _ = uc.CheckAdmin(context.Background(), "u-admin")
	_, _ = uc.CheckAdmin(context.Background(), "u-shopper")

	assert.Equal(t, 2, grants.queries)
}

func TestCheckAdminQueryFailureSurfaces(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)
	grants.err = errors.New("connection refused")

	isAdmin, err := uc.CheckAdmin(context.Background(), "u-admin")

	assert.Error(t, err)
	assert.False(t, isAdmin)
}

func TestCheckAdminFailedLookupNotCached(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)
	grants.err = errors.New("connection refused")

	_, _ = uc.CheckAdmin(context.Background(), "u-admin")

	grants.err = nil
	isAdmin, err := uc.CheckAdmin(context.Background(), "u-admin")

	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestCheckAdminCoalescesConcurrentMisses(t *testing.T) {
	uc, _, grants, _ := newAuthFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isAdmin, err := uc.CheckAdmin(context.Background(), "u-admin")
			assert.NoError(t, err)
			assert.True(t, isAdmin)
		}()
	}
	wg.Wait()

	// Concurrent misses collapse into far fewer queries than callers.
	grants.mu.Lock()
	defer grants.mu.Unlock()
	assert.Less(t, grants.queries, 20)
}

func TestLogoutDropsCachedVerdictAndRevokesToken(t *testing.T) {
	uc, users, _, cache := newAuthFixture(t)

	_, refresh, _, err := uc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), refresh, "u-admin"))

	_, ok := cache.Get("admin:u-admin")
	assert.False(t, ok)
	assert.True(t, users.tokens[refresh].Revoked)
}

func TestLogoutWithoutUserContextStillClearsVerdict(t *testing.T) {
	// Logout is reachable with an expired access token, so no
	// authenticated user may be available. The verdict must still be
	// dropped, resolved through the refresh token's owner.
	uc, users, _, cache := newAuthFixture(t)

	_, refresh, _, err := uc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), refresh, ""))

	_, ok := cache.Get("admin:u-admin")
	assert.False(t, ok)
	assert.True(t, users.tokens[refresh].Revoked)
}

func TestRefreshReValidatesGrant(t *testing.T) {
	uc, _, grants, cache := newAuthFixture(t)

	_, refresh, _, err := uc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)

	// Grant revoked after login; cached verdict expires.
	grants.granted["u-admin"] = false
	cache.Delete("admin:u-admin")

	_, err = uc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	uc, users, _, _ := newAuthFixture(t)

	_, refresh, _, err := uc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)

	users.tokens[refresh].Revoked = true

	_, err = uc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
