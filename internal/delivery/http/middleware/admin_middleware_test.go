package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/utils"
)

type stubChecker struct {
	isAdmin bool
	err     error
	calls   int
}

func (s *stubChecker) CheckAdmin(ctx context.Context, userID string) (bool, error) {
	s.calls++
	return s.isAdmin, s.err
}

func requestWithUser(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	if userID == "" {
		return req
	}
	ctx := context.WithValue(req.Context(), domain.UserContextKey, &domain.User{ID: userID})
	return req.WithContext(ctx)
}

func runAdminMiddleware(t *testing.T, checker *stubChecker, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	handlerRan := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	NewAdminMiddleware(checker)(next).ServeHTTP(rec, req)
	return rec, handlerRan
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	checker := &stubChecker{isAdmin: true}

	rec, ran := runAdminMiddleware(t, checker, requestWithUser("u-admin"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ran)
	assert.Equal(t, 1, checker.calls)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	checker := &stubChecker{isAdmin: false}

	rec, ran := runAdminMiddleware(t, checker, requestWithUser("u-shopper"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, ran)
}

func TestAdminMiddlewareWithoutUserInContext(t *testing.T) {
	checker := &stubChecker{isAdmin: true}

	rec, ran := runAdminMiddleware(t, checker, requestWithUser(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
	// The grant store is never consulted for anonymous requests.
	assert.Zero(t, checker.calls)
}

func TestAdminMiddlewareCheckFailureIsNotForbidden(t *testing.T) {
	// A failed lookup must read as "could not verify", not "denied":
	// the client may retry, and the handler never runs.
	checker := &stubChecker{err: errors.New("connection refused")}

	rec, ran := runAdminMiddleware(t, checker, requestWithUser("u-admin"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, ran)
}

func TestAuthMiddlewareAcceptsBearerAndCookie(t *testing.T) {
	utils.SetSecret("test-secret")
	token, err := utils.GenerateJWT("u-1", "a@b.c", time.Minute)
	require.NoError(t, err)

	var captured *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = r.Context().Value(domain.UserContextKey).(*domain.User)
		w.WriteHeader(http.StatusOK)
	})

	bearer := httptest.NewRequest(http.MethodGet, "/", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(rec, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "u-1", captured.ID)

	captured = nil
	withCookie := httptest.NewRequest(http.MethodGet, "/", nil)
	withCookie.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec = httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(rec, withCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "a@b.c", captured.Email)
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	utils.SetSecret("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	noToken := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(rec, noToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	badToken := httptest.NewRequest(http.MethodGet, "/", nil)
	badToken.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(rec, badToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
