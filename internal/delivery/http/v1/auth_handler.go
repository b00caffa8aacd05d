package v1

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

type AuthHandler struct {
	authUsecase *usecase.AuthUsecase
}

func NewAuthHandler(authUsecase *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and issues a token pair. Users without
// an active admin grant are rejected outright and receive no tokens.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	access, refresh, user, err := h.authUsecase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.setAuthCookies(w, access, refresh)
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data: map[string]interface{}{
			"user":         user,
			"accessToken":  access,
			"refreshToken": refresh,
		},
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// admin grant is re-verified, so a revoked admin cannot keep a session
// alive past the access token's lifetime.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)
	if token == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	access, err := h.authUsecase.Refresh(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.setAccessCookie(w, access)
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    map[string]interface{}{"accessToken": access},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
	userID := ""
	if user != nil {
		userID = user.ID
	}

	if err := h.authUsecase.Logout(r.Context(), h.refreshTokenFrom(r), userID); err != nil {
		writeDomainError(w, err)
		return
	}

	h.clearAuthCookies(w)
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok || user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.authUsecase.Me(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: profile})
}

// Check reports whether the current session belongs to an admin. The
// verdict is cached server side, so the UI can poll this cheaply.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
	userID := ""
	if user != nil {
		userID = user.ID
	}

	isAdmin, err := h.authUsecase.CheckAdmin(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Unable to verify admin access")
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    map[string]bool{"isAdmin": isAdmin},
	})
}

func (h *AuthHandler) refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie("refreshToken"); err == nil && c.Value != "" {
		return c.Value
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	return body.RefreshToken
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, access, refresh string) {
	h.setAccessCookie(w, access)
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refresh,
		Path:     "/api/v1/auth",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
	})
}

func (h *AuthHandler) setAccessCookie(w http.ResponseWriter, access string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(time.Hour.Seconds()),
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "", Path: "/api/v1/auth", HttpOnly: true, MaxAge: -1})
}
