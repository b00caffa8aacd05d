package domain

import (
	"context"
	"time"
)

type ContextKey string

const UserContextKey ContextKey = "user"

type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminGrant authorizes a user to access the console. Grants are
// provisioned out-of-band; this service only ever reads them.
type AdminGrant struct {
	UserID    string    `json:"userId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type RefreshToken struct {
	Token     string    `json:"token"` // UUID
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	Revoked   bool      `json:"revoked"`
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// Refresh tokens
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// GrantRepository reads admin grants. HasActiveGrant distinguishes
// "no grant" (false, nil) from a failed lookup (false, err).
type GrantRepository interface {
	HasActiveGrant(ctx context.Context, userID string) (bool, error)
}
