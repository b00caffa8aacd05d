package postgres

import (
	"context"
	"errors"

	"caribay-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) SaveRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at, created_at, revoked)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.Token, token.UserID, token.ExpiresAt, token.CreatedAt, token.Revoked)
	return err
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx,
		`SELECT token, user_id, expires_at, created_at, revoked
		 FROM refresh_tokens WHERE token = $1`, token,
	).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *userRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

type grantRepository struct {
	db *pgxpool.Pool
}

func NewGrantRepository(db *pgxpool.Pool) domain.GrantRepository {
	return &grantRepository{db: db}
}

// HasActiveGrant returns (false, nil) when no grant row exists; only a
// failed query yields an error.
func (r *grantRepository) HasActiveGrant(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_grants WHERE user_id = $1 AND is_active)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
