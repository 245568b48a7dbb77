package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

// ErrTokenNotFound is returned when no token exists for a user (logout
// with no live session) or a presented token resolves to nothing.
var ErrTokenNotFound = errors.New("auth token not found")

// TokenRepo persists opaque auth tokens. The `auth_tokens` table holds
// one row per user, enforced by a unique constraint on user_id, so the
// get-or-create below cannot produce two live tokens even under
// concurrent logins.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// GetOrCreate atomically returns the user's live token, inserting the
// candidate value only when none exists. The conditional insert relies
// on the unique index rather than a read-then-write pair: when another
// login raced us, ON DUPLICATE KEY turns our insert into a no-op and the
// read-back returns the winner's token.
func (r *TokenRepo) GetOrCreate(ctx context.Context, userID uint64, candidate string) (string, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (user_id, token) VALUES (?,?) ON DUPLICATE KEY UPDATE user_id=user_id",
		userID, candidate)
	if err != nil {
		return "", err
	}
	var token string
	err = r.DB.QueryRowContext(ctx,
		"SELECT token FROM auth_tokens WHERE user_id=? LIMIT 1", userID).Scan(&token)
	if err != nil {
		return "", err
	}
	return token, nil
}

// GetUser resolves a presented token to its owning user. Returns
// ErrTokenNotFound for unknown tokens; the caller decides how inactive
// users are treated.
func (r *TokenRepo) GetUser(ctx context.Context, token string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id,u.email,u.password_hash,u.is_active,u.is_admin,u.created_at,u.updated_at
		 FROM auth_tokens t JOIN users u ON u.id = t.user_id
		 WHERE t.token=? LIMIT 1`, token).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrTokenNotFound
	}
	return u, err
}

// DeleteByUser removes the user's token. ErrTokenNotFound signals that
// no live token existed; logout does not swallow that silently.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM auth_tokens WHERE user_id=?", userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
