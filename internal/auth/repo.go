package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huntboard/huntboard/internal/platform/httpx"
)

// Repository defines persistence operations for the credential store.
type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, user *User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	MarkVerified(ctx context.Context, id int64) error
	SetVerificationToken(ctx context.Context, id int64, token string, expires time.Time) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	ResetPassword(ctx context.Context, id int64, passwordHash string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, is_verified,
	verification_token, verification_expires, reset_token, reset_expires,
	created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
		&u.VerificationToken, &u.VerificationExpiry, &u.ResetToken, &u.ResetExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CountUsers returns the number of registered accounts.
func (r *PGRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("auth: count users: %w", err)
	}
	return count, nil
}

// CreateUser inserts a new account and returns its id.
func (r *PGRepository) CreateUser(ctx context.Context, user *User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role, is_verified, verification_token, verification_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Username, user.Email, user.PasswordHash, user.Role, user.IsVerified,
		user.VerificationToken, user.VerificationExpiry,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, httpx.ErrDuplicate
		}
		return 0, fmt.Errorf("auth: create user: %w", err)
	}
	return id, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// FindByVerificationToken fetches the user holding an unexpired verification token.
func (r *PGRepository) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE verification_token = $1 AND verification_expires > $2`, token, now)
	return scanUser(row)
}

// FindByResetToken fetches the user holding an unexpired password reset token.
func (r *PGRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_token = $1 AND reset_expires > $2`, token, now)
	return scanUser(row)
}

// MarkVerified flips the verified flag and clears the verification token fields.
func (r *PGRepository) MarkVerified(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET is_verified = TRUE, verification_token = NULL,
			verification_expires = NULL, updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("auth: mark verified: %w", err)
	}
	return nil
}

// SetVerificationToken stores a fresh verification token and its expiry.
func (r *PGRepository) SetVerificationToken(ctx context.Context, id int64, token string, expires time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET verification_token = $2, verification_expires = $3, updated_at = NOW()
		WHERE id = $1`, id, token, expires)
	if err != nil {
		return fmt.Errorf("auth: set verification token: %w", err)
	}
	return nil
}

// SetResetToken stores a fresh password reset token and its expiry.
func (r *PGRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET reset_token = $2, reset_expires = $3, updated_at = NOW()
		WHERE id = $1`, id, token, expires)
	if err != nil {
		return fmt.Errorf("auth: set reset token: %w", err)
	}
	return nil
}

// ResetPassword replaces the password hash and clears the reset token fields
// so the token cannot be used a second time.
func (r *PGRepository) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, reset_token = NULL, reset_expires = NULL, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("auth: reset password: %w", err)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
