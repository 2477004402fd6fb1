package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"anyboard/internal/auth"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) auth.UserRepository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new account
func (r *postgresUserRepo) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (uid, email, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		user.UID, user.Email, user.DisplayName, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return auth.ErrEmailInUse
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by email address
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getUser(ctx, `
		SELECT uid, email, display_name, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)
}

// GetByUID retrieves an account by uid
func (r *postgresUserRepo) GetByUID(ctx context.Context, uid string) (*auth.User, error) {
	return r.getUser(ctx, `
		SELECT uid, email, display_name, password_hash, created_at
		FROM users
		WHERE uid = $1
	`, uid)
}

func (r *postgresUserRepo) getUser(ctx context.Context, query string, arg interface{}) (*auth.User, error) {
	var user auth.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.UID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
