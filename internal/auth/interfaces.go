package auth

import (
	"context"

	"anyboard/internal/core/sessions"
)

// UserRepository defines the data access interface for accounts
type UserRepository interface {
	// Create inserts a new account. Returns ErrEmailInUse when the email
	// is already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail returns the account for an email address, or ErrUserNotFound
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUID returns the account for a uid, or ErrUserNotFound
	GetByUID(ctx context.Context, uid string) (*User, error)
}

// SessionRepository persists sessions so sign-in survives a restart.
// The provider restores active sessions from here at startup.
type SessionRepository interface {
	Create(ctx context.Context, session *sessions.Session) error

	// Delete removes a session by token. Returns ErrSessionNotFound when
	// no session exists for the token.
	Delete(ctx context.Context, token string) error

	// ListActive returns all sessions that have not expired
	ListActive(ctx context.Context) ([]*sessions.Session, error)
}
