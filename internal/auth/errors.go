package auth

import "errors"

// Sentinel errors for account and sign-in failures. Handlers translate
// these to the user-facing messages the app shows; anything else is
// surfaced as an unknown auth error.
var (
	// ErrInvalidEmail is returned when the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrMissingPassword is returned when no password was supplied
	ErrMissingPassword = errors.New("password is required")

	// ErrWeakPassword is returned when the password is shorter than 6 characters
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrEmailInUse is returned when an account with the email already exists
	ErrEmailInUse = errors.New("email already in use")

	// ErrUserNotFound is returned when no account exists for the email
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned when the password does not match
	ErrWrongPassword = errors.New("wrong password")

	// ErrSessionNotFound is returned when signing out a token that has no session
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidToken is returned when a bearer token fails verification
	ErrInvalidToken = errors.New("invalid or expired token")
)
