package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist. Absence is a
	// distinct outcome from a failed read.
	ErrNotFound = errors.New("post not found")

	// ErrNotSignedIn is returned when a write is attempted without an
	// authenticated user
	ErrNotSignedIn = errors.New("sign in required")

	// ErrNotAuthorized is returned when someone other than the author
	// tries to edit or delete a post
	ErrNotAuthorized = errors.New("only the author can modify this post")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
