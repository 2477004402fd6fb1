package comments

import (
	"errors"
	"fmt"
)

// Sentinel errors for comment operations
var (
	// ErrCommentNotFound is returned when a comment does not exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrPostNotFound is returned when commenting on a post that does
	// not exist (or was deleted before the comment landed)
	ErrPostNotFound = errors.New("post not found")

	// ErrNotSignedIn is returned when commenting without an
	// authenticated user
	ErrNotSignedIn = errors.New("sign in required")
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
