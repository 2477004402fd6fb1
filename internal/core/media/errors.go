package media

import (
	"errors"
	"fmt"
)

// UploadError wraps whatever failed while turning a local image reference
// into a remote URL. Ref identifies which image of a batch failed.
type UploadError struct {
	Err error
	Ref string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for %q: %v", e.Ref, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError wraps err with the failing reference.
func NewUploadError(ref string, err error) error {
	return &UploadError{Ref: ref, Err: err}
}

// IsUploadError checks if err is an upload error.
func IsUploadError(err error) bool {
	var uploadErr *UploadError
	return errors.As(err, &uploadErr)
}
