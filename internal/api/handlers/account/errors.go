package account

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"anyboard/internal/auth"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleAuthError maps provider errors to HTTP responses with messages a
// client can show directly.
func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "InvalidEmail",
			"Please enter a valid email address")

	case errors.Is(err, auth.ErrMissingPassword):
		writeError(w, http.StatusBadRequest, "MissingPassword",
			"Please enter a password")

	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "WeakPassword",
			"Password must be at least 6 characters")

	case errors.Is(err, auth.ErrEmailInUse):
		writeError(w, http.StatusConflict, "EmailInUse",
			"An account with this email already exists")

	// Sign-in failures share one message so the response doesn't reveal
	// whether the email is registered
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "InvalidCredentials",
			"Incorrect email or password")

	case errors.Is(err, auth.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, "SessionNotFound",
			"Session is no longer active")

	default:
		log.Printf("Unexpected error in account handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
