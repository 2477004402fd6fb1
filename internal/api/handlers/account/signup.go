package account

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"anyboard/internal/auth"
	"anyboard/internal/core/sessions"
)

// AuthService is the slice of the auth provider the account handlers use
type AuthService interface {
	SignUpWithEmail(ctx context.Context, email, password, displayName string) (*auth.User, error)
	SignInWithEmail(ctx context.Context, email, password string) (*sessions.Session, string, error)
	SignOut(ctx context.Context, token string) error
}

// SignUpHandler handles account registration
type SignUpHandler struct {
	service AuthService
}

// NewSignUpHandler creates a new sign-up handler
func NewSignUpHandler(service AuthService) *SignUpHandler {
	return &SignUpHandler{
		service: service,
	}
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type signUpResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// HandleSignUp handles POST /auth/signup.
// Creates the account only; the client signs in separately.
func (h *SignUpHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 100*1024)

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	user, err := h.service.SignUpWithEmail(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(signUpResponse{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}); err != nil {
		log.Printf("Failed to encode sign-up response: %v", err)
	}
}
