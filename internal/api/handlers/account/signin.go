package account

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// SignInHandler handles sign-in requests
type SignInHandler struct {
	service AuthService
}

// NewSignInHandler creates a new sign-in handler
func NewSignInHandler(service AuthService) *SignInHandler {
	return &SignInHandler{
		service: service,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string    `json:"accessToken"`
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName,omitempty"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// HandleSignIn handles POST /auth/signin.
// On success the response carries the bearer token for subsequent requests.
func (h *SignInHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 100*1024)

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	session, token, err := h.service.SignInWithEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(signInResponse{
		AccessToken: token,
		UID:         session.UID,
		DisplayName: session.DisplayName,
		Email:       session.Email,
		ExpiresAt:   session.ExpiresAt,
	}); err != nil {
		log.Printf("Failed to encode sign-in response: %v", err)
	}
}
