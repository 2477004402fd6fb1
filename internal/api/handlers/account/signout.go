package account

import (
	"net/http"

	"anyboard/internal/api/middleware"
)

// SignOutHandler handles sign-out requests
type SignOutHandler struct {
	service AuthService
}

// NewSignOutHandler creates a new sign-out handler
func NewSignOutHandler(service AuthService) *SignOutHandler {
	return &SignOutHandler{
		service: service,
	}
}

// HandleSignOut handles POST /auth/signout.
// Revokes the session the bearer token points at. The auth middleware has
// already resolved the token, so a missing session never reaches here.
func (h *SignOutHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetSessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		handleAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
