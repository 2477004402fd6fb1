package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"anyboard/internal/auth"
	"anyboard/internal/core/sessions"
)

// Context keys for storing user information
type contextKey string

const (
	UserUIDKey contextKey = "user_uid"
	SessionKey contextKey = "session"
	TokenKey   contextKey = "session_token"
)

// TokenVerifier validates an access token and returns its claims
type TokenVerifier interface {
	VerifyToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware enforces bearer-token authentication for protected routes.
// A token must both verify and map to a live session in the store, so a
// signed-out token is rejected before its expiry.
type AuthMiddleware struct {
	verifier TokenVerifier
	store    *sessions.Store
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier TokenVerifier, store *sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		store:    store,
	}
}

// RequireAuth middleware ensures the user is authenticated with a valid token.
// If not authenticated, returns 401.
// If authenticated, injects the user uid and session into context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OptionalAuth may already have resolved the session router-wide.
		if GetSession(r) != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, token, ok := m.authenticate(w, r, true)
		if !ok {
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session, token)))
	})
}

// OptionalAuth loads user info if authenticated, but doesn't require it.
// Useful for endpoints that work for both authenticated and anonymous users.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, token, ok := m.authenticate(w, r, false)
		if !ok || session == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session, token)))
	})
}

// authenticate resolves the bearer token to a live session. When required
// is true it writes the 401 itself and reports ok=false.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request, required bool) (*sessions.Session, string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if required {
			writeAuthError(w, "Missing Authorization header")
			return nil, "", false
		}
		return nil, "", true
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		if required {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return nil, "", false
		}
		return nil, "", true
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims, err := m.verifier.VerifyToken(tokenString)
	if err != nil {
		log.Printf("[AUTH_FAILURE] type=verification_failed ip=%s method=%s path=%s error=%v",
			r.RemoteAddr, r.Method, r.URL.Path, err)
		if required {
			writeAuthError(w, "Invalid or expired token")
			return nil, "", false
		}
		return nil, "", true
	}

	// The jti points at the session. A missing entry means the session
	// was signed out, so the token is dead even before it expires.
	session := m.store.Current(claims.ID)
	if session == nil {
		log.Printf("[AUTH_FAILURE] type=session_revoked ip=%s method=%s path=%s uid=%s",
			r.RemoteAddr, r.Method, r.URL.Path, claims.Subject)
		if required {
			writeAuthError(w, "Session is no longer active")
			return nil, "", false
		}
		return nil, "", true
	}

	return session, claims.ID, true
}

func withSession(ctx context.Context, session *sessions.Session, token string) context.Context {
	ctx = context.WithValue(ctx, UserUIDKey, session.UID)
	ctx = context.WithValue(ctx, SessionKey, session)
	return context.WithValue(ctx, TokenKey, token)
}

// GetUserUID extracts the authenticated user's uid from the request context.
// Returns empty string if not authenticated.
func GetUserUID(r *http.Request) string {
	uid, _ := r.Context().Value(UserUIDKey).(string)
	return uid
}

// GetSession extracts the session from the request context.
// Returns nil if not authenticated.
func GetSession(r *http.Request) *sessions.Session {
	session, _ := r.Context().Value(SessionKey).(*sessions.Session)
	return session
}

// GetSessionToken extracts the session token from the request context.
// Returns empty string if not authenticated.
func GetSessionToken(r *http.Request) string {
	token, _ := r.Context().Value(TokenKey).(string)
	return token
}

// SetTestSession injects a session into the context for testing purposes.
// This function should ONLY be used in tests to mock authenticated users.
func SetTestSession(ctx context.Context, session *sessions.Session, token string) context.Context {
	return withSession(ctx, session, token)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
