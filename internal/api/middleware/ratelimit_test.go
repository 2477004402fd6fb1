package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anyboard/internal/auth"
)

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_CountsPerAccountWhenAuthenticated(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Two accounts behind the same IP each get their own window
	for _, uid := range []string{"uid-a", "uid-b"} {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		req = req.WithContext(SetTestSession(req.Context(), testSession("tok-"+uid, uid), "tok-"+uid))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

// tokenVerifier resolves each bearer token to its own claims, unlike
// stubVerifier which always returns the same ones.
type tokenVerifier struct {
	byToken map[string]*auth.Claims
}

func (v *tokenVerifier) VerifyToken(tokenString string) (*auth.Claims, error) {
	claims, ok := v.byToken[tokenString]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

func TestRateLimiter_PerAccountThroughRouter(t *testing.T) {
	// Same middleware order as the server: OptionalAuth and the limiter
	// router-wide, RequireAuth on the route. The limiter must see the
	// account uid, not just the IP.
	sessionA := testSession("tok-a", "uid-a")
	sessionB := testSession("tok-b", "uid-b")
	store := newTestStore(t, sessionA, sessionB)
	m := NewAuthMiddleware(&tokenVerifier{byToken: map[string]*auth.Claims{
		"tok-a": claimsFor(sessionA),
		"tok-b": claimsFor(sessionB),
	}}, store)
	rl := NewRateLimiter(1, time.Minute)

	r := chi.NewRouter()
	r.Use(m.OptionalAuth)
	r.Use(rl.Middleware)
	r.With(m.RequireAuth).Post("/posts", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		req.RemoteAddr = "10.0.0.4:1234"
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	// Two accounts behind one IP do not share a window
	require.Equal(t, http.StatusCreated, do("tok-a"))
	require.Equal(t, http.StatusCreated, do("tok-b"))

	// The same account is over its own limit
	assert.Equal(t, http.StatusTooManyRequests, do("tok-a"))

	// Anonymous traffic from that IP still has its own window
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
}
