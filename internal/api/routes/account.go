package routes

import (
	"github.com/go-chi/chi/v5"

	"anyboard/internal/api/handlers/account"
	"anyboard/internal/api/middleware"
)

// RegisterAccountRoutes registers the auth endpoints on the router.
// Sign-up and sign-in are open; sign-out needs a live session to revoke.
func RegisterAccountRoutes(r chi.Router, service account.AuthService, authMiddleware *middleware.AuthMiddleware) {
	signUpHandler := account.NewSignUpHandler(service)
	signInHandler := account.NewSignInHandler(service)
	signOutHandler := account.NewSignOutHandler(service)

	r.Post("/auth/signup", signUpHandler.HandleSignUp)
	r.Post("/auth/signin", signInHandler.HandleSignIn)
	r.With(authMiddleware.RequireAuth).Post("/auth/signout", signOutHandler.HandleSignOut)
}
