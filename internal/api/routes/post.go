package routes

import (
	"github.com/go-chi/chi/v5"

	"anyboard/internal/api/handlers/post"
	"anyboard/internal/api/middleware"
	"anyboard/internal/core/comments"
	"anyboard/internal/core/posts"
)

// RegisterPostRoutes registers post endpoints on the router.
// Reads are open; writes require authentication and the service enforces
// author-only edits and deletes.
func RegisterPostRoutes(r chi.Router, service posts.Service, commentService comments.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service, commentService)
	listHandler := post.NewListHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)

	// The feed and detail views
	r.Get("/posts", listHandler.HandleList)
	r.Get("/posts/{postID}", getHandler.HandleGet)

	// Writes
	r.With(authMiddleware.RequireAuth).Post("/posts", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Put("/posts/{postID}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/posts/{postID}", deleteHandler.HandleDelete)

	// The signed-in user's own posts
	r.With(authMiddleware.RequireAuth).Get("/me/posts", listHandler.HandleListMine)
}
