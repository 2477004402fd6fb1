package routes

import (
	"github.com/go-chi/chi/v5"

	commentHandlers "anyboard/internal/api/handlers/comments"
	"anyboard/internal/api/middleware"
	"anyboard/internal/core/comments"
)

// RegisterCommentRoutes registers comment endpoints on the router
func RegisterCommentRoutes(r chi.Router, service comments.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := commentHandlers.NewCreateCommentHandler(service)
	listHandler := commentHandlers.NewGetCommentsHandler(service)

	r.Get("/posts/{postID}/comments", listHandler.HandleList)
	r.With(authMiddleware.RequireAuth).Post("/posts/{postID}/comments", createHandler.HandleCreate)
}
