package post

import (
	"encoding/json"
	"log"
	"net/http"

	"anyboard/internal/api/middleware"
	"anyboard/internal/core/posts"
)

// ListHandler serves the post feed
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

type listResponse struct {
	Posts []*posts.Post `json:"posts"`
}

// HandleList handles GET /posts. Returns every post, newest first.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeFeed(w, feed)
}

// HandleListMine handles GET /me/posts. Returns the signed-in user's
// posts, newest first.
func (h *ListHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserUID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	feed, err := h.service.ListByAuthor(r.Context(), uid)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeFeed(w, feed)
}

func writeFeed(w http.ResponseWriter, feed []*posts.Post) {
	if feed == nil {
		feed = []*posts.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listResponse{Posts: feed}); err != nil {
		log.Printf("Failed to encode post list response: %v", err)
	}
}
