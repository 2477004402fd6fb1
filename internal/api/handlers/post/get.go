package post

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"anyboard/internal/core/comments"
	"anyboard/internal/core/posts"
)

// GetHandler serves a single post together with its comments
type GetHandler struct {
	service  posts.Service
	comments comments.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service, commentService comments.Service) *GetHandler {
	return &GetHandler{
		service:  service,
		comments: commentService,
	}
}

type detailResponse struct {
	Post     *posts.Post         `json:"post"`
	Comments []*comments.Comment `json:"comments"`
}

// HandleGet handles GET /posts/{postID}.
// The detail view needs both the post and its comment thread, so they are
// fetched together.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post id is required")
		return
	}

	post, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	thread, err := h.comments.ListForPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if thread == nil {
		thread = []*comments.Comment{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(detailResponse{Post: post, Comments: thread}); err != nil {
		log.Printf("Failed to encode post detail response: %v", err)
	}
}
