package comments

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"anyboard/internal/core/comments"
)

// GetCommentsHandler serves a post's comment thread
type GetCommentsHandler struct {
	service comments.Service
}

// NewGetCommentsHandler creates a new handler for listing comments
func NewGetCommentsHandler(service comments.Service) *GetCommentsHandler {
	return &GetCommentsHandler{
		service: service,
	}
}

type listCommentsResponse struct {
	Comments []*comments.Comment `json:"comments"`
}

// HandleList handles GET /posts/{postID}/comments.
// Comments come back oldest first. A post with no comments yields an
// empty list, as does a post id that no longer exists.
func (h *GetCommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "post id is required")
		return
	}

	thread, err := h.service.ListForPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if thread == nil {
		thread = []*comments.Comment{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listCommentsResponse{Comments: thread}); err != nil {
		log.Printf("Failed to encode comment list response: %v", err)
	}
}
